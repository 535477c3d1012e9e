package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL = 10 * time.Minute
	// DurableKeyPrefix namespaces the entries in the durable store.
	DurableKeyPrefix = "exerciseProgressCache_"

	defaultMemorySize = 64 * 1024 * 1024
)

// Entry is the serialized form of a cached query result, in both tiers.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch millis
}

// Manager is a two tier, time boxed cache: an in-process freecache in front of
// a durable Store. Freshness is always decided by the entry timestamp.
type Manager struct {
	memory  *freecache.Cache
	durable Store

	// entries too large for freecache
	largeMu sync.RWMutex
	large   map[string][]byte

	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Manager

	pendingWrites sync.WaitGroup
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithClock replaces time.Now, used for freshness checks and entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithMetrics(metricsManager *metrics.Manager) Option {
	return func(m *Manager) {
		m.metrics = metricsManager
	}
}

// WithMemorySize sets the in-process tier size in bytes.
// Entries bigger than 1/1024 of it go to a separate in-process map.
func WithMemorySize(size int) Option {
	return func(m *Manager) {
		m.memory = freecache.NewCache(size)
	}
}

// NewManager creates the cache manager. durable may be nil, in which case only
// the in-process tier is used.
func NewManager(durable Store, opts ...Option) *Manager {
	m := &Manager{
		durable: durable,
		large:   make(map[string][]byte),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.memory == nil {
		m.memory = freecache.NewCache(defaultMemorySize)
	}
	return m
}

// Get looks the key up in memory first, then in the durable tier, and
// unmarshals a fresh payload into dest. Stale, missing, unreadable and
// undecodable entries are all reported as a miss.
func (m *Manager) Get(ctx context.Context, key string, dest any) bool {
	if raw, ok := m.memoryGet(key); ok && m.decodeFresh(key, raw, dest) {
		m.countHit("memory")
		return true
	}

	if m.durable == nil {
		m.countMiss()
		return false
	}

	raw, err := m.durable.Read(ctx, DurableKeyPrefix+key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Debugf("cache durable read [%s]: %s", key, err)
		}
		m.countMiss()
		return false
	}

	if !m.decodeFresh(key, raw, dest) {
		m.countMiss()
		return false
	}

	// promote, so the next lookup does not touch the durable store
	m.memorySet(key, raw)
	m.countHit("durable")
	return true
}

// Set stores the payload with the current timestamp. The in-process tier is
// written before Set returns; the durable write happens in the background
// and its failure is only logged.
func (m *Manager) Set(ctx context.Context, key string, payload any) {
	raw, err := m.encode(payload)
	if err != nil {
		log.Errorf("cache encode [%s]: %s", key, err)
		return
	}

	m.memorySet(key, raw)

	if m.durable == nil {
		return
	}

	m.pendingWrites.Add(1)
	go func() {
		defer m.pendingWrites.Done()
		if err := m.durable.Write(context.WithoutCancel(ctx), DurableKeyPrefix+key, raw); err != nil {
			log.Warnf("cache durable write [%s]: %s", key, err)
			if m.metrics != nil {
				m.metrics.CounterDurableWriteErrors.Inc()
			}
		}
	}()
}

func (m *Manager) memoryGet(key string) ([]byte, bool) {
	raw, err := m.memory.Get([]byte(key))
	if err == nil {
		return raw, true
	}
	if !errors.Is(err, freecache.ErrNotFound) {
		log.Debugf("cache memory get [%s]: %s", key, err)
	}

	m.largeMu.RLock()
	defer m.largeMu.RUnlock()
	raw, ok := m.large[key]
	return raw, ok
}

// memorySet writes the in-process tier. Entries freecache refuses as too large
// are kept in the large map until overwritten or found stale.
func (m *Manager) memorySet(key string, raw []byte) {
	err := m.memory.Set([]byte(key), raw, m.memoryExpireSeconds())
	if err == nil {
		m.largeMu.Lock()
		delete(m.large, key)
		m.largeMu.Unlock()
		return
	}
	if !errors.Is(err, freecache.ErrLargeEntry) {
		log.Warnf("cache memory set [%s]: %s", key, err)
		return
	}

	log.Debugf("cache memory set [%s]: %d bytes, kept outside freecache", key, len(raw))
	m.largeMu.Lock()
	defer m.largeMu.Unlock()
	m.large[key] = raw
	m.pruneLarge()
}

// pruneLarge drops stale entries from the large map. Callers hold largeMu.
func (m *Manager) pruneLarge() {
	for key, raw := range m.large {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil || !m.fresh(entry) {
			delete(m.large, key)
		}
	}
}

// Wait blocks until all background durable writes are done.
func (m *Manager) Wait() {
	m.pendingWrites.Wait()
}

func (m *Manager) encode(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return json.Marshal(Entry{
		Data:      data,
		Timestamp: m.now().UnixMilli(),
	})
}

func (m *Manager) decodeFresh(key string, raw []byte, dest any) bool {
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Debugf("cache entry [%s] not valid json: %s", key, err)
		return false
	}
	if !m.fresh(entry) {
		return false
	}
	if err := json.Unmarshal(entry.Data, dest); err != nil {
		log.Debugf("cache entry [%s] data decode: %s", key, err)
		return false
	}
	return true
}

func (m *Manager) fresh(entry Entry) bool {
	return m.now().UnixMilli()-entry.Timestamp < m.ttl.Milliseconds()
}

// memoryExpireSeconds bounds how long freecache keeps dead entries around.
func (m *Manager) memoryExpireSeconds() int {
	return int(2 * m.ttl / time.Second)
}

func (m *Manager) countHit(tier string) {
	if m.metrics != nil {
		m.metrics.CounterCacheHits.WithLabelValues(tier).Inc()
	}
}

func (m *Manager) countMiss() {
	if m.metrics != nil {
		m.metrics.CounterCacheMisses.Inc()
	}
}
