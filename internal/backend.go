package internal

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/gymprogress/internal/cache"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/db"
	"github.com/2beens/gymprogress/internal/progress"
	"github.com/2beens/gymprogress/internal/remote"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/workouts"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Backend holds the wired progress service and everything it owns.
// Shared by the HTTP service, the stdio MCP server and progressctl.
type Backend struct {
	Service *progress.Service
	Cache   *cache.Manager

	// exactly one of these is set, depending on the store driver
	SQLite *workouts.SQLiteRepo
	DBPool *pgxpool.Pool

	// set only for the redis cache store
	Redis *redis.Client
}

type BackendParams struct {
	Config         *config.Config
	RedisPassword  string
	DBPassword     string
	TracingEnabled bool
	// Offline skips the remote analytics service even if an URL is configured.
	Offline        bool
	MetricsManager *metrics.Manager
}

func NewBackend(ctx context.Context, params BackendParams) (_ *Backend, err error) {
	cfg := params.Config
	b := &Backend{}
	defer func() {
		if err != nil {
			if closeErr := b.Close(); closeErr != nil {
				log.Warnf("close partially built backend: %s", closeErr)
			}
		}
	}()

	var store workouts.Store
	switch cfg.StoreDriver {
	case "postgres":
		b.DBPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.DBPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := b.DBPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		store = workouts.NewPgRepo(b.DBPool)
	default:
		b.SQLite, err = workouts.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open workout log [%s]: %w", cfg.SQLitePath, err)
		}
		store = b.SQLite
	}

	var durable cache.Store
	switch cfg.CacheStore {
	case "redis":
		b.Redis = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := b.Redis.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		// freshness is decided by the entry timestamp, the expiry only bounds garbage
		durable = cache.NewRedisStore(b.Redis, 2*cache.DefaultTTL)
	case "sqlite":
		sqliteDB := b.SQLite
		if sqliteDB == nil {
			// postgres log, the cache still lives in a local file
			cacheRepo, err := workouts.OpenSQLite(cfg.SQLitePath)
			if err != nil {
				return nil, fmt.Errorf("open sqlite cache [%s]: %w", cfg.SQLitePath, err)
			}
			b.SQLite = cacheRepo
			sqliteDB = cacheRepo
		}
		sqliteStore, err := cache.NewSQLiteStore(ctx, sqliteDB.DB())
		if err != nil {
			return nil, fmt.Errorf("sqlite cache store: %w", err)
		}
		durable = sqliteStore
	default:
		log.Debugln("durable cache tier disabled")
	}

	b.Cache = cache.NewManager(
		durable,
		cache.WithMemorySize(cfg.CacheMemorySizeMiB*1024*1024),
		cache.WithMetrics(params.MetricsManager),
	)

	if cfg.RemoteAnalyticsURL == "" || params.Offline {
		log.Infoln("remote analytics disabled, answering from cache and local log only")
		b.Service = progress.NewService(store, nil, b.Cache, params.MetricsManager)
	} else {
		log.Debugf("remote analytics: %s (timeout %s)", cfg.RemoteAnalyticsURL, cfg.RemoteTimeout())
		b.Service = progress.NewService(
			store,
			remote.NewClient(cfg.RemoteAnalyticsURL, cfg.RemoteTimeout()),
			b.Cache,
			params.MetricsManager,
		)
	}

	return b, nil
}

// Close waits for pending cache writes, then releases the stores.
func (b *Backend) Close() error {
	if b.Cache != nil {
		b.Cache.Wait()
	}

	var err error
	if b.Redis != nil {
		err = multierr.Append(err, b.Redis.Close())
	}
	if b.SQLite != nil {
		err = multierr.Append(err, b.SQLite.Close())
	}
	if b.DBPool != nil {
		log.Debugln("closing db pool ...")
		b.DBPool.Close() // blocking operation
	}
	return err
}
