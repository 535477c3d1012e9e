package cache

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cache entry not found")

// Store is the durable cache tier. Values are serialized cache entries.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
}
