// Package store caches raw data snapshots on disk or in redis so a restart does not
// have to refetch every collection.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("store: key not found")

// Store is a byte-oriented snapshot cache. A ttl of zero means no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Close() error
}
