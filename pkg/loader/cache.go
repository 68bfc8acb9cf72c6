package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/metrics"
	"github.com/sudorandom/vote-grid/pkg/store"
)

// CachedSource reads through a snapshot store. A miss fetches from Source and writes
// the bytes back with TTL.
type CachedSource struct {
	Source  Source
	Store   store.Store
	TTL     time.Duration
	Log     *zap.Logger
	Metrics *metrics.Collector
}

func (s *CachedSource) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *CachedSource) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	log := s.logger()
	b, err := s.Store.Get(ctx, name)
	switch {
	case err == nil:
		s.Metrics.ObserveCache(true)
		log.Debug("Using cached snapshot", zap.String("collection", name))
		return io.NopCloser(bytes.NewReader(b)), nil
	case !errors.Is(err, store.ErrNotFound):
		log.Warn("Snapshot cache read failed", zap.String("collection", name), zap.Error(err))
	}
	s.Metrics.ObserveCache(false)

	rc, err := s.Source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Warn("Error closing source", zap.String("collection", name), zap.Error(err))
		}
	}()
	b, err = io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, name, b, s.TTL); err != nil {
		log.Warn("Snapshot cache write failed", zap.String("collection", name), zap.Error(err))
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
