package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sudorandom/vote-grid/pkg/metrics"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

// LoadAll fetches every collection in parallel. A collection that fails to fetch or
// decode is replaced by an empty one and logged; LoadAll itself never fails.
func LoadAll(ctx context.Context, src Source, log *zap.Logger, m *metrics.Collector) *votes.Dataset {
	if log == nil {
		log = zap.NewNop()
	}
	ds := &votes.Dataset{}
	var meta votes.Metadata
	metaOK := false

	g, ctx := errgroup.WithContext(ctx)
	// Each goroutine owns one field of ds, so no locking is needed.
	g.Go(func() error {
		ds.People = fetchList[votes.PersonData](ctx, src, PersonData, log, m)
		return nil
	})
	g.Go(func() error {
		ds.PersonVotes = fetchList[votes.PersonVoteData](ctx, src, PersonVoteData, log, m)
		return nil
	})
	g.Go(func() error {
		ds.Facts = fetchList[votes.FactData](ctx, src, FactData, log, m)
		return nil
	})
	g.Go(func() error {
		ds.Details = fetchList[votes.VoteDetailData](ctx, src, VoteDetailData, log, m)
		return nil
	})
	g.Go(func() error {
		err := fetchJSON(ctx, src, MetadataFile, &meta)
		switch {
		case err == nil:
			metaOK = true
		case errors.Is(err, ErrNotFound):
			log.Info("Metadata not found")
		default:
			log.Warn("Failed to load metadata", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	if metaOK {
		ds.Metadata = &meta
	}
	log.Info("Loaded dataset",
		zap.Int("people", len(ds.People)),
		zap.Int("person_votes", len(ds.PersonVotes)),
		zap.Int("facts", len(ds.Facts)),
		zap.Int("details", len(ds.Details)))
	return ds
}

func fetchList[T any](ctx context.Context, src Source, name string, log *zap.Logger, m *metrics.Collector) []T {
	var out []T
	if err := fetchJSON(ctx, src, name, &out); err != nil {
		log.Warn("Failed to load collection, using empty", zap.String("collection", name), zap.Error(err))
		m.ObserveLoad(name, 0, true)
		return nil
	}
	m.ObserveLoad(name, len(out), false)
	return out
}

func fetchJSON(ctx context.Context, src Source, name string, v any) error {
	rc, err := src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := json.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}
