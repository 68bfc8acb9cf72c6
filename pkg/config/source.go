package config

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/loader"
	"github.com/sudorandom/vote-grid/pkg/metrics"
	"github.com/sudorandom/vote-grid/pkg/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// GraphQLClient returns a client for the configured upstream.
func (c *Config) GraphQLClient() *loader.GraphQLClient {
	return &loader.GraphQLClient{
		Endpoint: c.Data.GraphQLURL,
		HTTP:     &http.Client{Timeout: c.Data.Timeout},
	}
}

// OpenSource builds the data source described by c, wrapped in the configured
// snapshot cache. The closer releases the cache.
func (c *Config) OpenSource(ctx context.Context, log *zap.Logger, m *metrics.Collector) (loader.Source, io.Closer, error) {
	var src loader.Source
	switch {
	case c.Data.URL != "":
		log.Info("Reading collections over HTTP", zap.String("url", c.Data.URL))
		src = &loader.HTTPSource{BaseURL: c.Data.URL, Client: &http.Client{Timeout: c.Data.Timeout}}
	case c.Data.Live:
		log.Info("Building collections from GraphQL", zap.String("endpoint", c.Data.GraphQLURL))
		src = &loader.LiveSource{
			Client:        c.GraphQLClient(),
			Log:           log,
			Year:          c.Data.Year,
			ExcludeTitles: c.Data.ExcludeTitles,
			BatchSize:     c.Data.BatchSize,
			Pause:         c.Data.Pause,
		}
	default:
		log.Info("Reading collections from disk", zap.String("dir", c.Data.Dir))
		src = loader.DirSource{Dir: c.Data.Dir}
	}

	var (
		st  store.Store
		err error
	)
	switch c.Cache.Backend {
	case "memory":
		st, err = store.OpenMemory()
	case "badger":
		st, err = store.OpenDisk(c.Cache.Path)
	case "redis":
		st, err = store.DialRedis(ctx, c.Cache.RedisAddr, c.Cache.RedisPassword, c.Cache.RedisDB, c.Cache.RedisPrefix)
	default:
		return src, nopCloser{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	log.Info("Snapshot cache enabled", zap.String("backend", c.Cache.Backend), zap.Duration("ttl", c.Cache.TTL))
	return &loader.CachedSource{Source: src, Store: st, TTL: c.Cache.TTL, Log: log, Metrics: m}, st, nil
}
