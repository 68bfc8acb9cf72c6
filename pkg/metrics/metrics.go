// Package metrics holds the prometheus collectors shared by the viewer and the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	Recomputes        *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	DroppedRecords    prometheus.Gauge
	ProvincesWithData prometheus.Gauge

	LoadFailures  *prometheus.CounterVec
	LoadedRecords *prometheus.GaugeVec
	CacheResults  *prometheus.CounterVec

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	ActiveSessions   prometheus.Gauge
	UpstreamRequests *prometheus.CounterVec
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		Recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votegrid_recomputes_total",
			Help: "Aggregation passes by mode",
		}, []string{"mode"}),
		RecomputeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "votegrid_recompute_duration_seconds",
			Help:    "Time spent aggregating and rebuilding tiles",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		DroppedRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "votegrid_dropped_records",
			Help: "Records skipped in the last pass because their province did not resolve",
		}),
		ProvincesWithData: f.NewGauge(prometheus.GaugeOpts{
			Name: "votegrid_provinces_with_data",
			Help: "Provinces with a stat in the last pass",
		}),
		LoadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votegrid_load_failures_total",
			Help: "Collections that failed to load and were replaced by an empty one",
		}, []string{"collection"}),
		LoadedRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "votegrid_loaded_records",
			Help: "Records per collection in the current snapshot",
		}, []string{"collection"}),
		CacheResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votegrid_snapshot_cache_total",
			Help: "Snapshot cache lookups by result",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votegrid_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "votegrid_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "votegrid_ws_sessions",
			Help: "Open websocket sessions",
		}),
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "votegrid_graphql_requests_total",
			Help: "Proxied GraphQL requests by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRecompute records one aggregation pass. Safe to call on a nil Collector.
func (c *Collector) ObserveRecompute(mode string, took time.Duration, provinces, dropped int) {
	if c == nil {
		return
	}
	c.Recomputes.WithLabelValues(mode).Inc()
	c.RecomputeDuration.Observe(took.Seconds())
	c.ProvincesWithData.Set(float64(provinces))
	c.DroppedRecords.Set(float64(dropped))
}

func (c *Collector) ObserveLoad(collection string, records int, failed bool) {
	if c == nil {
		return
	}
	if failed {
		c.LoadFailures.WithLabelValues(collection).Inc()
	}
	c.LoadedRecords.WithLabelValues(collection).Set(float64(records))
}

func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheResults.WithLabelValues("hit").Inc()
	} else {
		c.CacheResults.WithLabelValues("miss").Inc()
	}
}
