// Package server exposes the dashboard over HTTP: JSON endpoints, rendered maps,
// a GraphQL proxy and one websocket session per browser tab.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/loader"
	"github.com/sudorandom/vote-grid/pkg/metrics"
)

type Options struct {
	Reducer *dashboard.Reducer
	Mode    aggregate.Mode
	Log     *zap.Logger
	Metrics *metrics.Collector
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	// GraphQL is the upstream for /api/graphql. Nil disables the route.
	GraphQL  *loader.GraphQLClient
	FontPath string
}

type Server struct {
	r        *dashboard.Reducer
	mode     aggregate.Mode
	log      *zap.Logger
	metrics  *metrics.Collector
	gql      *loader.GraphQLClient
	fontPath string
	engine   *gin.Engine
}

func New(opts Options) *Server {
	s := &Server{
		r:        opts.Reducer,
		mode:     opts.Mode,
		log:      opts.Log,
		metrics:  opts.Metrics,
		gql:      opts.GraphQL,
		fontPath: opts.FontPath,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery(), s.observe, cors)

	e.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")
	api.GET("/events", s.events)
	api.GET("/provinces", s.provinceList)
	api.GET("/provinces/:name/roster", s.roster)
	api.GET("/summary", s.summary)
	if s.gql != nil {
		api.POST("/graphql", s.graphql)
	}

	e.GET("/map.svg", s.mapSVG)
	e.GET("/map.png", s.mapPNG)
	e.GET("/map.geojson", s.mapGeoJSON)
	e.GET("/ws", s.serveWS)

	s.engine = e
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down within grace.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("Listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down", zap.Duration("grace", grace))
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	if s.metrics != nil {
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
	s.log.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("took", time.Since(start)))
}

func cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
