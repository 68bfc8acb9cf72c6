package dashboard

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/metrics"
	"github.com/sudorandom/vote-grid/pkg/scene"
)

// Session serializes actions against one State. The viewer drives it from the ebiten
// update loop; the server drives one per websocket connection.
type Session struct {
	ID string

	mu      sync.Mutex
	r       *Reducer
	state   State
	log     *zap.Logger
	metrics *metrics.Collector

	// OnSelect is called after a click changes the selection.
	OnSelect func(scene.Selection)
}

type SessionOption func(*Session)

func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.log = l }
}

func WithMetrics(c *metrics.Collector) SessionOption {
	return func(s *Session) { s.metrics = c }
}

func WithID(id string) SessionOption {
	return func(s *Session) { s.ID = id }
}

func NewSession(r *Reducer, mode aggregate.Mode, opts ...SessionOption) *Session {
	s := &Session{r: r, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	start := time.Now()
	s.state = r.Init(mode)
	s.observe(start)
	s.log.Info("session started",
		zap.String("session", s.ID),
		zap.String("event", s.state.Filter.Event),
		zap.Stringer("mode", mode),
		zap.Int("events", len(r.Events())))
	return s
}

// Dispatch applies a and returns the new state.
func (s *Session) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	start := time.Now()
	next := s.r.Reduce(prev, a)
	s.state = next
	if next.Revision != prev.Revision {
		s.observe(start)
		s.log.Debug("recomputed",
			zap.String("session", s.ID),
			zap.String("event", next.Filter.Event),
			zap.Stringer("option", next.Filter.Option),
			zap.Int("provinces", len(next.Result.Provinces)),
			zap.Int("dropped", next.Result.Dropped))
	}
	onSelect := s.OnSelect
	s.mu.Unlock()

	if onSelect != nil && next.Scene.Selected != prev.Scene.Selected {
		onSelect(next.Selection())
	}
	return next
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Reducer() *Reducer { return s.r }

func (s *Session) observe(start time.Time) {
	res := s.state.Result
	s.metrics.ObserveRecompute(s.state.Mode.String(), time.Since(start), len(res.Provinces), res.Dropped)
}
