package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/provinces"
	"github.com/sudorandom/vote-grid/pkg/scene"
	"github.com/sudorandom/vote-grid/pkg/votes"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// actionMessage is one client request. Type picks the action; the other members
// are read only by the actions that use them.
type actionMessage struct {
	Type     string  `json:"type"`
	Title    string  `json:"title,omitempty"`
	Option   string  `json:"option,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Strategy string  `json:"strategy,omitempty"`
	Province string  `json:"province,omitempty"`
	Delta    int     `json:"delta,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Factor   float64 `json:"factor,omitempty"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// parseAction maps a client message to a dashboard action.
func parseAction(m actionMessage) (dashboard.Action, error) {
	pt := scene.Point{X: m.X, Y: m.Y}
	switch m.Type {
	case "select_event":
		return dashboard.SelectEvent{Title: m.Title}, nil
	case "select_option":
		if m.Option == "" || m.Option == "all" {
			return dashboard.SelectOption{Option: votes.OptionUnknown}, nil
		}
		opt, ok := votes.ParseKey(m.Option)
		if !ok || !opt.Valid() {
			return nil, fmt.Errorf("unknown option %q", m.Option)
		}
		return dashboard.SelectOption{Option: opt}, nil
	case "cycle_event":
		return dashboard.CycleEvent{Delta: m.Delta}, nil
	case "cycle_option":
		return dashboard.CycleOption{Delta: m.Delta}, nil
	case "set_mode":
		mode, err := aggregate.ParseMode(m.Mode)
		if err != nil {
			return nil, err
		}
		return dashboard.SetMode{Mode: mode}, nil
	case "set_strategy":
		st, err := colors.ParseStrategy(m.Strategy)
		if err != nil {
			return nil, err
		}
		return dashboard.SetStrategy{Strategy: st}, nil
	case "click_province":
		if m.Province == "" {
			return dashboard.ClickProvince{Province: provinces.None}, nil
		}
		id, ok := provinces.Resolve(m.Province)
		if !ok {
			return nil, fmt.Errorf("unknown province %q", m.Province)
		}
		return dashboard.ClickProvince{Province: id}, nil
	case "click":
		return dashboard.ClickAt{Point: pt}, nil
	case "pointer_move":
		return dashboard.PointerMove{Point: pt}, nil
	case "pointer_leave":
		return dashboard.PointerLeave{}, nil
	case "zoom":
		if m.Factor <= 0 {
			return nil, fmt.Errorf("invalid zoom factor %v", m.Factor)
		}
		return dashboard.ZoomAt{Factor: m.Factor, Point: pt}, nil
	case "pan":
		return dashboard.PanBy{DX: m.X, DY: m.Y}, nil
	case "reset_camera":
		return dashboard.ResetCamera{}, nil
	}
	return nil, fmt.Errorf("unknown action %q", m.Type)
}

// serveWS runs one dashboard session for the lifetime of the connection. The
// current state is sent on connect and after every action.
func (s *Server) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.Debug("Error closing websocket", zap.Error(err))
		}
	}()

	id := uuid.NewString()
	sess := dashboard.NewSession(s.r, s.mode,
		dashboard.WithID(id), dashboard.WithLogger(s.log), dashboard.WithMetrics(s.metrics))
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
		defer s.metrics.ActiveSessions.Dec()
	}
	log := s.log.With(zap.String("session", id))
	log.Info("Websocket connected", zap.String("remote", c.Request.RemoteAddr))

	out := make(chan any, 8)
	done := make(chan struct{})
	go s.writeLoop(conn, out, done, log)
	defer func() {
		close(out)
		<-done
	}()

	send := func(v any) bool {
		select {
		case out <- v:
			return true
		case <-done:
			return false
		}
	}
	if !send(newStateView(sess.State())) {
		return
	}

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg actionMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Websocket read failed", zap.Error(err))
			}
			log.Info("Websocket disconnected")
			return
		}
		a, err := parseAction(msg)
		if err != nil {
			if !send(errorMessage{Error: err.Error()}) {
				return
			}
			continue
		}
		if !send(newStateView(sess.Dispatch(a))) {
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, out <-chan any, done chan<- struct{}, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
	}()
	for {
		select {
		case v, ok := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			b, err := json.Marshal(v)
			if err != nil {
				log.Error("Failed to encode websocket message", zap.Error(err))
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug("Websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
