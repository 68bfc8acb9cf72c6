// Package viewer draws a dashboard session in an ebiten window: the tile map, the
// legend, the info panel with the selected province's roster and a hover tooltip.
package viewer

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/sudorandom/vote-grid/pkg/dashboard"
	"github.com/sudorandom/vote-grid/pkg/scene"
)

// PanelWidth is the width of the info panel docked on the right.
const PanelWidth = 360.0

type Engine struct {
	Width, Height int
	// CaptureDir receives PNG screenshots taken with the P key. Empty disables capture.
	CaptureDir string
	Title      string

	sess *dashboard.Session
	log  *zap.Logger

	fontSource *text.GoTextFaceSource
	monoSource *text.GoTextFaceSource

	gesture     gesture
	captureNext bool

	flash      string
	flashUntil time.Time
	shownTitle string
}

// NewEngine builds a viewer for sess. fontPath should point at a TTF with Thai
// glyphs; without it labels fall back to Go Regular.
func NewEngine(sess *dashboard.Session, width, height int, fontPath string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	regular := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		regular = b
	}
	s, err := text.NewGoTextFaceSource(bytes.NewReader(regular))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))

	return &Engine{
		Width:      width,
		Height:     height,
		Title:      "Vote Grid",
		sess:       sess,
		log:        log,
		fontSource: s,
		monoSource: m,
	}, nil
}

// mapWidth is the part of the window left of the info panel.
func (e *Engine) mapWidth() float64 {
	w := float64(e.Width) - PanelWidth
	if w < 0 {
		return 0
	}
	return w
}

func (e *Engine) inMap(x, y int) bool {
	return x >= 0 && y >= 0 && float64(x) < e.mapWidth() && y < e.Height
}

func (e *Engine) dispatch(actions ...dashboard.Action) {
	for _, a := range actions {
		e.sess.Dispatch(a)
	}
}

func (e *Engine) Update() error {
	mx, my := ebiten.CursorPosition()
	p := scene.Point{X: float64(mx), Y: float64(my)}
	inMap := e.inMap(mx, my)
	center := scene.Point{X: e.mapWidth() / 2, Y: float64(e.Height) / 2}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if k == ebiten.KeyP {
			e.captureNext = true
			continue
		}
		if a, ok := keyAction(k, e.sess.State(), center); ok {
			e.dispatch(a)
		}
	}

	if _, wy := ebiten.Wheel(); inMap {
		if a, ok := wheelAction(wy, p); ok {
			e.dispatch(a)
		}
	}

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	e.dispatch(e.gesture.update(p, pressed, inMap)...)

	if t := windowTitle(e.Title, e.sess.State()); t != e.shownTitle {
		ebiten.SetWindowTitle(t)
		e.shownTitle = t
	}
	return nil
}

func (e *Engine) Draw(screen *ebiten.Image) {
	st := e.sess.State()
	policy := e.sess.Reducer().Policy
	screen.Fill(policy.Registry.Base.RGBA())

	e.drawTiles(screen, st)
	e.drawHeader(screen, st)
	e.drawLegend(screen, st)
	e.drawInfoPanel(screen, st)
	e.drawTooltip(screen, st)
	e.drawFlash(screen)

	if e.captureNext {
		e.captureNext = false
		e.captureFrame(screen, st.Filter.Option.Key(), time.Now())
	}
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }

// notify shows a short message in the bottom-left corner.
func (e *Engine) notify(msg string) {
	e.flash = msg
	e.flashUntil = time.Now().Add(3 * time.Second)
}
