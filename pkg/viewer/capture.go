package viewer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func captureName(suffix string, timestamp time.Time) string {
	if suffix == "" {
		suffix = "all"
	}
	return fmt.Sprintf("votegrid-%s-%s.png", timestamp.Format("20060102-150405"), suffix)
}

func (e *Engine) captureFrame(img *ebiten.Image, suffix string, timestamp time.Time) {
	if e.CaptureDir == "" {
		e.notify("capture disabled")
		return
	}

	if err := os.MkdirAll(e.CaptureDir, 0o755); err != nil {
		e.log.Error("Error creating capture directory", zap.Error(err))
		return
	}

	path := filepath.Join(e.CaptureDir, captureName(suffix, timestamp))

	// Copy out of GPU memory so the encode can run off the game loop.
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	img.ReadPixels(rgba.Pix)

	go func() {
		f, err := os.Create(path)
		if err != nil {
			e.log.Error("Error creating capture file", zap.Error(err))
			return
		}
		defer func() {
			if err := f.Close(); err != nil {
				e.log.Error("Error closing capture file", zap.Error(err))
			}
		}()

		if err := png.Encode(f, rgba); err != nil {
			e.log.Error("Error encoding capture", zap.Error(err))
			return
		}
		e.log.Info("Captured frame", zap.String("path", path))
	}()
	e.notify("saved " + filepath.Base(path))
}
