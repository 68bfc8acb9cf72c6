package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type progressWriter struct {
	io.Writer
	total uint64
	last  uint64
	name  string
	log   *zap.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 5*1024*1024 { // Log every 5MB
		pw.log.Info("Downloading", zap.String("collection", pw.name), zap.Uint64("mb", pw.total/1024/1024))
		pw.last = pw.total
	}
	return n, err
}

// Mirror copies every collection from src into dir so it can be served later by a
// DirSource. Each file is written to a temp file and renamed into place, so a
// reader never sees a partial collection. A missing metadata file is skipped.
func Mirror(ctx context.Context, src Source, dir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, name := range Collections {
		err := mirrorOne(ctx, src, dir, name, log)
		if name == MetadataFile && errors.Is(err, ErrNotFound) {
			log.Info("Metadata not found, skipping")
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func mirrorOne(ctx context.Context, src Source, dir, name string, log *zap.Logger) error {
	rc, err := src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Warn("Error closing collection", zap.String("collection", name), zap.Error(err))
		}
	}()

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Warn("Error removing temp file", zap.String("path", tmpName), zap.Error(err))
		}
	}()

	pw := &progressWriter{Writer: tmp, name: name, log: log}
	if _, err := io.Copy(pw, rc); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	log.Info("Mirrored collection", zap.String("collection", name), zap.Uint64("bytes", pw.total), zap.String("path", path))
	return nil
}
