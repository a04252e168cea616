// Package logging writes structured logs to a file beside the terminal UI
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultMaxSize is the size above which an existing log is rotated on open
const DefaultMaxSize = 10 * 1024 * 1024

// Open creates dir if needed and opens name for appending
// An existing file larger than maxSize is renamed with a timestamp suffix first
func Open(dir, name string, maxSize int64) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "logging: create %s", dir)
	}

	path := filepath.Join(dir, name)
	if info, err := os.Stat(path); err == nil && maxSize > 0 && info.Size() > maxSize {
		if err := os.Rename(path, RotatedName(path, time.Now())); err != nil {
			return nil, errors.Wrap(err, "logging: rotate")
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "logging: open %s", path)
	}
	return f, nil
}

// RotatedName returns path with a timestamp inserted before the extension
func RotatedName(path string, at time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + "-" + at.Format("20060102-150405") + ext
}

// New builds a timestamped logger at level; unknown levels fall back to info
// A nil writer yields a disabled logger
func New(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
