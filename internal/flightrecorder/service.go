// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when a request is too
// slow to answer in time.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/myrjola/fitroutine/internal/errors"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 << 20
	// defaultCooldown is the minimum time between two captures.
	defaultCooldown = 30 * time.Minute
)

// Config configures the flight recorder. Zero durations and sizes use the defaults.
type Config struct {
	Logger *slog.Logger
	// TracesDirectory receives the trace files. It is created when missing.
	TracesDirectory string
	MinAge          time.Duration
	MaxBytes        uint64
	Cooldown        time.Duration
}

// Recorder writes the recent execution trace to TracesDirectory on request.
type Recorder struct {
	logger    *slog.Logger
	recorder  *trace.FlightRecorder
	directory string
	cooldown  time.Duration
	// lastCapture is the Unix nanosecond time of the last capture.
	lastCapture atomic.Int64
}

// New creates a Recorder. Call Start to begin recording.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}
	if err := os.MkdirAll(cfg.TracesDirectory, 0o750); err != nil { //nolint:mnd // rwxr-x---
		return nil, errors.Wrap(err, "create traces directory", slog.String("dir", cfg.TracesDirectory))
	}

	fr := trace.NewFlightRecorder(trace.FlightRecorderConfig{
		MinAge:   cmpOr(cfg.MinAge, defaultMinAge),
		MaxBytes: cmpOr(cfg.MaxBytes, defaultMaxBytes),
	})
	return &Recorder{
		logger:      cfg.Logger,
		recorder:    fr,
		directory:   cfg.TracesDirectory,
		cooldown:    cmpOr(cfg.Cooldown, defaultCooldown),
		lastCapture: atomic.Int64{},
	}, nil
}

func cmpOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.recorder.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("dir", r.directory), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.recorder.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded trace to a file named after reason. Captures within the cooldown of the previous
// one are skipped. It reports whether a file was written.
func (r *Recorder) Capture(ctx context.Context, reason string) bool {
	now := time.Now()
	last := r.lastCapture.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < r.cooldown {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture during cooldown",
			slog.Time("last_capture", time.Unix(0, last)))
		return false
	}
	if !r.lastCapture.CompareAndSwap(last, now.UnixNano()) {
		return false
	}

	path := filepath.Join(r.directory, fmt.Sprintf("%s-%s.trace", reason, now.UTC().Format("20060102-150405")))
	if err := r.writeTo(path); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to capture trace", errors.SlogError(err))
		return false
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace", slog.String("file", path))
	return true
}

func (r *Recorder) writeTo(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close trace file"))
		}
	}()
	if _, err = r.recorder.WriteTo(f); err != nil {
		return errors.Wrap(err, "write trace", slog.String("file", path))
	}
	return nil
}
