package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitroutine/internal/errors"
)

// optimize runs the initial PRAGMA optimize. 0x10002 analyzes all tables once, which is recommended for
// long-lived connections. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) optimize(ctx context.Context) error {
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		return fmt.Errorf("initial optimize: %w", err)
	}
	return nil
}

// startDatabaseOptimizer runs PRAGMA optimize every interval until ctx is done.
func (db *Database) startDatabaseOptimizer(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		start := time.Now()
		if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
				errors.SlogError(errors.Wrap(err, "optimize")))
			continue
		}
		db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
	}
}
