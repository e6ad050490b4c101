package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/fitroutine/internal/sqlite"
)

type sqliteStatsRepository struct {
	baseRepository
}

func newSQLiteStatsRepository(db *sqlite.Database) *sqliteStatsRepository {
	return &sqliteStatsRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Get returns zero stats for a profile that has not completed any workouts.
func (r *sqliteStatsRepository) Get(ctx context.Context) (Stats, error) {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats, err := queryStats(ctx, r.db.ReadOnly, profileID)
	if errors.Is(err, ErrNotFound) {
		return Stats{}, nil
	}
	return stats, err
}

func (r *sqliteStatsRepository) Complete(
	ctx context.Context,
	record FeedbackRecord,
	updateFn func(*Stats) (bool, error),
) error {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertFeedback(ctx, tx, profileID, record); err != nil {
			return err
		}

		stats, err := queryStats(ctx, tx, profileID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		shouldUpdate, err := updateFn(&stats)
		if err != nil {
			return err
		}
		if !shouldUpdate {
			return nil
		}

		var lastCompletedAt sql.NullString
		if stats.LastCompletedAt != nil {
			lastCompletedAt = sql.NullString{String: formatTimestamp(*stats.LastCompletedAt), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO profile_stats (profile_id, total_workouts, streak, points, last_completed_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (profile_id) DO UPDATE SET
				total_workouts = excluded.total_workouts,
				streak = excluded.streak,
				points = excluded.points,
				last_completed_at = excluded.last_completed_at`,
			profileID, stats.TotalWorkouts, stats.Streak, stats.Points, lastCompletedAt)
		if err != nil {
			return fmt.Errorf("save stats: %w", err)
		}
		return nil
	})
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryStats(ctx context.Context, db queryRower, profileID string) (Stats, error) {
	var (
		stats           Stats
		lastCompletedAt sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT total_workouts, streak, points, last_completed_at
		FROM profile_stats
		WHERE profile_id = ?`, profileID).
		Scan(&stats.TotalWorkouts, &stats.Streak, &stats.Points, &lastCompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Stats{}, ErrNotFound
	}
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if stats.LastCompletedAt, err = parseNullTimestamp(lastCompletedAt); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
