package workout

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
)

type sqliteRoutineRepository struct {
	baseRepository
	logger *slog.Logger
}

func newSQLiteRoutineRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRoutineRepository {
	return &sqliteRoutineRepository{
		baseRepository: newBaseRepository(db),
		logger:         logger,
	}
}

func (r *sqliteRoutineRepository) Add(ctx context.Context, entry HistoryEntry, keep int) (HistoryEntry, error) {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return HistoryEntry{}, err
	}

	// Descriptors marshal to their text form, e.g. [["Squats 3x12","Plank 3x20s"]].
	planJSON, err := json.Marshal(entry.Plan)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("marshal plan: %w", err)
	}

	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if err = tx.QueryRowContext(ctx, `
			INSERT INTO routines (profile_id, generated_at, age, level, goal, days, plan_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			profileID, formatTimestamp(entry.GeneratedAt), entry.Selection.Age, string(entry.Selection.Level),
			string(entry.Selection.Goal), entry.Selection.Days, string(planJSON)).Scan(&entry.ID); err != nil {
			return fmt.Errorf("insert routine: %w", err)
		}

		var result sql.Result
		result, err = tx.ExecContext(ctx, `
			DELETE FROM routines
			WHERE profile_id = ?
			  AND id NOT IN (SELECT id
			                 FROM routines
			                 WHERE profile_id = ?
			                 ORDER BY generated_at DESC, id DESC
			                 LIMIT ?)`, profileID, profileID, keep)
		if err != nil {
			return fmt.Errorf("prune routines: %w", err)
		}
		if pruned, _ := result.RowsAffected(); pruned > 0 {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "pruned routine history", slog.Int64("pruned", pruned))
		}
		return nil
	})
	if err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

func (r *sqliteRoutineRepository) List(ctx context.Context, limit int) (_ []HistoryEntry, err error) {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, generated_at, age, level, goal, days, plan_json
		FROM routines
		WHERE profile_id = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query routines: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		if entry, err = scanHistoryEntry(rows); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routines: %w", err)
	}
	return entries, nil
}

// Latest returns ErrNotFound when no routine has been generated.
func (r *sqliteRoutineRepository) Latest(ctx context.Context) (HistoryEntry, error) {
	entries, err := r.List(ctx, 1)
	if err != nil {
		return HistoryEntry{}, err
	}
	if len(entries) == 0 {
		return HistoryEntry{}, ErrNotFound
	}
	return entries[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHistoryEntry(row scanner) (HistoryEntry, error) {
	var (
		entry       HistoryEntry
		generatedAt string
		level, goal string
		planJSON    string
		err         error
	)
	if err = row.Scan(&entry.ID, &generatedAt, &entry.Selection.Age, &level, &goal, &entry.Selection.Days,
		&planJSON); err != nil {
		return HistoryEntry{}, fmt.Errorf("scan routine: %w", err)
	}
	entry.Selection.Level = routine.Level(level)
	entry.Selection.Goal = routine.Goal(goal)
	if entry.GeneratedAt, err = parseTimestamp(generatedAt); err != nil {
		return HistoryEntry{}, err
	}
	if err = json.Unmarshal([]byte(planJSON), &entry.Plan); err != nil {
		return HistoryEntry{}, fmt.Errorf("unmarshal plan of routine %d: %w", entry.ID, err)
	}
	return entry, nil
}
