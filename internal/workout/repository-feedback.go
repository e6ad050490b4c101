package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
)

type sqliteFeedbackRepository struct {
	baseRepository
}

func newSQLiteFeedbackRepository(db *sqlite.Database) *sqliteFeedbackRepository {
	return &sqliteFeedbackRepository{
		baseRepository: newBaseRepository(db),
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertFeedback(ctx context.Context, db execer, profileID string, record FeedbackRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO feedback (profile_id, difficulty, recorded_at)
		VALUES (?, ?, ?)`,
		profileID, string(record.Difficulty), formatTimestamp(record.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *sqliteFeedbackRepository) List(ctx context.Context, limit int) (_ []FeedbackRecord, err error) {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT difficulty, recorded_at
		FROM feedback
		WHERE profile_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var records []FeedbackRecord
	for rows.Next() {
		var difficulty, recordedAt string
		if err = rows.Scan(&difficulty, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		record := FeedbackRecord{Difficulty: routine.Difficulty(difficulty)}
		if record.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return records, nil
}
