package workout

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/fitroutine/internal/contexthelpers"
	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

func Test_sqliteStatsRepository_Complete_rollsBackFeedback(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	repo := newRepositoryFactory(db, logger).newRepository()
	profileID := uuid.NewString()
	if err = repo.profiles.Ensure(ctx, profileID); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	ctx = contexthelpers.WithProfileID(ctx, profileID)

	record := FeedbackRecord{Difficulty: routine.DifficultyEasy, RecordedAt: time.Now()}
	errUpdate := errors.New("update failed")
	err = repo.stats.Complete(ctx, record, func(*Stats) (bool, error) {
		return false, errUpdate
	})
	if !errors.Is(err, errUpdate) {
		t.Fatalf("Complete() error = %v, want %v", err, errUpdate)
	}

	feedback, err := repo.feedback.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(feedback) != 0 {
		t.Errorf("want feedback rolled back, got %+v", feedback)
	}

	if err = repo.stats.Complete(ctx, record, func(stats *Stats) (bool, error) {
		stats.TotalWorkouts++
		return true, nil
	}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if feedback, err = repo.feedback.List(ctx, 10); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(feedback) != 1 {
		t.Errorf("want 1 feedback record, got %d", len(feedback))
	}
}
