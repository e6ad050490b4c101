package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fitroutine/internal/contexthelpers"
	"github.com/myrjola/fitroutine/internal/sqlite"
)

// ErrNotFound is returned when a requested entity is not found.
var ErrNotFound = errors.New("not found")

// errNoProfile is returned when the context carries no profile ID.
var errNoProfile = errors.New("no profile in context")

const timestampFormat = "2006-01-02T15:04:05.000Z"

// repository contains the repositories for the workout domain aggregates.
type repository struct {
	profiles     profileRepository
	feedback     feedbackRepository
	nutrition    nutritionRepository
	routines     routineRepository
	stats        statsRepository
	featureFlags featureFlagRepository
}

// profileRepository handles anonymous profiles.
type profileRepository interface {
	Ensure(ctx context.Context, id string) error
}

// feedbackRepository handles workout feedback of the profile in the context.
type feedbackRepository interface {
	// List returns at most limit records, newest first.
	List(ctx context.Context, limit int) ([]FeedbackRecord, error)
}

// nutritionRepository handles the nutrition preferences of the profile in the context.
type nutritionRepository interface {
	Get(ctx context.Context) (NutritionPreferences, error)
	Set(ctx context.Context, prefs NutritionPreferences) error
}

// routineRepository handles the routine history of the profile in the context.
type routineRepository interface {
	// Add stores entry and prunes the history to the keep most recent routines.
	Add(ctx context.Context, entry HistoryEntry, keep int) (HistoryEntry, error)
	// List returns at most limit routines, newest first.
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
	Latest(ctx context.Context) (HistoryEntry, error)
}

// statsRepository handles the workout stats of the profile in the context.
type statsRepository interface {
	Get(ctx context.Context) (Stats, error)
	// Complete stores the feedback record, then reads the stats and stores them if updateFn returns true, all
	// within one transaction.
	Complete(ctx context.Context, record FeedbackRecord, updateFn func(*Stats) (bool, error)) error
}

// featureFlagRepository handles feature flags.
type featureFlagRepository interface {
	Get(ctx context.Context, name string) (FeatureFlag, error)
	Set(ctx context.Context, flag FeatureFlag) error
	List(ctx context.Context) ([]FeatureFlag, error)
}

// repositoryFactory creates repository instances.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// newRepositoryFactory creates a new repository factory.
func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) *repositoryFactory {
	return &repositoryFactory{
		db:     db,
		logger: logger,
	}
}

// newRepository creates a new repository with all aggregates.
func (f *repositoryFactory) newRepository() *repository {
	return &repository{
		profiles:     newSQLiteProfileRepository(f.db),
		feedback:     newSQLiteFeedbackRepository(f.db),
		nutrition:    newSQLiteNutritionRepository(f.db),
		routines:     newSQLiteRoutineRepository(f.db, f.logger),
		stats:        newSQLiteStatsRepository(f.db),
		featureFlags: newSQLiteFeatureFlagRepository(f.db),
	}
}

// baseRepository provides common functionality for all repositories.
type baseRepository struct {
	db *sqlite.Database
}

func newBaseRepository(db *sqlite.Database) baseRepository {
	return baseRepository{db: db}
}

// profileID returns the profile of the current request.
func (r baseRepository) profileID(ctx context.Context) (string, error) {
	id := contexthelpers.ProfileID(ctx)
	if id == "" {
		return "", errNoProfile
	}
	return id, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseNullTimestamp returns nil for NULL columns.
func parseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil //nolint:nilnil // nil time is expected when the column is NULL.
	}
	t, err := parseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
