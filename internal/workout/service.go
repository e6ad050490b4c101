package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
)

// feedbackListLimit bounds how much feedback LoadProgress returns.
const feedbackListLimit = 20

// Service handles routine generation and progress tracking for the profile stored in the context.
type Service struct {
	repo         *repository
	logger       *slog.Logger
	generator    *routine.Generator
	historyLimit int
}

// NewService creates a new workout service. A historyLimit below one falls back to DefaultHistoryLimit.
func NewService(db *sqlite.Database, logger *slog.Logger, generator *routine.Generator, historyLimit int) *Service {
	if historyLimit < 1 {
		historyLimit = DefaultHistoryLimit
	}
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:         factory.newRepository(),
		logger:       logger,
		generator:    generator,
		historyLimit: historyLimit,
	}
}

// EnsureProfile creates the anonymous profile id unless it already exists.
func (s *Service) EnsureProfile(ctx context.Context, id string) error {
	if err := s.repo.profiles.Ensure(ctx, id); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	return nil
}

// LoadProgress returns everything stored for the profile.
func (s *Service) LoadProgress(ctx context.Context) (Progress, error) {
	var (
		progress Progress
		err      error
	)

	if progress.Feedback, err = s.repo.feedback.List(ctx, feedbackListLimit); err != nil {
		return Progress{}, fmt.Errorf("list feedback: %w", err)
	}

	nutrition, err := s.repo.nutrition.Get(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return Progress{}, fmt.Errorf("get nutrition preferences: %w", err)
	default:
		progress.Nutrition = &nutrition
	}

	latest, err := s.repo.routines.Latest(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return Progress{}, fmt.Errorf("get latest routine: %w", err)
	default:
		progress.LastRoutine = &latest
	}

	if progress.Stats, err = s.repo.stats.Get(ctx); err != nil {
		return Progress{}, fmt.Errorf("get stats: %w", err)
	}
	return progress, nil
}

// SaveNutrition validates and stores the nutrition preferences. Validation failures are
// *routine.InvalidSelectionError.
func (s *Service) SaveNutrition(ctx context.Context, prefs NutritionPreferences) error {
	var err error
	if prefs.Goal, err = routine.ParseGoal(string(prefs.Goal)); err != nil {
		return err
	}
	if prefs.Calories < MinCalories || prefs.Calories > MaxCalories {
		return &routine.InvalidSelectionError{Field: "calories", Value: fmt.Sprint(prefs.Calories)}
	}
	prefs.Preferences = strings.TrimSpace(prefs.Preferences)
	prefs.Allergies = strings.TrimSpace(prefs.Allergies)
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now()
	}

	if err = s.repo.nutrition.Set(ctx, prefs); err != nil {
		return fmt.Errorf("set nutrition preferences: %w", err)
	}
	return nil
}

// GenerateRoutine generates a routine for sel personalised with the latest feedback and saved nutrition
// preferences, and stores it as the newest history entry.
//
// Invalid selections return *routine.InvalidSelectionError.
func (s *Service) GenerateRoutine(ctx context.Context, sel Selection) (HistoryEntry, error) {
	req := routine.Request{
		Age:       sel.Age,
		Level:     sel.Level,
		Goal:      sel.Goal,
		Days:      sel.Days,
		Feedback:  nil,
		Nutrition: nil,
	}

	feedback, err := s.repo.feedback.List(ctx, 1)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("list feedback: %w", err)
	}
	if len(feedback) > 0 {
		req.Feedback = &routine.Feedback{Difficulty: feedback[0].Difficulty}
	}

	nutrition, err := s.repo.nutrition.Get(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return HistoryEntry{}, fmt.Errorf("get nutrition preferences: %w", err)
	}
	if err == nil {
		req.Nutrition = &routine.Nutrition{Goal: nutrition.Goal, Calories: nutrition.Calories}
	}

	plan, err := s.generator.Generate(req)
	if err != nil {
		return HistoryEntry{}, err
	}

	entry, err := s.repo.routines.Add(ctx, HistoryEntry{
		ID:          0,
		GeneratedAt: time.Now(),
		Selection:   sel,
		Plan:        plan,
	}, s.historyLimit)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("add routine: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "generated routine",
		slog.String("level", string(sel.Level)),
		slog.String("goal", string(sel.Goal)),
		slog.Int("days", sel.Days),
		slog.Bool("feedback", req.Feedback != nil),
		slog.Bool("nutrition", req.Nutrition != nil))
	return entry, nil
}

// CompleteWorkout records the feedback of a finished workout and updates the stats in one transaction. The
// feedback is used for the next generated routine. The streak grows when the previous workout was completed on
// the same or the previous day of now and restarts otherwise.
func (s *Service) CompleteWorkout(ctx context.Context, difficulty routine.Difficulty, now time.Time) (Stats, error) {
	var err error
	if difficulty, err = routine.ParseDifficulty(string(difficulty)); err != nil {
		return Stats{}, err
	}

	var updated Stats
	record := FeedbackRecord{Difficulty: difficulty, RecordedAt: now}
	err = s.repo.stats.Complete(ctx, record, func(stats *Stats) (bool, error) {
		if stats.LastCompletedAt != nil && maintainsStreak(*stats.LastCompletedAt, now) {
			stats.Streak++
		} else {
			stats.Streak = 1
		}
		stats.TotalWorkouts++
		stats.Points += pointsPerWorkout
		stats.LastCompletedAt = &now
		updated = *stats
		return true, nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("complete workout: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "completed workout",
		slog.String("difficulty", string(difficulty)),
		slog.Int("streak", updated.Streak),
		slog.Int("total_workouts", updated.TotalWorkouts))
	return updated, nil
}

// maintainsStreak reports whether now is on the same calendar day as last or the day after.
func maintainsStreak(last, now time.Time) bool {
	last = last.In(now.Location())
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !lastDay.Before(today.AddDate(0, 0, -1)) && !lastDay.After(today)
}

// History returns the stored routines, newest first.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := s.repo.routines.List(ctx, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	return entries, nil
}

// LatestRoutine returns the most recently generated routine or ErrNotFound.
func (s *Service) LatestRoutine(ctx context.Context) (HistoryEntry, error) {
	entry, err := s.repo.routines.Latest(ctx)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("latest routine: %w", err)
	}
	return entry, nil
}

// Describe returns the markdown description of the named exercise.
func (s *Service) Describe(name string) (string, bool) {
	return s.generator.Catalog().Description(name)
}

// IsMaintenanceModeEnabled reports whether the maintenance mode feature flag is on.
func (s *Service) IsMaintenanceModeEnabled(ctx context.Context) (bool, error) {
	flag, err := s.repo.featureFlags.Get(ctx, MaintenanceModeFlag)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get maintenance mode flag: %w", err)
	}
	return flag.Enabled, nil
}

// SetFeatureFlag creates or updates a feature flag.
func (s *Service) SetFeatureFlag(ctx context.Context, flag FeatureFlag) error {
	if err := s.repo.featureFlags.Set(ctx, flag); err != nil {
		return fmt.Errorf("set feature flag: %w", err)
	}
	return nil
}

// ListFeatureFlags returns all feature flags ordered by name.
func (s *Service) ListFeatureFlags(ctx context.Context) ([]FeatureFlag, error) {
	flags, err := s.repo.featureFlags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feature flags: %w", err)
	}
	return flags, nil
}
