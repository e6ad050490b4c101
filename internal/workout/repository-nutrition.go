package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
)

type sqliteNutritionRepository struct {
	baseRepository
}

func newSQLiteNutritionRepository(db *sqlite.Database) *sqliteNutritionRepository {
	return &sqliteNutritionRepository{
		baseRepository: newBaseRepository(db),
	}
}

// Get returns ErrNotFound when no preferences have been saved.
func (r *sqliteNutritionRepository) Get(ctx context.Context) (NutritionPreferences, error) {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return NutritionPreferences{}, err
	}

	var (
		prefs     NutritionPreferences
		goal      string
		updatedAt string
	)
	err = r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT goal, calories, preferences, allergies, updated_at
		FROM nutrition_preferences
		WHERE profile_id = ?`, profileID).
		Scan(&goal, &prefs.Calories, &prefs.Preferences, &prefs.Allergies, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return NutritionPreferences{}, ErrNotFound
	}
	if err != nil {
		return NutritionPreferences{}, fmt.Errorf("query nutrition preferences: %w", err)
	}

	prefs.Goal = routine.Goal(goal)
	if prefs.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return NutritionPreferences{}, err
	}
	return prefs, nil
}

func (r *sqliteNutritionRepository) Set(ctx context.Context, prefs NutritionPreferences) error {
	profileID, err := r.profileID(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO nutrition_preferences (profile_id, goal, calories, preferences, allergies, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (profile_id) DO UPDATE SET
			goal = excluded.goal,
			calories = excluded.calories,
			preferences = excluded.preferences,
			allergies = excluded.allergies,
			updated_at = excluded.updated_at`,
		profileID, string(prefs.Goal), prefs.Calories, prefs.Preferences, prefs.Allergies,
		formatTimestamp(prefs.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save nutrition preferences: %w", err)
	}
	return nil
}
