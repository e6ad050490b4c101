package workout

import (
	"time"

	"github.com/myrjola/fitroutine/internal/routine"
)

const (
	// MinAge and MaxAge bound the age accepted by the routine form.
	MinAge = 10
	MaxAge = 80

	// DefaultCalories is the daily intake suggested before the user saves their own.
	DefaultCalories = 2000
	MinCalories     = 1000
	MaxCalories     = 5000

	// DefaultHistoryLimit is how many generated routines are kept per profile.
	DefaultHistoryLimit = 10

	// pointsPerWorkout is awarded for every completed workout.
	pointsPerWorkout = 10
)

// Selection is what the user entered in the routine form.
type Selection struct {
	Age   int
	Level routine.Level
	Goal  routine.Goal
	Days  int
}

// FeedbackRecord is how a completed workout felt.
type FeedbackRecord struct {
	Difficulty routine.Difficulty
	RecordedAt time.Time
}

// NutritionPreferences are the dietary settings used to personalise routines.
type NutritionPreferences struct {
	Goal        routine.Goal
	Calories    int
	Preferences string
	Allergies   string
	UpdatedAt   time.Time
}

// HistoryEntry is a generated routine together with the selection it was generated from.
type HistoryEntry struct {
	ID          int
	GeneratedAt time.Time
	Selection   Selection
	Plan        routine.Plan
}

// Stats tracks workout completion.
type Stats struct {
	TotalWorkouts int
	Streak        int
	Points        int
	// LastCompletedAt is nil until the first workout is completed.
	LastCompletedAt *time.Time
}

// Progress is everything stored for a profile.
type Progress struct {
	// Feedback is ordered newest first.
	Feedback []FeedbackRecord
	// Nutrition is nil when no preferences have been saved.
	Nutrition *NutritionPreferences
	// LastRoutine is nil when no routine has been generated.
	LastRoutine *HistoryEntry
	Stats       Stats
}

// LatestFeedback returns the most recent feedback or nil.
func (p Progress) LatestFeedback() *FeedbackRecord {
	if len(p.Feedback) == 0 {
		return nil
	}
	return &p.Feedback[0]
}

// FeatureFlag toggles application behaviour at runtime.
type FeatureFlag struct {
	Name    string
	Enabled bool
}

// MaintenanceModeFlag puts the web application into maintenance mode when enabled.
const MaintenanceModeFlag = "maintenance_mode"
