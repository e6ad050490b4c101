// Package routine generates personalized multi-day exercise routines from a static exercise catalog.
package routine

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the user's training experience.
type Level string

// Experience levels.
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Levels lists every level in catalog order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced} //nolint:gochecknoglobals // closed set.

// Goal is what the user wants to achieve with the routine.
type Goal string

// Fitness goals.
const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainMuscle Goal = "gain_muscle"
	GoalStayFit    Goal = "stay_fit"
)

// Goals lists every goal in catalog order.
var Goals = []Goal{GoalLoseWeight, GoalGainMuscle, GoalStayFit} //nolint:gochecknoglobals // closed set.

// Difficulty is how the previous workout felt.
type Difficulty string

// Difficulty ratings.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard} //nolint:gochecknoglobals // closed set.

// Days per week a routine can span.
const (
	MinDays = 1
	MaxDays = 7
)

// ErrInvalidSelection matches every *InvalidSelectionError with errors.Is.
var ErrInvalidSelection = errors.New("invalid selection")

// InvalidSelectionError reports a request field that does not resolve to a catalog entry.
type InvalidSelectionError struct {
	Field string
	Value string
}

func (e *InvalidSelectionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: missing value", e.Field)
	}
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// ParseLevel parses a level identifier.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.TrimSpace(s))
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, nil
	default:
		return "", &InvalidSelectionError{Field: "level", Value: s}
	}
}

// ParseGoal parses a goal identifier.
func ParseGoal(s string) (Goal, error) {
	g := Goal(strings.TrimSpace(s))
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalStayFit:
		return g, nil
	default:
		return "", &InvalidSelectionError{Field: "goal", Value: s}
	}
}

// ParseDifficulty parses a difficulty rating. The Spanish labels fácil and difícil are accepted as well.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "fácil", "facil":
		return DifficultyEasy, nil
	case "normal":
		return DifficultyNormal, nil
	case "hard", "difícil", "dificil":
		return DifficultyHard, nil
	default:
		return "", &InvalidSelectionError{Field: "difficulty", Value: s}
	}
}

// Feedback about the previous workout.
type Feedback struct {
	Difficulty Difficulty
}

// Nutrition is the user's dietary goal and daily calorie intake.
type Nutrition struct {
	Goal     Goal
	Calories int
}

// Request holds everything needed to generate a routine.
type Request struct {
	Age   int
	Level Level
	Goal  Goal
	Days  int
	// Feedback is optional. Nil means no adjustment.
	Feedback *Feedback
	// Nutrition is optional. Nil means no adjustment.
	Nutrition *Nutrition
}

// Day is the ordered list of exercises for one training day.
type Day []Descriptor

// Plan is one Day per requested training day.
type Plan []Day
