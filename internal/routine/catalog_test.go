package routine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/myrjola/fitroutine/internal/routine"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := routine.DefaultCatalog()

	entries := catalog.Entries()
	if got, want := len(entries), len(routine.Levels)*len(routine.Goals); got != want {
		t.Fatalf("len(Entries()) = %d, want %d", got, want)
	}
	for _, entry := range entries {
		want := 5
		if entry.Goal == routine.GoalStayFit {
			want = 4
		}
		if len(entry.Exercises) != want {
			t.Errorf("%s/%s has %d exercises, want %d", entry.Level, entry.Goal, len(entry.Exercises), want)
		}
		for _, d := range entry.Exercises {
			if _, ok := catalog.Description(d.Name); !ok {
				t.Errorf("exercise %q has no description", d.Name)
			}
		}
	}

	list, err := catalog.Lookup(routine.LevelBeginner, routine.GoalLoseWeight)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	list[0].Minutes = 999
	again, _ := catalog.Lookup(routine.LevelBeginner, routine.GoalLoseWeight)
	if again[0].Minutes == 999 {
		t.Error("Lookup() returned the catalog's own slice")
	}

	if d, ok := catalog.Description("burpees"); !ok || !strings.Contains(d, "push-up") {
		t.Errorf("Description(burpees) = %q, %v", d, ok)
	}
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid partial catalog",
			yaml: `
routines:
  beginner:
    stay_fit:
      - Walk 10 min
      - Squats 2x10
exercises:
  Walk: Just walk.
`,
		},
		{
			name:    "unknown level",
			yaml:    "routines:\n  expert:\n    stay_fit: [Squats 2x10]\n",
			wantErr: `invalid level: "expert"`,
		},
		{
			name:    "unknown goal",
			yaml:    "routines:\n  beginner:\n    fly: [Squats 2x10]\n",
			wantErr: `invalid goal: "fly"`,
		},
		{
			name:    "empty list",
			yaml:    "routines:\n  beginner:\n    stay_fit: []\n",
			wantErr: "no exercises",
		},
		{
			name:    "bad descriptor",
			yaml:    "routines:\n  beginner:\n    stay_fit: [Squats 0x10]\n",
			wantErr: "parse sets",
		},
		{
			name:    "unknown field",
			yaml:    "routine: {}\n",
			wantErr: "decode catalog",
		},
		{
			name:    "no routines",
			yaml:    "exercises: {}\n",
			wantErr: "no routines",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := routine.LoadCatalog(strings.NewReader(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadCatalog() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadCatalog() error = %v", err)
			}
			if _, err = catalog.Lookup(routine.LevelBeginner, routine.GoalStayFit); err != nil {
				t.Errorf("Lookup() error = %v", err)
			}
			_, err = catalog.Lookup(routine.LevelAdvanced, routine.GoalStayFit)
			if !errors.Is(err, routine.ErrInvalidSelection) {
				t.Errorf("expected missing combination to be an invalid selection, got %v", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]routine.Difficulty{
		"easy":    routine.DifficultyEasy,
		"fácil":   routine.DifficultyEasy,
		"Normal":  routine.DifficultyNormal,
		"hard":    routine.DifficultyHard,
		"difícil": routine.DifficultyHard,
	} {
		got, err := routine.ParseDifficulty(in)
		if err != nil || got != want {
			t.Errorf("ParseDifficulty(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := routine.ParseDifficulty("brutal"); !errors.Is(err, routine.ErrInvalidSelection) {
		t.Errorf("expected invalid selection, got %v", err)
	}
}
