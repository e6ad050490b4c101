package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/workout"
)

// exportFileName is the name browsers save the exported routine as.
const exportFileName = "my_routine.txt"

// exportHeader precedes the plan in the exported text.
const exportHeader = "My personalized routine:\n\n"

type exerciseView struct {
	Name string
	Text string
	// HasInfo is true when the catalog has a description for the exercise.
	HasInfo bool
}

type dayView struct {
	Number    int
	Exercises []exerciseView
}

type routineTemplateData struct {
	BaseTemplateData
	// Routine is nil when no routine has been generated yet.
	Routine      *workout.HistoryEntry
	Days         []dayView
	Adjusted     bool
	Difficulties []routine.Difficulty
	// LastDifficulty preselects the feedback form with the most recent rating.
	LastDifficulty routine.Difficulty
	Stats        workout.Stats
	// FeedbackError is the translation key of the feedback form error.
	FeedbackError string
}

func (app *application) newDayViews(plan routine.Plan) []dayView {
	days := make([]dayView, len(plan))
	for i, day := range plan {
		days[i].Number = i + 1
		for _, d := range day {
			_, hasInfo := app.workoutService.Describe(d.Name)
			days[i].Exercises = append(days[i].Exercises, exerciseView{Name: d.Name, Text: d.String(), HasInfo: hasInfo})
		}
	}
	return days
}

// wasPersonalized reports whether feedback or nutrition preferences existed when entry was generated.
func wasPersonalized(progress workout.Progress, entry workout.HistoryEntry) bool {
	for _, f := range progress.Feedback {
		if !f.RecordedAt.After(entry.GeneratedAt) {
			return true
		}
	}
	return progress.Nutrition != nil && !progress.Nutrition.UpdatedAt.After(entry.GeneratedAt)
}

func (app *application) newRoutineTemplateData(r *http.Request) (routineTemplateData, error) {
	progress, err := app.workoutService.LoadProgress(r.Context())
	if err != nil {
		return routineTemplateData{}, err
	}
	data := routineTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Routine:          progress.LastRoutine,
		Days:             nil,
		Adjusted:         false,
		Difficulties:     routine.Difficulties,
		LastDifficulty:   routine.DifficultyNormal,
		Stats:            progress.Stats,
		FeedbackError:    "",
	}
	if latest := progress.LatestFeedback(); latest != nil {
		data.LastDifficulty = latest.Difficulty
	}
	if progress.LastRoutine != nil {
		data.Days = app.newDayViews(progress.LastRoutine.Plan)
		data.Adjusted = wasPersonalized(progress, *progress.LastRoutine)
	}
	return data, nil
}

// routineLatestGET shows the latest routine with the feedback form.
func (app *application) routineLatestGET(w http.ResponseWriter, r *http.Request) {
	data, err := app.newRoutineTemplateData(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "routine", data)
}

// routineExportGET downloads the latest routine as plain text.
func (app *application) routineExportGET(w http.ResponseWriter, r *http.Request) {
	entry, err := app.workoutService.LatestRoutine(r.Context())
	if errors.Is(err, workout.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	_, _ = w.Write([]byte(exportHeader + routine.FormatText(entry.Plan)))
}

// routineCompletePOST marks the workout as done and stores how it felt.
func (app *application) routineCompletePOST(w http.ResponseWriter, r *http.Request) {
	difficulty, err := routine.ParseDifficulty(r.PostFormValue("difficulty"))
	if err == nil {
		if _, err = app.workoutService.CompleteWorkout(r.Context(), difficulty, time.Now()); err != nil {
			app.serverError(w, r, err)
			return
		}
		redirect(w, r, "/routines/latest")
		return
	}

	data, err := app.newRoutineTemplateData(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data.FeedbackError = "error.difficulty"
	app.render(w, r, http.StatusUnprocessableEntity, "routine", data)
}
