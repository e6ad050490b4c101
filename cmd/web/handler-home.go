package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/workout"
)

const (
	defaultAge  = 25
	defaultDays = 3
)

// routineForm holds the raw form values so that invalid input is shown back to the user as typed.
type routineForm struct {
	Age   string
	Level string
	Goal  string
	Days  string
	// Errors maps a field name to the translation key of its validation message.
	Errors map[string]string
}

type homeTemplateData struct {
	BaseTemplateData
	Form       routineForm
	Levels     []routine.Level
	Goals      []routine.Goal
	DayOptions []int
	MinAge     int
	MaxAge     int
	Stats      workout.Stats
	Nutrition  *workout.NutritionPreferences
	HasRoutine bool
}

func defaultRoutineForm() routineForm {
	return routineForm{
		Age:    strconv.Itoa(defaultAge),
		Level:  string(routine.LevelBeginner),
		Goal:   string(routine.GoalStayFit),
		Days:   strconv.Itoa(defaultDays),
		Errors: map[string]string{},
	}
}

func (app *application) newHomeTemplateData(r *http.Request, form routineForm) (homeTemplateData, error) {
	progress, err := app.workoutService.LoadProgress(r.Context())
	if err != nil {
		return homeTemplateData{}, err
	}
	dayOptions := make([]int, 0, routine.MaxDays)
	for d := routine.MinDays; d <= routine.MaxDays; d++ {
		dayOptions = append(dayOptions, d)
	}
	return homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Form:             form,
		Levels:           routine.Levels,
		Goals:            routine.Goals,
		DayOptions:       dayOptions,
		MinAge:           workout.MinAge,
		MaxAge:           workout.MaxAge,
		Stats:            progress.Stats,
		Nutrition:        progress.Nutrition,
		HasRoutine:       progress.LastRoutine != nil,
	}, nil
}

// home shows the routine form prefilled with the previous selection.
func (app *application) home(w http.ResponseWriter, r *http.Request) {
	form := defaultRoutineForm()
	latest, err := app.workoutService.LatestRoutine(r.Context())
	switch {
	case errors.Is(err, workout.ErrNotFound):
	case err != nil:
		app.serverError(w, r, err)
		return
	default:
		form.Age = strconv.Itoa(latest.Selection.Age)
		form.Level = string(latest.Selection.Level)
		form.Goal = string(latest.Selection.Goal)
		form.Days = strconv.Itoa(latest.Selection.Days)
	}

	data, err := app.newHomeTemplateData(r, form)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "home", data)
}

// parseRoutineForm validates the routine form. The returned form carries the field errors.
func parseRoutineForm(r *http.Request) (workout.Selection, routineForm) {
	form := routineForm{
		Age:    strings.TrimSpace(r.PostFormValue("age")),
		Level:  r.PostFormValue("level"),
		Goal:   r.PostFormValue("goal"),
		Days:   strings.TrimSpace(r.PostFormValue("days")),
		Errors: map[string]string{},
	}
	var (
		sel workout.Selection
		err error
	)

	if sel.Age, err = strconv.Atoi(form.Age); err != nil || sel.Age < workout.MinAge || sel.Age > workout.MaxAge {
		form.Errors["age"] = "error.age"
	}
	if sel.Level, err = routine.ParseLevel(form.Level); err != nil {
		form.Errors["level"] = "error.level"
	}
	if sel.Goal, err = routine.ParseGoal(form.Goal); err != nil {
		form.Errors["goal"] = "error.goal"
	}
	if sel.Days, err = strconv.Atoi(form.Days); err != nil || sel.Days < routine.MinDays || sel.Days > routine.MaxDays {
		form.Errors["days"] = "error.days"
	}
	return sel, form
}

// routinesPOST generates a routine from the form and stores it as the latest routine.
func (app *application) routinesPOST(w http.ResponseWriter, r *http.Request) {
	sel, form := parseRoutineForm(r)
	if len(form.Errors) == 0 {
		_, err := app.workoutService.GenerateRoutine(r.Context(), sel)
		var invalid *routine.InvalidSelectionError
		switch {
		case errors.As(err, &invalid):
			form.Errors[invalid.Field] = "error." + invalid.Field
		case err != nil:
			app.serverError(w, r, err)
			return
		default:
			redirect(w, r, "/routines/latest")
			return
		}
	}

	data, err := app.newHomeTemplateData(r, form)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusUnprocessableEntity, "home", data)
}
