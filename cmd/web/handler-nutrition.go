package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/workout"
)

type nutritionForm struct {
	Goal        string
	Calories    string
	Preferences string
	Allergies   string
	Errors      map[string]string
}

type nutritionTemplateData struct {
	BaseTemplateData
	Form        nutritionForm
	Goals       []routine.Goal
	MinCalories int
	MaxCalories int
	// UpdatedAt is zero until preferences have been saved.
	UpdatedAt time.Time
}

func (app *application) renderNutrition(w http.ResponseWriter, r *http.Request, status int, form nutritionForm,
	updatedAt time.Time) {
	app.render(w, r, status, "nutrition", nutritionTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Form:             form,
		Goals:            routine.Goals,
		MinCalories:      workout.MinCalories,
		MaxCalories:      workout.MaxCalories,
		UpdatedAt:        updatedAt,
	})
}

// nutritionGET shows the nutrition preferences form with the saved values.
func (app *application) nutritionGET(w http.ResponseWriter, r *http.Request) {
	progress, err := app.workoutService.LoadProgress(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	form := nutritionForm{
		Goal:        string(routine.GoalStayFit),
		Calories:    strconv.Itoa(workout.DefaultCalories),
		Preferences: "",
		Allergies:   "",
		Errors:      map[string]string{},
	}
	var updatedAt time.Time
	if n := progress.Nutrition; n != nil {
		form.Goal = string(n.Goal)
		form.Calories = strconv.Itoa(n.Calories)
		form.Preferences = n.Preferences
		form.Allergies = n.Allergies
		updatedAt = n.UpdatedAt
	}
	app.renderNutrition(w, r, http.StatusOK, form, updatedAt)
}

// nutritionPOST saves the nutrition preferences used when generating the next routine.
func (app *application) nutritionPOST(w http.ResponseWriter, r *http.Request) {
	form := nutritionForm{
		Goal:        r.PostFormValue("goal"),
		Calories:    strings.TrimSpace(r.PostFormValue("calories")),
		Preferences: r.PostFormValue("preferences"),
		Allergies:   r.PostFormValue("allergies"),
		Errors:      map[string]string{},
	}
	calories, err := strconv.Atoi(form.Calories)
	if err != nil {
		form.Errors["calories"] = "error.calories"
		app.renderNutrition(w, r, http.StatusUnprocessableEntity, form, time.Time{})
		return
	}

	err = app.workoutService.SaveNutrition(r.Context(), workout.NutritionPreferences{
		Goal:        routine.Goal(form.Goal),
		Calories:    calories,
		Preferences: form.Preferences,
		Allergies:   form.Allergies,
		UpdatedAt:   time.Time{},
	})
	var invalid *routine.InvalidSelectionError
	switch {
	case errors.As(err, &invalid):
		if invalid.Field == "goal" {
			form.Errors["goal"] = "error.nutrition_goal"
		} else {
			form.Errors[invalid.Field] = "error." + invalid.Field
		}
		app.renderNutrition(w, r, http.StatusUnprocessableEntity, form, time.Time{})
	case err != nil:
		app.serverError(w, r, err)
	default:
		redirect(w, r, "/nutrition")
	}
}
