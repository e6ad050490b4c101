package main

import (
	"net/http"
)

type exerciseTemplateData struct {
	BaseTemplateData
	Name string
	// Description is markdown.
	Description string
}

// exerciseGET describes an exercise of the catalog.
func (app *application) exerciseGET(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	description, ok := app.workoutService.Describe(name)
	if !ok {
		app.notFound(w, r)
		return
	}
	app.render(w, r, http.StatusOK, "exercise", exerciseTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Name:             name,
		Description:      description,
	})
}
