package main

import (
	"net/http"

	"github.com/myrjola/fitroutine/internal/workout"
)

type historyEntryView struct {
	Entry workout.HistoryEntry
	Days  []dayView
}

type historyTemplateData struct {
	BaseTemplateData
	Entries []historyEntryView
}

// historyGET lists the stored routines, newest first.
func (app *application) historyGET(w http.ResponseWriter, r *http.Request) {
	entries, err := app.workoutService.History(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	views := make([]historyEntryView, len(entries))
	for i, e := range entries {
		views[i] = historyEntryView{Entry: e, Days: app.newDayViews(e.Plan)}
	}
	app.render(w, r, http.StatusOK, "history", historyTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Entries:          views,
	})
}
