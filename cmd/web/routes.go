package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		withoutMaintenanceMode = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		shared = func(next http.Handler) http.Handler {
			return withoutMaintenanceMode(app.maintenanceMode(next))
		}
		noSession = func(next http.Handler) http.Handler {
			return app.recoverPanic(withoutMaintenanceMode(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(shared(app.resolveProfile(next)))))
		}
	)

	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	mux.Handle("POST /routines", session(http.HandlerFunc(app.routinesPOST)))
	mux.Handle("GET /routines/latest", session(http.HandlerFunc(app.routineLatestGET)))
	mux.Handle("GET /routines/latest/export", session(http.HandlerFunc(app.routineExportGET)))
	mux.Handle("POST /routines/latest/complete", session(http.HandlerFunc(app.routineCompletePOST)))

	mux.Handle("GET /nutrition", session(http.HandlerFunc(app.nutritionGET)))
	mux.Handle("POST /nutrition", session(http.HandlerFunc(app.nutritionPOST)))

	mux.Handle("GET /history", session(http.HandlerFunc(app.historyGET)))

	mux.Handle("GET /exercises/{name}", session(http.HandlerFunc(app.exerciseGET)))

	mux.Handle("POST /language", noSession(http.HandlerFunc(app.setLanguagePOST)))

	mux.Handle("GET /api/healthy", noSession(http.HandlerFunc(app.healthy)))
	mux.Handle("POST /api/csp-report", noSession(http.HandlerFunc(app.cspReportPOST)))
	mux.Handle("GET /api/test/timeout", noSession(http.HandlerFunc(app.testTimeout)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler(session)
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
