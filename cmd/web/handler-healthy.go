package main

import (
	"net/http"
	"strconv"
	"time"
)

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// testTimeout sleeps for the sleep_ms query parameter before answering. It exercises the handler timeout.
func (app *application) testTimeout(w http.ResponseWriter, r *http.Request) {
	sleepMs := 0
	if s := r.URL.Query().Get("sleep_ms"); s != "" {
		var err error
		if sleepMs, err = strconv.Atoi(s); err != nil || sleepMs < 0 {
			http.Error(w, "Invalid sleep_ms parameter", http.StatusBadRequest)
			return
		}
	}

	select {
	case <-time.After(time.Duration(sleepMs) * time.Millisecond):
	case <-r.Context().Done():
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"completed","slept_ms":` + strconv.Itoa(sleepMs) + `}`))
}
