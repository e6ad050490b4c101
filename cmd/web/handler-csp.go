package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// maxCSPReportSize bounds the accepted report body.
const maxCSPReportSize = 64 << 10

type cspReport struct {
	Body struct {
		DocumentURI       string `json:"document-uri"`
		ViolatedDirective string `json:"violated-directive"`
		BlockedURI        string `json:"blocked-uri"`
		SourceFile        string `json:"source-file"`
		LineNumber        int    `json:"line-number"`
	} `json:"csp-report"`
}

// cspReportPOST logs Content-Security-Policy violations sent by the browser through the report-uri directive.
func (app *application) cspReportPOST(w http.ResponseWriter, r *http.Request) {
	var report cspReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCSPReportSize)).Decode(&report); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "invalid csp report", slog.String("error", err.Error()))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	app.logger.LogAttrs(r.Context(), slog.LevelWarn, "csp violation",
		slog.String("document_uri", report.Body.DocumentURI),
		slog.String("violated_directive", report.Body.ViolatedDirective),
		slog.String("blocked_uri", report.Body.BlockedURI),
		slog.String("source_file", report.Body.SourceFile),
		slog.Int("line_number", report.Body.LineNumber))
	w.WriteHeader(http.StatusNoContent)
}
