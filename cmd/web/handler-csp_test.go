package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func Test_application_cspReportPOST(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		logContains []string
	}{
		{
			name: "full report",
			body: `{"csp-report": {"document-uri": "https://example.com/routines/latest", ` +
				`"violated-directive": "script-src", "blocked-uri": "https://evil.com/script.js", ` +
				`"line-number": 42, "source-file": "https://example.com/main.js"}}`,
			wantStatus:  http.StatusNoContent,
			logContains: []string{"csp violation", "script-src", "https://evil.com/script.js", "line_number=42"},
		},
		{
			name:        "minimal report",
			body:        `{"csp-report": {"violated-directive": "img-src"}}`,
			wantStatus:  http.StatusNoContent,
			logContains: []string{"csp violation", "img-src"},
		},
		{
			name:        "invalid json",
			body:        `{"csp-report": `,
			wantStatus:  http.StatusBadRequest,
			logContains: []string{"invalid csp report"},
		},
		{
			name:        "empty body",
			body:        "",
			wantStatus:  http.StatusBadRequest,
			logContains: []string{"invalid csp report"},
		},
		{
			name: "body over the size limit",
			body: `{"csp-report": {"violated-directive": "script-src", "script-sample": "` +
				strings.Repeat("a", maxCSPReportSize) + `"}}`,
			wantStatus:  http.StatusBadRequest,
			logContains: []string{"invalid csp report", "too large"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			app := &application{ //nolint:exhaustruct // only the logger is needed.
				logger: slog.New(slog.NewTextHandler(&logs, nil)),
			}
			req := httptest.NewRequest(http.MethodPost, "/api/csp-report", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/csp-report")
			w := httptest.NewRecorder()

			app.cspReportPOST(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("want status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusNoContent && w.Body.Len() != 0 {
				t.Errorf("want empty body, got %q", w.Body.String())
			}
			for _, want := range tt.logContains {
				if !strings.Contains(logs.String(), want) {
					t.Errorf("want log to contain %q, got %s", want, logs.String())
				}
			}
		})
	}
}
