package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

func Test_application_notFound(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	tests := []struct {
		name string
		path string
	}{
		{name: "nonexistent path", path: "/nonexistent"},
		{name: "directory traversal", path: "/../go.mod"},
		{name: "unknown exercise", path: "/exercises/unknown"},
		{name: "export without routine", path: "/routines/latest/export"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetDoc(ctx, tt.path)
			var statusErr *e2etest.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("want status error, got %v", err)
			}
			if statusErr.StatusCode != http.StatusNotFound {
				t.Errorf("want status %d, got %d", http.StatusNotFound, statusErr.StatusCode)
			}
			checkCustom404Content(t, statusErr.Doc)
		})
	}

	t.Run("Static file", func(t *testing.T) {
		resp, err := client.Get(ctx, "/main.css")
		if err != nil {
			t.Fatalf("Failed to get stylesheet: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("want status 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("Cache-Control"); got != "public, max-age=31536000, immutable" {
			t.Errorf("want immutable cache control, got %q", got)
		}
	})
}

func checkCustom404Content(t *testing.T, doc *goquery.Document) {
	t.Helper()
	if got := doc.Find("h1").Text(); got != "404" {
		t.Errorf("want 404 heading, got %q", got)
	}
	if got := doc.Find("h2").Text(); got != "Page not found" {
		t.Errorf("want Page not found, got %q", got)
	}
	if doc.Find("main a[href='/']").Length() == 0 {
		t.Error("want link to home page")
	}
}
