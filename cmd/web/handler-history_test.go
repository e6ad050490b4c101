package main

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

func Test_application_historyGET(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/history")
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if doc.Find(".empty").Length() != 1 {
		t.Error("want empty history")
	}

	// One more than the history keeps.
	for days := 1; days <= 7; days++ {
		form := url.Values{"age": {"40"}, "level": {"advanced"}, "goal": {"stay_fit"}, "days": {strconv.Itoa(days)}}
		if _, err = client.PostForm(ctx, "/routines", form); err != nil {
			t.Fatalf("Failed to generate routine: %v", err)
		}
	}
	for days := 1; days <= 4; days++ {
		form := url.Values{"age": {"40"}, "level": {"beginner"}, "goal": {"lose_weight"}, "days": {strconv.Itoa(days)}}
		if _, err = client.PostForm(ctx, "/routines", form); err != nil {
			t.Fatalf("Failed to generate routine: %v", err)
		}
	}

	doc, err = client.GetDoc(ctx, "/history")
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	entries := doc.Find("article.history-entry")
	if entries.Length() != 10 {
		t.Fatalf("want 10 history entries, got %d", entries.Length())
	}
	// Newest first: the last generated routine had four days.
	if got := entries.First().Find("h3").Length(); got != 4 {
		t.Errorf("want 4 days in newest entry, got %d", got)
	}
	// The oldest one-day routine was pruned.
	if got := entries.Last().Find("h3").Length(); got != 2 {
		t.Errorf("want 2 days in oldest entry, got %d", got)
	}
}
