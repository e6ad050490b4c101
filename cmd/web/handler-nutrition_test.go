package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

func Test_application_nutrition(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/nutrition")
	if err != nil {
		t.Fatalf("Failed to get nutrition page: %v", err)
	}
	if got := doc.Find("input#calories").AttrOr("value", ""); got != "2000" {
		t.Errorf("want default calories 2000, got %q", got)
	}

	t.Run("Save preferences", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/nutrition", map[string]string{
			"Nutrition goal":      "lose_weight",
			"Daily calories":      "1600",
			"Dietary preferences": "vegetarian",
			"Allergies":           " peanuts ",
		})
		if err != nil {
			t.Fatalf("Failed to submit nutrition form: %v", err)
		}
		if got := doc.Find("input#calories").AttrOr("value", ""); got != "1600" {
			t.Errorf("want calories 1600, got %q", got)
		}
		if got := doc.Find("select#goal option[selected]").AttrOr("value", ""); got != "lose_weight" {
			t.Errorf("want goal lose_weight, got %q", got)
		}
		if got := doc.Find("textarea#allergies").Text(); got != "peanuts" {
			t.Errorf("want trimmed allergies, got %q", got)
		}
		if doc.Find(".updated time").Length() != 1 {
			t.Error("want last updated time")
		}
	})

	t.Run("Summary on home page", func(t *testing.T) {
		doc, err = client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get home page: %v", err)
		}
		if got := strings.TrimSpace(doc.Find(".nutrition-summary p").Text()); got != "Lose weight, 1600 kcal" {
			t.Errorf("want nutrition summary, got %q", got)
		}
	})

	t.Run("Invalid input", func(t *testing.T) {
		tests := []struct {
			name     string
			form     url.Values
			selector string
			want     string
		}{
			{
				name:     "calories too low",
				form:     url.Values{"goal": {"stay_fit"}, "calories": {"500"}},
				selector: "#calories-error",
				want:     "Calories must be between 1000 and 5000.",
			},
			{
				name:     "calories not a number",
				form:     url.Values{"goal": {"stay_fit"}, "calories": {"lots"}},
				selector: "#calories-error",
				want:     "Calories must be between 1000 and 5000.",
			},
			{
				name:     "unknown goal",
				form:     url.Values{"goal": {"bulk"}, "calories": {"2500"}},
				selector: "#goal-error",
				want:     "Choose a nutrition goal.",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := client.PostForm(ctx, "/nutrition", tt.form)
				var statusErr *e2etest.StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnprocessableEntity {
					t.Fatalf("want status %d, got %v", http.StatusUnprocessableEntity, err)
				}
				if got := statusErr.Doc.Find(tt.selector).Text(); got != tt.want {
					t.Errorf("want %q, got %q", tt.want, got)
				}
			})
		}

		// Saved preferences are unchanged.
		doc, err = client.GetDoc(ctx, "/nutrition")
		if err != nil {
			t.Fatalf("Failed to get nutrition page: %v", err)
		}
		if got := doc.Find("input#calories").AttrOr("value", ""); got != "1600" {
			t.Errorf("want calories 1600, got %q", got)
		}
	})

	t.Run("Padded goal is normalized", func(t *testing.T) {
		form := url.Values{"goal": {"gain_muscle "}, "calories": {"2800"}}
		doc, err = client.PostForm(ctx, "/nutrition", form)
		if err != nil {
			t.Fatalf("Failed to save nutrition: %v", err)
		}
		if got := doc.Find("select#goal option[selected]").AttrOr("value", ""); got != "gain_muscle" {
			t.Errorf("want goal gain_muscle, got %q", got)
		}
	})
}
