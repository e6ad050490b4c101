package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "FITROUTINE_SQLITE_URL":
		return ":memory:", true
	case "FITROUTINE_ADDR":
		return "localhost:0", true
	case "FITROUTINE_SECURE_COOKIES":
		return "false", true
	default:
		return "", false
	}
}

// routineFormFields fills the routine form by label.
func routineFormFields(age, level, goal, days string) map[string]string {
	return map[string]string{
		"Age":              age,
		"Experience level": level,
		"Goal":             goal,
		"Days per week":    days,
	}
}

// firstExercises returns the first exercise of every day on the routine page.
func firstExercises(doc *goquery.Document) []string {
	var out []string
	doc.Find("section.day").Each(func(_ int, day *goquery.Selection) {
		out = append(out, strings.TrimSpace(day.Find("li").First().Text()))
	})
	return out
}

func Test_application_home(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	t.Run("Initial state", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		form, err := e2etest.FindForm(doc, "/routines")
		if err != nil {
			t.Fatalf("Failed to find routine form: %v", err)
		}
		if got := form.Find("input#age").AttrOr("value", ""); got != "25" {
			t.Errorf("want default age 25, got %q", got)
		}
		if got := form.Find("select#days option[selected]").AttrOr("value", ""); got != "3" {
			t.Errorf("want default days 3, got %q", got)
		}
		if got := form.Find("select#level option").Length(); got != 3 {
			t.Errorf("want 3 levels, got %d", got)
		}
		if got := doc.Find("#stats-workouts").Text(); got != "0" {
			t.Errorf("want 0 workouts, got %q", got)
		}
		if doc.Find(".nutrition-summary a[href='/nutrition']").Length() != 1 {
			t.Error("want link to nutrition preferences when none are saved")
		}
	})

	t.Run("Generate routine", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		doc, err = client.SubmitForm(ctx, doc, "/routines", routineFormFields("30", "intermediate", "gain_muscle", "4"))
		if err != nil {
			t.Fatalf("Failed to submit routine form: %v", err)
		}
		if doc.Url.Path != "/routines/latest" {
			t.Errorf("want redirect to /routines/latest, got %s", doc.Url.Path)
		}
		want := []string{"Jump squats 4x12", "Assisted pull-ups 3x8", "Lunges 4x12", "Push-ups 4x12"}
		got := firstExercises(doc)
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("want first exercises %v, got %v", want, got)
		}
	})

	t.Run("Form is prefilled with the previous selection", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/")
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if got := doc.Find("input#age").AttrOr("value", ""); got != "30" {
			t.Errorf("want age 30, got %q", got)
		}
		if got := doc.Find("select#goal option[selected]").AttrOr("value", ""); got != "gain_muscle" {
			t.Errorf("want goal gain_muscle, got %q", got)
		}
	})
}

func Test_application_routinesPOST_validation(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	tests := []struct {
		name       string
		form       url.Values
		wantErrors map[string]string
	}{
		{
			name: "age out of range and too many days",
			form: url.Values{"age": {"5"}, "level": {"beginner"}, "goal": {"stay_fit"}, "days": {"9"}},
			wantErrors: map[string]string{
				"#age-error":  "Age must be a number between 10 and 80.",
				"#days-error": "Days per week must be between 1 and 7.",
			},
		},
		{
			name: "unknown level and goal",
			form: url.Values{"age": {"40"}, "level": {"expert"}, "goal": {"fly"}, "days": {"2"}},
			wantErrors: map[string]string{
				"#level-error": "Choose an experience level.",
				"#goal-error":  "Choose a goal.",
			},
		},
		{
			name:       "age is not a number",
			form:       url.Values{"age": {"abc"}, "level": {"beginner"}, "goal": {"stay_fit"}, "days": {"2"}},
			wantErrors: map[string]string{"#age-error": "Age must be a number between 10 and 80."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.PostForm(ctx, "/routines", tt.form)
			var statusErr *e2etest.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("want status error, got %v", err)
			}
			if statusErr.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("want status %d, got %d", http.StatusUnprocessableEntity, statusErr.StatusCode)
			}
			for selector, want := range tt.wantErrors {
				if got := strings.TrimSpace(statusErr.Doc.Find(selector).Text()); got != want {
					t.Errorf("%s: want %q, got %q", selector, want, got)
				}
			}
			if got := statusErr.Doc.Find(".error").Length(); got != len(tt.wantErrors) {
				t.Errorf("want %d errors, got %d", len(tt.wantErrors), got)
			}
			// The submitted values are shown back to the user.
			if got := statusErr.Doc.Find("input#age").AttrOr("value", ""); got != tt.form.Get("age") {
				t.Errorf("want age %q kept in form, got %q", tt.form.Get("age"), got)
			}
		})
	}

	t.Run("No routine is stored", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/routines/latest")
		if err != nil {
			t.Fatalf("Failed to get routine page: %v", err)
		}
		if doc.Find(".empty").Length() != 1 {
			t.Error("want empty state")
		}
	})
}

func Test_application_crossOriginProtection(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client, err := e2etest.NewClientWithSecFetchSite(server.URL(), "cross-site")
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	form := url.Values{"age": {"30"}, "level": {"beginner"}, "goal": {"stay_fit"}, "days": {"2"}}
	_, err = client.PostForm(ctx, "/routines", form)
	var statusErr *e2etest.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusForbidden {
		t.Fatalf("want status %d, got %v", http.StatusForbidden, err)
	}

	if _, err = client.GetDoc(ctx, "/"); err != nil {
		t.Errorf("want cross-site GET to succeed, got %v", err)
	}
}

func Test_application_maintenanceMode(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	if _, err = server.DB().ExecContext(ctx,
		"UPDATE feature_flags SET enabled = 1 WHERE name = 'maintenance_mode'"); err != nil {
		t.Fatalf("Failed to enable maintenance mode: %v", err)
	}

	_, err = client.GetDoc(ctx, "/")
	var statusErr *e2etest.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("want status %d, got %v", http.StatusServiceUnavailable, err)
	}
	if got := statusErr.Doc.Find("h1").Text(); got != "Down for maintenance" {
		t.Errorf("want maintenance heading, got %q", got)
	}

	if _, err = client.Get(ctx, "/api/healthy"); err != nil {
		t.Errorf("want health check to work during maintenance, got %v", err)
	}
}
