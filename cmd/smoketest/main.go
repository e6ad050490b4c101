package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/logging"
	"github.com/myrjola/fitroutine/internal/testhelpers"
)

const (
	smokeTestTimeout  = 10 * time.Second
	expectedArgsCount = 2
	smokeTestDays     = 3
)

// testRoutine generates a routine through the form and checks the routine page and the export.
func testRoutine(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, smokeTestTimeout)
	defer cancel()

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return fmt.Errorf("get home: %w", err)
	}
	doc, err = client.SubmitForm(ctx, doc, "/routines", map[string]string{
		"Age":              "35",
		"Experience level": "beginner",
		"Goal":             "stay_fit",
		"Days per week":    fmt.Sprint(smokeTestDays),
	})
	if err != nil {
		return fmt.Errorf("submit routine form: %w", err)
	}
	if days := doc.Find("section.day").Length(); days != smokeTestDays {
		return fmt.Errorf("want %d days, got %d", smokeTestDays, days)
	}

	resp, err := client.Get(ctx, "/routines/latest/export")
	if err != nil {
		return fmt.Errorf("get export: %w", err)
	}
	defer resp.Body.Close()
	if !strings.Contains(resp.Header.Get("Content-Disposition"), "my_routine.txt") {
		return errors.New("export is not an attachment")
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		client   *e2etest.Client
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testRoutine(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing routine generation", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
}
