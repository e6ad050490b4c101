package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/myrjola/fitroutine/internal/e2etest"
	"github.com/myrjola/fitroutine/internal/logging"
	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	numProfiles             = 50
	routinesPerProfile      = 12
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

// profileScenario plays one anonymous visitor: it generates routines with random selections, saves nutrition
// preferences, completes workouts and reads the history.
func profileScenario(ctx context.Context, baseURL string, logger *slog.Logger) error {
	client, err := e2etest.NewClient(baseURL)
	if err != nil {
		return fmt.Errorf("new client: %w", err)
	}
	if _, err = client.GetDoc(ctx, "/"); err != nil {
		return fmt.Errorf("get home: %w", err)
	}
	nutrition := url.Values{
		"goal":     {string(routine.Goals[rand.IntN(len(routine.Goals))])},
		"calories": {strconv.Itoa(1200 + rand.IntN(3000))}, //nolint:mnd // 1200-4199 kcal.
	}
	if _, err = client.PostForm(ctx, "/nutrition", nutrition); err != nil {
		return fmt.Errorf("save nutrition: %w", err)
	}

	for range routinesPerProfile {
		selection := url.Values{
			"age":   {strconv.Itoa(18 + rand.IntN(60))}, //nolint:mnd // 18-77 years.
			"level": {string(routine.Levels[rand.IntN(len(routine.Levels))])},
			"goal":  {string(routine.Goals[rand.IntN(len(routine.Goals))])},
			"days":  {strconv.Itoa(routine.MinDays + rand.IntN(routine.MaxDays))},
		}
		if _, err = client.PostForm(ctx, "/routines", selection); err != nil {
			return fmt.Errorf("generate routine: %w", err)
		}
		difficulty := url.Values{"difficulty": {string(routine.Difficulties[rand.IntN(len(routine.Difficulties))])}}
		if _, err = client.PostForm(ctx, "/routines/latest/complete", difficulty); err != nil {
			return fmt.Errorf("complete workout: %w", err)
		}
	}

	doc, err := client.GetDoc(ctx, "/history")
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "Scenario completed",
		slog.Int("history_entries", doc.Find("article.history-entry").Length()))
	return nil
}

// runLoadTest runs numProfiles scenarios with bounded concurrency.
func runLoadTest(ctx context.Context, baseURL string, logger *slog.Logger) error {
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_profiles", numProfiles))

	var successCount, failureCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range numProfiles {
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := profileScenario(scenarioCtx, baseURL, logger); err != nil {
				failureCount.Add(1)
				// Failures are counted, they do not stop the other scenarios.
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.Int("profile", i), slog.Any("error", err))
				return nil
			}
			successCount.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount.Load()) / numProfiles * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount.Load()),
		slog.Int64("failed", failureCount.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	baseURL := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		baseURL = "http://" + hostname
	}

	client, err := e2etest.NewClient(baseURL)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	if err = runLoadTest(ctx, baseURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)))
}
