// Command routine generates fitness routines from the command line and manages the feature flags of the web
// application's database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/myrjola/fitroutine/internal/errors"
	"github.com/myrjola/fitroutine/internal/logging"
	"github.com/myrjola/fitroutine/internal/routine"
	"github.com/myrjola/fitroutine/internal/sqlite"
	"github.com/myrjola/fitroutine/internal/workout"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called above.
	}
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:           "routine",
		Short:         "Personalized workout routines",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(generateCmd(), catalogCmd(), flagsCmd(stderr))
	return cmd
}

type generateOptions struct {
	age           int
	level         string
	goal          string
	days          int
	feedback      string
	nutritionGoal string
	calories      int
	catalogPath   string
	format        string
}

func generateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:   "generate",
		Short: "Generate a routine",
		Example: `  routine generate --level beginner --goal lose_weight --days 3
  routine generate --age 60 --level advanced --goal lose_weight --days 1 --feedback hard --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.age, "age", 25, "age in years") //nolint:mnd // same default as the web form.
	f.StringVar(&opts.level, "level", "", "experience level: beginner, intermediate or advanced")
	f.StringVar(&opts.goal, "goal", "", "goal: lose_weight, gain_muscle or stay_fit")
	f.IntVar(&opts.days, "days", 3, "training days per week, 1-7") //nolint:mnd // same default as the web form.
	f.StringVar(&opts.feedback, "feedback", "", "how the previous workout felt: easy, normal or hard")
	f.StringVar(&opts.nutritionGoal, "nutrition-goal", "", "nutrition goal, requires --calories")
	f.IntVar(&opts.calories, "calories", 0, "daily calorie intake")
	f.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog replacing the built-in one")
	f.StringVar(&opts.format, "format", formatText, "output format: text, yaml or json")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("goal")
	cmd.MarkFlagsRequiredTogether("nutrition-goal", "calories")
	return cmd
}

// planDocument is the yaml and json form of a generated plan.
type planDocument struct {
	Age   int           `json:"age"   yaml:"age"`
	Level routine.Level `json:"level" yaml:"level"`
	Goal  routine.Goal  `json:"goal"  yaml:"goal"`
	Days  []dayDocument `json:"days"  yaml:"days"`
}

type dayDocument struct {
	Day       int                  `json:"day"       yaml:"day"`
	Exercises []routine.Descriptor `json:"exercises" yaml:"exercises"`
}

func runGenerate(out io.Writer, opts generateOptions) error {
	req := routine.Request{
		Age:       opts.age,
		Level:     routine.Level(opts.level),
		Goal:      routine.Goal(opts.goal),
		Days:      opts.days,
		Feedback:  nil,
		Nutrition: nil,
	}
	if opts.feedback != "" {
		difficulty, err := routine.ParseDifficulty(opts.feedback)
		if err != nil {
			return err
		}
		req.Feedback = &routine.Feedback{Difficulty: difficulty}
	}
	if opts.nutritionGoal != "" {
		goal, err := routine.ParseGoal(opts.nutritionGoal)
		if err != nil {
			return fmt.Errorf("nutrition: %w", err)
		}
		req.Nutrition = &routine.Nutrition{Goal: goal, Calories: opts.calories}
	}

	catalog, err := openCatalog(opts.catalogPath)
	if err != nil {
		return err
	}
	plan, err := routine.NewGenerator(catalog).Generate(req)
	if err != nil {
		return err
	}

	switch opts.format {
	case formatText:
		_, err = fmt.Fprintln(out, routine.FormatText(plan))
	case formatYAML, formatJSON:
		doc := planDocument{Age: req.Age, Level: req.Level, Goal: req.Goal, Days: make([]dayDocument, len(plan))}
		for i, day := range plan {
			doc.Days[i] = dayDocument{Day: i + 1, Exercises: day}
		}
		err = encode(out, opts.format, doc)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	if err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

func encode(out io.Writer, format string, v any) error {
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2) //nolint:mnd // two spaces like the catalog.
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}
	return nil
}

func openCatalog(path string) (*routine.Catalog, error) {
	if path == "" {
		return routine.DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	catalog, err := routine.LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return catalog, nil
}

// catalogDocument lists the base exercise lists by level and goal.
type catalogDocument map[routine.Level]map[routine.Goal][]routine.Descriptor

func catalogCmd() *cobra.Command {
	var (
		catalogPath string
		format      string
	)
	cmd := &cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:   "catalog",
		Short: "List the base exercise lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := openCatalog(catalogPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case formatText:
				for i, entry := range catalog.Entries() {
					if i > 0 {
						_, _ = fmt.Fprintln(out)
					}
					_, _ = fmt.Fprintf(out, "%s/%s:\n", entry.Level, entry.Goal)
					for _, d := range entry.Exercises {
						_, _ = fmt.Fprintf(out, "- %s\n", d)
					}
				}
				return nil
			case formatYAML, formatJSON:
				doc := catalogDocument{}
				for _, entry := range catalog.Entries() {
					if doc[entry.Level] == nil {
						doc[entry.Level] = map[routine.Goal][]routine.Descriptor{}
					}
					doc[entry.Level][entry.Goal] = entry.Exercises
				}
				return encode(out, format, doc)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog replacing the built-in one")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, yaml or json")
	return cmd
}

func flagsCmd(stderr io.Writer) *cobra.Command {
	var sqliteURL string
	cmd := &cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:   "flags",
		Short: "List or toggle feature flags",
	}
	cmd.PersistentFlags().StringVar(&sqliteURL, "db", "./fitroutine.sqlite3", "SQLite database of the web application")

	withService := func(ctx context.Context, fn func(context.Context, *workout.Service) error) error {
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			AddSource:   false,
			Level:       slog.LevelWarn,
			ReplaceAttr: nil,
		})))
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
		if err != nil {
			return errors.Wrap(err, "open db", slog.String("url", sqliteURL))
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
			}
		}()
		return fn(ctx, workout.NewService(db, logger, routine.NewGenerator(routine.DefaultCatalog()), 0))
	}

	cmd.AddCommand(&cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:   "list",
		Short: "List feature flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *workout.Service) error {
				flags, err := s.ListFeatureFlags(ctx)
				if err != nil {
					return err
				}
				for _, flag := range flags {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\n", flag.Name, flag.Enabled)
				}
				return nil
			})
		},
	}, &cobra.Command{ //nolint:exhaustruct // defaults are fine for the rest.
		Use:     "set NAME true|false",
		Short:   "Enable or disable a feature flag",
		Example: "  routine flags set maintenance_mode true",
		Args:    cobra.ExactArgs(2), //nolint:mnd // name and value.
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("parse flag value: %w", err)
			}
			return withService(cmd.Context(), func(ctx context.Context, s *workout.Service) error {
				return s.SetFeatureFlag(ctx, workout.FeatureFlag{Name: args[0], Enabled: enabled})
			})
		},
	})
	return cmd
}
