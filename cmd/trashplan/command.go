package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/urfave/cli/v3"

	"trashplan/internal/config"
	appLog "trashplan/internal/log"
)

const envPrefix = "TRASHPLAN_"

// newCommand builds the CLI. The report is written to out; errors are
// returned from Run instead of exiting so that main decides the exit code.
func newCommand(out io.Writer, client *http.Client) *cli.Command {
	return &cli.Command{
		Name:      "trashplan",
		Usage:     "print the waste collection dates for a location, grouped by type",
		ArgsUsage: "<location>",
		Version:   version,
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "location",
				Aliases: []string{"l"},
				Usage:   "location id (may also be given as the first argument)",
				Sources: cli.EnvVars(envPrefix + "LOCATION"),
			},
			&cli.StringFlag{
				Name:    "date-format",
				Aliases: []string{"df"},
				Usage:   "custom date format string",
				Value:   "YYYY-MM-DD",
				Sources: cli.EnvVars(envPrefix + "DATE_FORMAT"),
			},
			&cli.IntFlag{
				Name:    "head-indent",
				Aliases: []string{"hi"},
				Usage:   "indentation for headings",
				Value:   0,
				Sources: cli.EnvVars(envPrefix + "HEAD_INDENT"),
			},
			&cli.IntFlag{
				Name:    "main-indent",
				Aliases: []string{"mi"},
				Usage:   "indentation for content",
				Value:   4,
				Sources: cli.EnvVars(envPrefix + "MAIN_INDENT"),
			},
			&cli.BoolFlag{
				Name:    "only-future",
				Aliases: []string{"of"},
				Usage:   "include only future dates",
				Sources: cli.EnvVars(envPrefix + "ONLY_FUTURE"),
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "calendar endpoint URL",
				Sources: cli.EnvVars(envPrefix + "ENDPOINT"),
			},
			&cli.StringFlag{
				Name:    "endpoint-style",
				Usage:   `"page" (lid query) or "ics" (position_nos query)`,
				Value:   "page",
				Sources: cli.EnvVars(envPrefix + "ENDPOINT_STYLE"),
			},
			&cli.BoolFlag{
				Name:    "expand",
				Usage:   "expand recurring events into single dates",
				Sources: cli.EnvVars(envPrefix + "EXPAND"),
			},
			&cli.IntFlag{
				Name:    "horizon-days",
				Usage:   "how far ahead recurring events are expanded",
				Value:   365,
				Sources: cli.EnvVars(envPrefix + "HORIZON_DAYS"),
			},
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				Usage:     "YAML config file",
				TakesFile: true,
				Sources:   cli.EnvVars(envPrefix + "CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "log progress to stderr",
				Sources: cli.EnvVars(envPrefix + "VERBOSE"),
			},
		},
		HideHelpCommand: true,
		// Errors go back to main, which owns the exit code.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("verbose") {
				appLog.SetLevel(appLog.LevelDebug)
			}

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			appLog.Debug("effective config",
				"location", cfg.Location,
				"endpoint_style", cfg.EndpointStyle,
				"date_format", cfg.DateFormat,
				"head_indent", cfg.HeadIndent,
				"main_indent", cfg.MainIndent,
				"only_future", cfg.OnlyFuture,
				"expand", cfg.Expand,
				"horizon_days", cfg.HorizonDays,
			)

			return run(ctx, cfg, client, cmd.Root().Writer)
		},
	}
}

// resolveConfig layers the config file, then env and flags (both reported
// by IsSet), then the positional location.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("location") {
		cfg.Location = cmd.String("location")
	}
	if cmd.IsSet("date-format") {
		cfg.DateFormat = cmd.String("date-format")
	}
	if cmd.IsSet("head-indent") {
		cfg.HeadIndent = int(cmd.Int("head-indent"))
	}
	if cmd.IsSet("main-indent") {
		cfg.MainIndent = int(cmd.Int("main-indent"))
	}
	if cmd.IsSet("only-future") {
		cfg.OnlyFuture = cmd.Bool("only-future")
	}
	if cmd.IsSet("endpoint") {
		cfg.Endpoint = cmd.String("endpoint")
	}
	if cmd.IsSet("endpoint-style") {
		cfg.EndpointStyle = cmd.String("endpoint-style")
	}
	if cmd.IsSet("expand") {
		cfg.Expand = cmd.Bool("expand")
	}
	if cmd.IsSet("horizon-days") {
		cfg.HorizonDays = int(cmd.Int("horizon-days"))
	}

	if n := cmd.Args().Len(); n > 1 {
		return nil, fmt.Errorf("expected at most one location argument, got %d", n)
	}
	if cmd.Args().Present() {
		cfg.Location = cmd.Args().First()
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Canonical decimal form, e.g. "012345" -> "12345".
	n, _ := strconv.Atoi(cfg.Location)
	cfg.Location = strconv.Itoa(n)
	return cfg, nil
}
