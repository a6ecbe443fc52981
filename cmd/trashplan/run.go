package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"trashplan/internal/config"
	"trashplan/internal/ics"
	appLog "trashplan/internal/log"
	"trashplan/internal/plan"
)

// run fetches, groups and renders the calendar for cfg.Location and writes
// the report to out. Nothing is rendered when the download fails.
func run(ctx context.Context, cfg *config.Config, client *http.Client, out io.Writer) error {
	fetcher := ics.NewFetcher(client, cfg.Endpoint, cfg.Style())

	body, err := fetcher.Fetch(ctx, cfg.Location)
	if err != nil {
		appLog.Debug("fetch failed", "location", cfg.Location, "err", err)
		return fmt.Errorf("could not download calendar for location %s: %w", cfg.Location, err)
	}

	table, err := plan.GroupWith(body, plan.GroupOptions{
		OnlyFuture:  cfg.OnlyFuture,
		Expand:      cfg.Expand,
		HorizonDays: cfg.HorizonDays,
	})
	if err != nil {
		return fmt.Errorf("could not read calendar for location %s: %w", cfg.Location, err)
	}

	report := plan.Render(table, plan.Options{
		DateFormat: cfg.DateFormat,
		HeadIndent: cfg.HeadIndent,
		MainIndent: cfg.MainIndent,
	})
	if report == "" {
		return nil
	}
	_, err = fmt.Fprintln(out, report)
	return err
}
