// Package plan turns a waste-collection calendar into the grouped text
// report: Group builds a name -> dates table, Render prints it.
package plan

import (
	"slices"
	"time"

	"trashplan/internal/ics"
	appLog "trashplan/internal/log"
	"trashplan/internal/model"
)

const defaultHorizonDays = 365

// GroupOptions controls Group.
type GroupOptions struct {
	// OnlyFuture drops events that do not start strictly after Now.
	OnlyFuture bool

	// Now is the reference time. Zero means time.Now() at call time.
	Now time.Time

	// Expand enables RRULE expansion up to Now + HorizonDays.
	Expand      bool
	HorizonDays int
}

// Group parses body and groups its events by name.
func Group(body []byte, onlyFuture bool) (*model.Table, error) {
	return GroupWith(body, GroupOptions{OnlyFuture: onlyFuture})
}

// GroupAt is Group with an explicit reference time.
func GroupAt(body []byte, onlyFuture bool, now time.Time) (*model.Table, error) {
	return GroupWith(body, GroupOptions{OnlyFuture: onlyFuture, Now: now})
}

// GroupWith parses body and groups its events according to opts. Parse
// errors wrap ics.ErrParse.
func GroupWith(body []byte, opts GroupOptions) (*model.Table, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	parsed, err := ics.ParseICS(body)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	if opts.Expand {
		days := opts.HorizonDays
		if days <= 0 {
			days = defaultHorizonDays
		}
		events, err = ics.Expand(parsed, ics.ExpandConfig{Until: now.AddDate(0, 0, days)})
		if err != nil {
			return nil, err
		}
	} else {
		events = make([]model.Event, 0, len(parsed))
		for _, p := range parsed {
			events = append(events, p.Event())
		}
	}

	table := GroupEvents(events, opts.OnlyFuture, now)
	appLog.Debug("grouped events", "events", len(events), "groups", table.Len(), "only_future", opts.OnlyFuture)
	return table, nil
}

// GroupEvents orders events by start (stable on ties) and groups them by
// exact name. With onlyFuture, events starting at or before now are dropped.
func GroupEvents(events []model.Event, onlyFuture bool, now time.Time) *model.Table {
	kept := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if onlyFuture && !ev.Start.After(now) {
			continue
		}
		kept = append(kept, ev)
	}

	slices.SortStableFunc(kept, func(a, b model.Event) int {
		return a.Start.Compare(b.Start)
	})

	table := model.NewTable()
	for _, ev := range kept {
		table.Append(ev.Name, ev.Start)
	}
	return table
}
