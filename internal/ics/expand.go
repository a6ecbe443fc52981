package ics

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "trashplan/internal/log"
	"trashplan/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// Until is the inclusive upper bound for generated occurrences.
	Until time.Time

	// MaxOccurrencesPerEvent caps the occurrences of a single VEVENT.
	// If zero, defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// Expand turns parsed VEVENTs into model events. Events without an RRULE
// yield their DTSTART; recurring ones yield every occurrence between DTSTART
// and cfg.Until, minus EXDATEs, or just DTSTART when it lies after cfg.Until.
// Output keeps document order per VEVENT.
func Expand(events []ParsedEvent, cfg ExpandConfig) ([]model.Event, error) {
	if cfg.Until.IsZero() {
		return nil, errors.New("expand: Until is required")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			out = append(out, ev.Event())
			continue
		}

		starts, truncated, err := expandRecurring(ev, cfg)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", ev.Summary, err)
		}
		if truncated {
			appLog.Error("expand: truncated occurrences due to cap",
				errors.New("max occurrences reached"),
				"uid", ev.UID,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
		for _, s := range starts {
			out = append(out, model.Event{Name: ev.Summary, Start: s})
		}
	}
	return out, nil
}

func expandRecurring(ev ParsedEvent, cfg ExpandConfig) ([]time.Time, bool, error) {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil, false, err
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// A series starting past the horizon still shows its first date.
	until := cfg.Until.In(ev.Start.Location())
	if until.Before(ev.Start) {
		return []time.Time{ev.Start}, false, nil
	}

	occ := set.Between(ev.Start, until, true)
	truncated := false
	if len(occ) > cfg.MaxOccurrencesPerEvent {
		occ = occ[:cfg.MaxOccurrencesPerEvent]
		truncated = true
	}

	if ev.AllDay {
		for i, o := range occ {
			occ[i] = time.Date(o.Year(), o.Month(), o.Day(), 0, 0, 0, 0, o.Location())
		}
	}
	return occ, truncated, nil
}
