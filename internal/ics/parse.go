package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "trashplan/internal/log"
	"trashplan/internal/model"
)

// ErrParse is returned (wrapped) when a body is not a usable iCalendar
// document.
var ErrParse = errors.New("calendar parse failed")

// ParsedEvent is a VEVENT reduced to what the report needs, plus the
// recurrence data used by Expand.
type ParsedEvent struct {
	UID     string
	Summary string
	Start   time.Time
	AllDay  bool

	RawRRule string
	ExDates  []time.Time
}

// Event returns the model view of the parsed VEVENT.
func (p ParsedEvent) Event() model.Event {
	return model.Event{Name: p.Summary, Start: p.Start}
}

// ParseICS parses a calendar body into its VEVENTs, in document order.
// A VEVENT without a usable DTSTART fails the whole document.
func ParseICS(body []byte) ([]ParsedEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty ICS body", ErrParse)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Debug("ics parse failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	vevents := cal.Events()
	events := make([]ParsedEvent, 0, len(vevents))
	for i, ve := range vevents {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Debug("ics vevent parse failed", "err", perr, "index", i)
			return nil, fmt.Errorf("%w: event %d: %v", ErrParse, i, perr)
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

// ParseEvents is ParseICS reduced to model events.
func ParseEvents(body []byte) ([]model.Event, error) {
	parsed, err := ParseICS(body)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, p.Event())
	}
	return out, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	out.Start = start

	if dtStart := ve.GetProperty(ical.ComponentPropertyDtStart); dtStart != nil {
		if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(dtStart.Value, "T") {
			out.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			loc := start.Location()
			if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
				if l, lerr := time.LoadLocation(tzs[0]); lerr == nil {
					loc = l
				}
			}
			if t, terr := parseICSTime(part, loc); terr == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	return out, nil
}

// parseICSTime parses a basic ICS date/date-time string. Floating and
// date-only values are placed in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}

	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}

	return time.ParseInLocation("20060102", v, loc)
}
