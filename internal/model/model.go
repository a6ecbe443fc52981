package model

import "time"

// Event is a single collection date as read from the calendar: the VEVENT
// SUMMARY (e.g. "Restabfall") and its DTSTART in the event's own timezone.
type Event struct {
	Name  string
	Start time.Time
}

// Table maps an event name to its start times. Names are kept in insertion
// order; the timestamps of a name keep the order in which they were appended.
//
// A name is only ever present together with at least one timestamp.
type Table struct {
	names []string
	dates map[string][]time.Time
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{dates: make(map[string][]time.Time)}
}

// Append inserts name if it is new and appends t to its sequence.
func (t *Table) Append(name string, at time.Time) {
	if t.dates == nil {
		t.dates = make(map[string][]time.Time)
	}
	if _, ok := t.dates[name]; !ok {
		t.names = append(t.names, name)
	}
	t.dates[name] = append(t.dates[name], at)
}

// Names returns the names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Dates returns the timestamps recorded for name, or nil if name is unknown.
func (t *Table) Dates(name string) []time.Time {
	d, ok := t.dates[name]
	if !ok {
		return nil
	}
	out := make([]time.Time, len(d))
	copy(out, d)
	return out
}

// Len reports the number of distinct names.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Line is one line of the rendered report: either a Label or a Stamp.
type Line interface {
	Indent() int
	line()
}

// Label is a plain text line, used for group headers.
type Label struct {
	Pad  int
	Text string
}

// Stamp is a timestamp line, formatted by the renderer.
type Stamp struct {
	Pad int
	At  time.Time
}

func (l Label) Indent() int { return l.Pad }
func (s Stamp) Indent() int { return s.Pad }

func (Label) line() {}
func (Stamp) line() {}
