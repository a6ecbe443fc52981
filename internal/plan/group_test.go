package plan

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"trashplan/internal/ics"
	"trashplan/internal/model"
)

func calendar(events ...string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//trashplan//test//EN\r\n")
	for _, e := range events {
		b.WriteString(e)
	}
	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String())
}

func vevent(uid, summary, dtstart string) string {
	return "BEGIN:VEVENT\r\nUID:" + uid + "\r\nSUMMARY:" + summary + "\r\nDTSTART:" + dtstart + "\r\nEND:VEVENT\r\n"
}

func TestGroupEmptyCalendar(t *testing.T) {
	table, err := Group(calendar(), false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Expected empty table, got %d groups", table.Len())
	}
	if got := Render(table, DefaultOptions()); got != "" {
		t.Errorf("Expected empty report, got %q", got)
	}
}

func TestGroupOrdersChronologically(t *testing.T) {
	body := calendar(
		vevent("1", "Paper", "20240320T060000Z"),
		vevent("2", "Residual Waste", "20240315T060000Z"),
		vevent("3", "Paper", "20240305T060000Z"),
		vevent("4", "Residual Waste", "20240301T060000Z"),
	)

	table, err := Group(body, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if names := table.Names(); len(names) != 2 || names[0] != "Residual Waste" || names[1] != "Paper" {
		t.Errorf("Expected names in first-seen chronological order, got %v", names)
	}

	paper := table.Dates("Paper")
	if len(paper) != 2 || !paper[0].Before(paper[1]) {
		t.Errorf("Expected Paper dates ascending, got %v", paper)
	}

	want := "Paper\n    2024-03-05\n    2024-03-20\n\nResidual Waste\n    2024-03-01\n    2024-03-15"
	if got := Render(table, DefaultOptions()); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestGroupIsCaseSensitive(t *testing.T) {
	body := calendar(
		vevent("1", "paper", "20240101T060000Z"),
		vevent("2", "Paper", "20240102T060000Z"),
	)
	table, err := Group(body, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 groups, got %d", table.Len())
	}
}

func TestGroupOnlyFuture(t *testing.T) {
	body := calendar(
		vevent("1", "Bio", "20240110T000000Z"),
		vevent("2", "Bio", "20240120T000000Z"),
		vevent("3", "Glass", "20240115T000000Z"),
	)
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	table, err := GroupAt(body, true, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	bio := table.Dates("Bio")
	if len(bio) != 1 || !bio[0].Equal(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected only the 2024-01-20 event, got %v", bio)
	}
	// Exactly "now" is not strictly after now.
	if table.Dates("Glass") != nil {
		t.Errorf("Expected Glass to be dropped, got %v", table.Dates("Glass"))
	}

	all, err := GroupAt(body, false, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(all.Dates("Bio")) != 2 {
		t.Errorf("Expected both Bio events without filter, got %v", all.Dates("Bio"))
	}
}

func TestGroupEventsStableOnTies(t *testing.T) {
	at := time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)
	events := []model.Event{
		{Name: "Yellow", Start: at.Add(24 * time.Hour)},
		{Name: "Paper", Start: at},
		{Name: "Bio", Start: at},
	}

	table := GroupEvents(events, false, time.Time{})
	names := table.Names()
	if len(names) != 3 || names[0] != "Paper" || names[1] != "Bio" || names[2] != "Yellow" {
		t.Errorf("Expected document order on equal starts, got %v", names)
	}
}

func TestGroupEventsPreservesPairs(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var events []model.Event
	for i := 0; i < 30; i++ {
		name := []string{"Bio", "Paper", "Glass"}[i%3]
		events = append(events, model.Event{Name: name, Start: base.AddDate(0, 0, (i*7)%31)})
	}

	table := GroupEvents(events, false, time.Time{})

	var in, out []string
	for _, ev := range events {
		in = append(in, ev.Name+"@"+ev.Start.Format(time.RFC3339))
	}
	for _, name := range table.Names() {
		dates := table.Dates(name)
		if len(dates) == 0 {
			t.Errorf("Name %q maps to an empty sequence", name)
		}
		for _, d := range dates {
			out = append(out, name+"@"+d.Format(time.RFC3339))
		}
	}
	sort.Strings(in)
	sort.Strings(out)
	if strings.Join(in, ",") != strings.Join(out, ",") {
		t.Errorf("Expected grouping to keep every (name, start) pair\nin:  %v\nout: %v", in, out)
	}
}

func TestGroupMalformed(t *testing.T) {
	_, err := Group([]byte(""), false)
	if !errors.Is(err, ics.ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}

	noStart := calendar("BEGIN:VEVENT\r\nUID:1\r\nSUMMARY:Bio\r\nEND:VEVENT\r\n")
	_, err = Group(noStart, false)
	if !errors.Is(err, ics.ErrParse) {
		t.Errorf("Expected ErrParse for event without DTSTART, got %v", err)
	}
}

func TestGroupWithExpand(t *testing.T) {
	body := calendar(
		"BEGIN:VEVENT\r\nUID:r1\r\nSUMMARY:Bio\r\nDTSTART:20240101T060000Z\r\nRRULE:FREQ=WEEKLY\r\nEND:VEVENT\r\n",
		vevent("s1", "Glass", "20240103T060000Z"),
	)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	table, err := GroupWith(body, GroupOptions{Now: now, Expand: true, HorizonDays: 21})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(table.Dates("Bio")); got != 3 {
		t.Errorf("Expected 3 weekly Bio dates within 21 days, got %d", got)
	}
	if got := len(table.Dates("Glass")); got != 1 {
		t.Errorf("Expected single Glass date, got %d", got)
	}

	plain, err := GroupWith(body, GroupOptions{Now: now})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := len(plain.Dates("Bio")); got != 1 {
		t.Errorf("Expected only DTSTART without expansion, got %d", got)
	}
}
