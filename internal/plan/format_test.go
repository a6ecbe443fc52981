package plan

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 5, 9, 123456000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"YYYY-MM-DD", "2024-03-01"},
		{"DD.MM.YY", "01.03.24"},
		{"MMMM MMM M", "March Mar 3"},
		{"DDDD DDD", "061 61"},
		{"D Do", "1 1st"},
		{"dddd ddd d", "Friday Fri 5"},
		{"HH:mm:ss", "14:05:09"},
		{"H m s", "14 5 9"},
		{"h hh A a", "2 02 PM pm"},
		{"S SSS SSSSSS", "1 123 123456"},
		{"ZZ Z ZZZ", "+00:00 +0000 UTC"},
		{"X", "1709301909"},
		{"x", "1709301909123456"},
		{"W", "2024-W09-5"},
		{"[at] HH", "at 14"},
		{"", ""},
		{"-/., ", "-/., "},
	}

	for _, tt := range tests {
		got := FormatTime(ts, tt.layout)
		if got != tt.want {
			t.Errorf("FormatTime(%q): expected %q, got %q", tt.layout, tt.want, got)
		}
	}
}

func TestFormatTimeKeepsZone(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 1, 7, 0, 30, 0, 0, loc)

	if got := FormatTime(ts, "YYYY-MM-DD HH:mm ZZ"); got != "2024-01-07 00:30 +01:00" {
		t.Errorf("Expected event zone to be kept, got %q", got)
	}
	if got := FormatTime(ts, "d"); got != "7" {
		t.Errorf("Expected Sunday to be ISO weekday 7, got %q", got)
	}
}

func TestFormatTimeOrdinals(t *testing.T) {
	want := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}
	for day, w := range want {
		ts := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
		if got := FormatTime(ts, "Do"); got != w {
			t.Errorf("Do for day %d: expected %q, got %q", day, w, got)
		}
	}
}

func TestFormatTimeTwelveHourClock(t *testing.T) {
	cases := map[int]string{0: "12 am", 1: "1 am", 11: "11 am", 12: "12 pm", 13: "1 pm", 23: "11 pm"}
	for hour, want := range cases {
		ts := time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
		if got := FormatTime(ts, "h a"); got != want {
			t.Errorf("h a at %02d:00: expected %q, got %q", hour, want, got)
		}
	}
}

func TestFormatTimeISOWeekAcrossYears(t *testing.T) {
	// 2021-01-03 is a Sunday in ISO week 53 of 2020.
	ts := time.Date(2021, 1, 3, 12, 0, 0, 0, time.UTC)
	if got := FormatTime(ts, "W"); got != "2020-W53-7" {
		t.Errorf("Expected 2020-W53-7, got %q", got)
	}
}

func TestFormatTimeLeavesOtherLetters(t *testing.T) {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatTime(ts, "Q E LT"); got != "Q E LT" {
		t.Errorf("Expected unknown letters to be copied, got %q", got)
	}
}
