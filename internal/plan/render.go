package plan

import (
	"sort"
	"strings"
	"unicode"

	"trashplan/internal/model"
)

const DefaultDateFormat = "YYYY-MM-DD"

// Options controls Render. Indents are taken by absolute value.
type Options struct {
	DateFormat string
	HeadIndent int
	MainIndent int
}

// DefaultOptions matches the command-line defaults.
func DefaultOptions() Options {
	return Options{DateFormat: DefaultDateFormat, HeadIndent: 0, MainIndent: 4}
}

// Render prints one block per name, names sorted ascending:
//
//	<head indent>name
//	<main indent>date
//	...
//	(blank line)
//
// Trailing whitespace of the whole report is removed.
func Render(table *model.Table, opts Options) string {
	var b strings.Builder
	for _, l := range Lines(table, opts) {
		b.WriteString(formatLine(l, opts.DateFormat))
		b.WriteByte('\n')
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// Lines builds the report lines without formatting them. A blank Label
// separates groups.
func Lines(table *model.Table, opts Options) []model.Line {
	if table.Len() == 0 {
		return nil
	}

	names := table.Names()
	sort.Strings(names)

	headPad := abs(opts.HeadIndent)
	mainPad := abs(opts.MainIndent)

	var lines []model.Line
	for _, name := range names {
		lines = append(lines, model.Label{Pad: headPad, Text: name})
		for _, at := range table.Dates(name) {
			lines = append(lines, model.Stamp{Pad: mainPad, At: at})
		}
		lines = append(lines, model.Label{})
	}
	return lines
}

func formatLine(l model.Line, layout string) string {
	pad := strings.Repeat(" ", l.Indent())
	switch v := l.(type) {
	case model.Label:
		return pad + v.Text
	case model.Stamp:
		return pad + FormatTime(v.At, layout)
	default:
		panic("plan: unknown line type")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
