package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/nleeper/goment"
)

// tokenRE matches the supported date tokens. Longer tokens come first so
// that e.g. "DDDD" is not read as two "DD". Letters outside this set are
// copied as is.
var tokenRE = regexp.MustCompile(`\[[^\]]*\]|YYYY|YY|MMMM|MMM|MM|M|DDDD|DDD|DD|Do|D|dddd|ddd|d|HH|H|hh|h|mm|m|ss|s|S{1,6}|ZZZ|ZZ|Z|a|A|X|x|W`)

// momentTokens maps the tokens whose meaning differs from moment.js to the
// goment layout producing the same text.
var momentTokens = map[string]string{
	"d":   "E",            // ISO weekday, Monday=1 .. Sunday=7
	"W":   "GGGG-[W]WW-E", // ISO week date, e.g. 2024-W09-5
	"Z":   "ZZ",           // -0700
	"ZZ":  "Z",            // -07:00
	"ZZZ": "z",            // zone abbreviation
}

// FormatTime formats t with a token layout such as "YYYY-MM-DD" or
// "dddd, Do MMMM". Text in square brackets is copied without the brackets;
// everything that is not a token is copied as is. The time keeps its zone.
func FormatTime(t time.Time, layout string) string {
	// New only fails for unsupported argument types.
	g, _ := goment.New(t)
	return tokenRE.ReplaceAllStringFunc(layout, func(tok string) string {
		return formatToken(g, t, tok)
	})
}

func formatToken(g *goment.Goment, t time.Time, tok string) string {
	switch {
	case tok[0] == '[':
		return tok[1 : len(tok)-1]
	case tok[0] == 'S':
		return fraction(t, len(tok))
	case tok == "x":
		return strconv.FormatInt(t.UnixMicro(), 10)
	}
	if m, ok := momentTokens[tok]; ok {
		return g.Format(m)
	}
	return g.Format(tok)
}

// fraction returns the first n digits of the sub-second part.
func fraction(t time.Time, n int) string {
	frac := t.Nanosecond() / 1000
	for i := n; i < 6; i++ {
		frac /= 10
	}
	return fmt.Sprintf("%0*d", n, frac)
}
