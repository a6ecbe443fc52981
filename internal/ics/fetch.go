package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	appLog "trashplan/internal/log"
)

// ErrFetch is returned (wrapped) for every way a download can fail:
// transport error, non-2xx status, a response that is not a calendar or an
// empty body.
var ErrFetch = errors.New("calendar download failed")

// Style selects how the location code is put on the request.
type Style string

const (
	// StylePage is the HTML page endpoint that returns the calendar when
	// called with lid=x<id>&loc=&ical=True.
	StylePage Style = "page"
	// StyleICS is the dedicated .ics endpoint taking position_nos=<id>.
	StyleICS Style = "ics"
)

const (
	DefaultPageURL = "https://www.stadtreinigung-leipzig.de/leistungen/abfallentsorgung/abfallkalender-entsorgungstermine.html"

	calendarMIME = "text/calendar"
)

// ParseStyle accepts "page" or "ics" (case-insensitive).
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StylePage:
		return StylePage, nil
	case StyleICS:
		return StyleICS, nil
	}
	return "", fmt.Errorf("unknown endpoint style %q", s)
}

// DefaultURL returns the built-in endpoint for the style. The .ics style is
// deployment specific and has none.
func (s Style) DefaultURL() string {
	if s == StyleICS {
		return ""
	}
	return DefaultPageURL
}

// Fetcher downloads the calendar for a location from a single endpoint.
type Fetcher struct {
	client   *http.Client
	endpoint string
	style    Style
}

// NewFetcher creates a Fetcher for endpoint. An empty endpoint selects the
// style's default URL. A nil client means http.DefaultClient.
func NewFetcher(client *http.Client, endpoint string, style Style) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if style == "" {
		style = StylePage
	}
	if endpoint == "" {
		endpoint = style.DefaultURL()
	}
	return &Fetcher{
		client:   client,
		endpoint: endpoint,
		style:    style,
	}
}

// RequestURL builds the GET URL for a location.
func (f *Fetcher) RequestURL(location string) (string, error) {
	if f.endpoint == "" {
		return "", fmt.Errorf("no endpoint configured for style %q", f.style)
	}
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", fmt.Errorf("endpoint %q: %w", f.endpoint, err)
	}
	q := u.Query()
	switch f.style {
	case StyleICS:
		q.Set("position_nos", location)
	default:
		q.Set("lid", locationID(location))
		q.Set("loc", "")
		q.Set("ical", "True")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch performs one GET for location and returns the calendar body.
// There is no retry; any failure wraps ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	reqURL, err := f.RequestURL(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", calendarMIME)

	appLog.Info("ics fetch start", "location", location, "url", redactURL(reqURL))

	resp, err := f.client.Do(req)
	if err != nil {
		// *url.Error repeats the full URL, query included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: GET %s: %w", ErrFetch, redactURL(reqURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(ct), calendarMIME) {
		return nil, fmt.Errorf("%w: unexpected content type %q", ErrFetch, ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrFetch)
	}

	appLog.Info("ics fetch success", "location", location, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

// locationID turns a bare numeric id into the x-prefixed form the page
// endpoint expects. Anything else is passed through.
func locationID(location string) string {
	if _, err := strconv.Atoi(location); err == nil {
		return "x" + location
	}
	return location
}

// redactURL hides the path and query of a URL for logging purposes.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "ics://...(redacted)"
	}
	return parsed.Scheme + "://" + parsed.Host + redactedSuffix
}
