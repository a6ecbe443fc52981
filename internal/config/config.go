package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"trashplan/internal/ics"
)

// Valid range for numeric location ids.
const (
	MinLocation = 10000
	MaxLocation = 999999
)

// Config is the effective configuration of a trashplan run. Every field can
// come from the YAML file, the environment or a flag, in increasing priority.
type Config struct {
	// Location is the location id selecting the collection schedule.
	Location string `yaml:"location"`

	// Endpoint overrides the calendar URL. Empty means the built-in URL of
	// EndpointStyle.
	Endpoint string `yaml:"endpoint"`

	// EndpointStyle is "page" (lid/loc/ical query) or "ics" (position_nos).
	EndpointStyle string `yaml:"endpoint_style"`

	// DateFormat is a token layout, e.g. "YYYY-MM-DD" or "dd, D. MMM".
	DateFormat string `yaml:"date_format"`

	HeadIndent int `yaml:"head_indent"`
	MainIndent int `yaml:"main_indent"`

	// OnlyFuture drops dates that are not after the time of the run.
	OnlyFuture bool `yaml:"only_future"`

	// Expand turns RRULE events into their occurrences, up to HorizonDays
	// from now.
	Expand      bool `yaml:"expand"`
	HorizonDays int  `yaml:"horizon_days"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		EndpointStyle: string(ics.StylePage),
		DateFormat:    "YYYY-MM-DD",
		HeadIndent:    0,
		MainIndent:    4,
		HorizonDays:   365,
	}
}

// Normalize fills in values that a partial file leaves empty.
func (c *Config) Normalize() {
	c.Location = strings.TrimSpace(c.Location)
	if c.EndpointStyle == "" {
		c.EndpointStyle = string(ics.StylePage)
	}
	if c.DateFormat == "" {
		c.DateFormat = "YYYY-MM-DD"
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 365
	}
}

// Load reads a YAML config from path on top of DefaultConfig. An empty path
// returns the defaults; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Validate checks the location id and the endpoint settings.
func (c *Config) Validate() error {
	if c.Location == "" {
		return errors.New("location is required")
	}
	if err := ValidateLocation(c.Location); err != nil {
		return err
	}

	style, err := ics.ParseStyle(c.EndpointStyle)
	if err != nil {
		return err
	}
	if c.Endpoint == "" && style.DefaultURL() == "" {
		return fmt.Errorf("endpoint style %q needs an explicit endpoint", style)
	}
	return nil
}

// ValidateLocation checks that s is a number in [MinLocation, MaxLocation].
func ValidateLocation(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("location %q is not a number", s)
	}
	return ValidateLocationID(n)
}

// ValidateLocationID checks the numeric range of a location id.
func ValidateLocationID(n int) error {
	if n < MinLocation || n > MaxLocation {
		return fmt.Errorf("location %d out of range [%d, %d]", n, MinLocation, MaxLocation)
	}
	return nil
}

// Style returns the parsed endpoint style. Call Validate first.
func (c *Config) Style() ics.Style {
	s, err := ics.ParseStyle(c.EndpointStyle)
	if err != nil {
		return ics.StylePage
	}
	return s
}
