// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and SHEETBOARD_ env vars.
// - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Source formats.
const (
	FormatGviz = "gviz"
	FormatHTML = "html"
)

// Row layouts.
const (
	LayoutFlat = "flat"
	LayoutWide = "wide"
)

// College column orderings. An empty value picks the layout default.
const (
	OrderFirstSeen     = "first_seen"
	OrderLexicographic = "lexicographic"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RefreshInterval is the period between scheduled refreshes.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	Source     Source     `koanf:"source"`
	Normalizer Normalizer `koanf:"normalizer"`
}

// Source describes where the spreadsheet export lives and how to read it.
type Source struct {
	// Format is gviz (JSON export) or html (HTML table export).
	Format string `koanf:"format"`

	// SheetID is the spreadsheet identifier substituted into URLTemplate.
	SheetID string `koanf:"sheet_id"`

	// SheetName optionally selects a tab by name.
	SheetName string `koanf:"sheet_name"`

	// URLTemplate takes the sheet id and the output kind ("json" or "html").
	URLTemplate string `koanf:"url_template"`

	// PrefixLen and SuffixLen are stripped from a gviz body before decoding.
	PrefixLen int `koanf:"prefix_len"`
	SuffixLen int `koanf:"suffix_len"`

	// Timeout bounds a single fetch.
	Timeout time.Duration `koanf:"timeout"`
}

// Normalizer selects the row layout and its column offsets.
type Normalizer struct {
	Layout string `koanf:"layout"`

	// CollegeOffset is the first college column in the wide layout.
	CollegeOffset int `koanf:"college_offset"`

	// PosterColumn is the poster column in the wide layout; -1 means the last
	// column of the header row.
	PosterColumn int `koanf:"poster_column"`

	// CollegeOrder is first_seen or lexicographic; empty picks the layout default.
	CollegeOrder string `koanf:"college_order"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		RefreshInterval: 60 * time.Second,
		Source: Source{
			Format:      FormatGviz,
			URLTemplate: "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:%s",
			PrefixLen:   47,
			SuffixLen:   2,
			Timeout:     15 * time.Second,
		},
		Normalizer: Normalizer{
			Layout:        LayoutFlat,
			CollegeOffset: 2,
			PosterColumn:  -1,
		},
	}
}

// EffectiveCollegeOrder resolves an empty CollegeOrder to the layout default:
// lexicographic for flat sheets, header order for wide ones.
func (n Normalizer) EffectiveCollegeOrder() string {
	if n.CollegeOrder != "" {
		return n.CollegeOrder
	}
	if n.Layout == LayoutWide {
		return OrderFirstSeen
	}
	return OrderLexicographic
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "addr must not be empty")
	}
	if c.RefreshInterval < time.Second {
		problems = append(problems, "refresh_interval must be at least 1s")
	}

	switch c.Source.Format {
	case FormatGviz, FormatHTML:
	default:
		problems = append(problems, fmt.Sprintf("unknown source.format %q", c.Source.Format))
	}
	if strings.TrimSpace(c.Source.SheetID) == "" {
		problems = append(problems, "source.sheet_id must not be empty")
	}
	if strings.Count(c.Source.URLTemplate, "%s") != 2 {
		problems = append(problems, "source.url_template must contain two %s verbs")
	}
	if c.Source.PrefixLen < 0 || c.Source.SuffixLen < 0 {
		problems = append(problems, "source.prefix_len and source.suffix_len must not be negative")
	}
	if c.Source.Timeout <= 0 {
		problems = append(problems, "source.timeout must be positive")
	}

	switch c.Normalizer.Layout {
	case LayoutFlat, LayoutWide:
	default:
		problems = append(problems, fmt.Sprintf("unknown normalizer.layout %q", c.Normalizer.Layout))
	}
	if c.Normalizer.CollegeOffset < 0 {
		problems = append(problems, "normalizer.college_offset must not be negative")
	}
	if c.Normalizer.PosterColumn < -1 {
		problems = append(problems, "normalizer.poster_column must be -1 or a column index")
	}
	switch c.Normalizer.CollegeOrder {
	case "", OrderFirstSeen, OrderLexicographic:
	default:
		problems = append(problems, fmt.Sprintf("unknown normalizer.college_order %q", c.Normalizer.CollegeOrder))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
