// Package sheetstub generates tournament sheets and serves them the way the
// Google Sheets gviz endpoint does, for local runs and tests.
package sheetstub

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Layout names how a sheet is rendered into rows.
type Layout string

// Supported layouts.
const (
	Flat Layout = "flat"
	Wide Layout = "wide"
)

// Generator bounds.
const (
	maxPoints        = 10
	posterEveryNth   = 2
	wideLeadingCols  = 2
	driveFileLinkFmt = "https://drive.google.com/file/d/%s/view"
)

// College is one competing college.
type College struct {
	Name string
	Abbr string
}

// Event is one competition and the points each college scored in it,
// indexed like Sheet.Colleges.
type Event struct {
	Name     string
	Category string
	Poster   string
	Points   []int
}

// Sheet is a complete tournament.
type Sheet struct {
	Colleges []College
	Events   []Event
}

// Config controls Generate.
type Config struct {
	Colleges   int
	Events     int
	Categories []string
}

// DefaultCategories are used when Config.Categories is empty.
var DefaultCategories = []string{"Sports", "Music", "Literary"}

// Generate builds a sheet with random points. Every second event carries a
// Drive poster link with a fresh file id.
func Generate(cfg Config) *Sheet {
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}

	s := &Sheet{
		Colleges: make([]College, cfg.Colleges),
		Events:   make([]Event, cfg.Events),
	}
	for i := range s.Colleges {
		s.Colleges[i] = College{
			Name: fmt.Sprintf("College %d", i+1),
			Abbr: fmt.Sprintf("C%02d", i+1),
		}
	}
	for i := range s.Events {
		ev := Event{
			Name:     fmt.Sprintf("Event %d", i+1),
			Category: cats[i%len(cats)],
			Points:   make([]int, cfg.Colleges),
		}
		if i%posterEveryNth == 0 {
			ev.Poster = fmt.Sprintf(driveFileLinkFmt, strings.ReplaceAll(uuid.New().String(), "-", ""))
		}
		for j := range ev.Points {
			ev.Points[j] = randomPoints()
		}
		s.Events[i] = ev
	}
	return s
}

func randomPoints() int {
	n, err := rand.Int(rand.Reader, big.NewInt(maxPoints+1))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// Rows renders the sheet in the given layout. Values are strings, float64
// or nil, matching what the gviz decoder yields.
func (s *Sheet) Rows(layout Layout) [][]any {
	if layout == Wide {
		return s.wideRows()
	}
	return s.flatRows()
}

func (s *Sheet) flatRows() [][]any {
	rows := make([][]any, 0, len(s.Events)*len(s.Colleges))
	for _, ev := range s.Events {
		for j, c := range s.Colleges {
			rows = append(rows, []any{c.Name, c.Abbr, ev.Name, ev.Category, float64(ev.Points[j]), nullable(ev.Poster)})
		}
	}
	return rows
}

func (s *Sheet) wideRows() [][]any {
	width := wideLeadingCols + len(s.Colleges) + 1
	names := make([]any, width)
	abbrs := make([]any, width)
	for j, c := range s.Colleges {
		names[wideLeadingCols+j] = c.Name
		abbrs[wideLeadingCols+j] = c.Abbr
	}
	names[width-1] = "Poster"

	rows := [][]any{names, abbrs}
	for _, ev := range s.Events {
		row := make([]any, width)
		row[0], row[1] = ev.Name, ev.Category
		for j, p := range ev.Points {
			row[wideLeadingCols+j] = float64(p)
		}
		row[width-1] = nullable(ev.Poster)
		rows = append(rows, row)
	}
	return rows
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Totals returns the summed points per college name.
func (s *Sheet) Totals() map[string]int {
	out := make(map[string]int, len(s.Colleges))
	for _, ev := range s.Events {
		for j, p := range ev.Points {
			out[s.Colleges[j].Name] += p
		}
	}
	return out
}

// Posters returns the poster link of every event that has one, in event order.
func (s *Sheet) Posters() []string {
	var out []string
	for _, ev := range s.Events {
		if ev.Poster != "" {
			out = append(out, ev.Poster)
		}
	}
	return out
}
