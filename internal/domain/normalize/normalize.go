// Package normalize turns raw spreadsheet rows into canonical score entries.
//
// Two physical layouts are understood. The caller picks one; rows are never
// inspected to guess the layout.
//
// Flat: one entry per row, fixed columns
//
//	college | abbreviation | event | category | points | poster
//
// Wide: colleges are columns.
//
//	row 1: _     | _        | College A | College B | ... | poster header
//	row 2: _     | _        | A         | B         | ... |
//	row 3: event | category | points    | points    | ... | poster
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/sheetboard/internal/domain/model"
)

// Layout selects how raw rows map to entries.
type Layout string

// Supported layouts.
const (
	Flat Layout = "flat"
	Wide Layout = "wide"
)

// Flat layout column positions.
const (
	flatCollege = iota
	flatAbbreviation
	flatEvent
	flatCategory
	flatPoints
	flatPoster
)

// Wide layout fixed positions.
const (
	wideNameRow     = 0
	wideAbbrRow     = 1
	wideFirstEvent  = 2
	wideEventCol    = 0
	wideCategoryCol = 1

	defaultCollegeOffset = 2
	lastColumn           = -1
)

// Result is the output of one normalization pass.
type Result struct {
	Entries  []model.ScoreEntry
	Warnings []model.RowWarning

	// Posters holds the raw poster reference of every accepted source row
	// that has one, in row order. A wide row contributes once however many
	// entries it expands into.
	Posters []string
}

// Normalizer converts raw rows of one layout. It holds no state between calls.
type Normalizer struct {
	layout        Layout
	collegeOffset int
	posterColumn  int
}

// New returns a Normalizer for layout.
func New(layout Layout, opts ...Option) (*Normalizer, error) {
	switch layout {
	case Flat, Wide:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}

	n := &Normalizer{
		layout:        layout,
		collegeOffset: defaultCollegeOffset,
		posterColumn:  lastColumn,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Layout reports the layout this normalizer reads.
func (n *Normalizer) Layout() Layout { return n.layout }

// Normalize converts rows into entries. Invalid rows are dropped and
// described in Result.Warnings; they never fail the batch.
func (n *Normalizer) Normalize(rows []model.Row) Result {
	if n.layout == Wide {
		return n.normalizeWide(rows)
	}
	return n.normalizeFlat(rows)
}

func (n *Normalizer) normalizeFlat(rows []model.Row) Result {
	res := Result{Entries: make([]model.ScoreEntry, 0, len(rows))}

	for i, row := range rows {
		e := model.ScoreEntry{
			College:      text(row.At(flatCollege)),
			Abbreviation: text(row.At(flatAbbreviation)),
			Event:        text(row.At(flatEvent)),
			Category:     text(row.At(flatCategory)),
			Points:       Points(row.At(flatPoints)),
			Poster:       text(row.At(flatPoster)),
		}
		if e.College == "" || e.Abbreviation == "" || e.Event == "" || e.Category == "" {
			res.Warnings = append(res.Warnings, model.RowWarning{
				Row:    i + 1,
				Reason: "missing required field",
				Fields: map[string]string{
					"college":      e.College,
					"abbreviation": e.Abbreviation,
					"event":        e.Event,
					"category":     e.Category,
				},
			})
			continue
		}
		res.Entries = append(res.Entries, e)
		if e.Poster != "" {
			res.Posters = append(res.Posters, e.Poster)
		}
	}
	return res
}

// college is one known college column of a wide sheet.
type college struct {
	col          int
	name         string
	abbreviation string
}

func (n *Normalizer) normalizeWide(rows []model.Row) Result {
	var res Result

	if len(rows) <= wideAbbrRow {
		res.Warnings = append(res.Warnings, model.RowWarning{
			Row:    len(rows) + 1,
			Reason: "missing header rows",
			Fields: map[string]string{"rows": strconv.Itoa(len(rows))},
		})
		return res
	}

	names, abbrs := rows[wideNameRow], rows[wideAbbrRow]
	width := max(len(names), len(abbrs))
	posterCol := n.posterColumn
	if posterCol == lastColumn {
		posterCol = len(names) - 1
	}

	var colleges []college
	for j := n.collegeOffset; j < width; j++ {
		if j == posterCol {
			continue
		}
		c := college{col: j, name: text(names.At(j)), abbreviation: text(abbrs.At(j))}
		switch {
		case c.name != "" && c.abbreviation != "":
			colleges = append(colleges, c)
		case c.name != "" || c.abbreviation != "":
			res.Warnings = append(res.Warnings, model.RowWarning{
				Row:    wideAbbrRow + 1,
				Reason: "incomplete college header",
				Fields: map[string]string{
					"column":       strconv.Itoa(j + 1),
					"college":      c.name,
					"abbreviation": c.abbreviation,
				},
			})
		}
	}

	if len(rows) > wideFirstEvent {
		res.Entries = make([]model.ScoreEntry, 0, (len(rows)-wideFirstEvent)*len(colleges))
	}
	for i := wideFirstEvent; i < len(rows); i++ {
		row := rows[i]
		event := text(row.At(wideEventCol))
		category := text(row.At(wideCategoryCol))
		if event == "" || category == "" {
			res.Warnings = append(res.Warnings, model.RowWarning{
				Row:    i + 1,
				Reason: "missing event or category",
				Fields: map[string]string{"event": event, "category": category},
			})
			continue
		}

		poster := ""
		if posterCol >= 0 {
			poster = text(row.At(posterCol))
		}
		if poster != "" {
			res.Posters = append(res.Posters, poster)
		}
		for _, c := range colleges {
			res.Entries = append(res.Entries, model.ScoreEntry{
				College:      c.name,
				Abbreviation: c.abbreviation,
				Event:        event,
				Category:     category,
				Points:       Points(row.At(c.col)),
				Poster:       poster,
			})
		}
	}
	return res
}

func text(c model.Cell) string {
	return strings.TrimSpace(c.Text())
}

// Points coerces a cell to an integer score. Numbers are truncated toward
// zero, strings contribute their leading signed digits ("12 pts" is 12), and
// anything else, including an empty cell, is 0.
func Points(c model.Cell) int {
	switch v := c.Value.(type) {
	case float64:
		if math.IsNaN(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
			return 0
		}
		return int(v)
	case int:
		return v
	case string:
		return leadingInt(v)
	default:
		return 0
	}
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
