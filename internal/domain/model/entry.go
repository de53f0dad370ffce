// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"
)

// ScoreEntry is one validated scoreboard record. College, Abbreviation, Event
// and Category are never empty.
type ScoreEntry struct {
	College      string `json:"college"`
	Abbreviation string `json:"abbreviation"`
	Event        string `json:"event"`
	Category     string `json:"category"`
	Points       int    `json:"points"`
	Poster       string `json:"poster,omitempty"` // URL or file id; "" means none
}

// Cell is a single spreadsheet value as decoded from the export: a string,
// a float64, a bool, or nil when the cell is empty.
type Cell struct {
	Value any
}

// Text renders the cell the way a spreadsheet would display a plain value.
// Missing cells render as "".
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Row is an ordered sequence of cells.
type Row []Cell

// At returns the cell at i, or an empty cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// RowWarning describes a raw row the normalizer dropped.
type RowWarning struct {
	Row    int               // 1-based index into the raw rows
	Reason string            // short, stable description
	Fields map[string]string // offending field values, for diagnosis
}

// Snapshot is the complete state published after a successful refresh.
// A Snapshot is never mutated once stored.
type Snapshot struct {
	Seq       uint64
	FetchedAt time.Time
	Entries   []ScoreEntry
	Colleges  []string // CollegeSet: matrix column order
	Warnings  []RowWarning
}
