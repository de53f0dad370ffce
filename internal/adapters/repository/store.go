// Package repository holds the published scoreboard and swaps it atomically.
package repository

import (
	"context"
	"time"

	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/types"
)

// View is one published scoreboard: a snapshot plus the views derived from
// it. A View is never mutated after it is published.
type View struct {
	Snapshot   *model.Snapshot
	Totals     []types.CollegeTotal
	Posters    []string
	Categories []string
}

// Seq returns the refresh sequence the view was built from.
func (v *View) Seq() uint64 {
	if v == nil || v.Snapshot == nil {
		return 0
	}
	return v.Snapshot.Seq
}

// Empty is the view served before the first successful refresh.
func Empty() *View {
	return &View{
		Snapshot:   &model.Snapshot{Entries: []model.ScoreEntry{}, Colleges: []string{}},
		Totals:     []types.CollegeTotal{},
		Posters:    []string{},
		Categories: []string{},
	}
}

// Store provides the current view and accepts newer ones.
type Store interface {
	// Load returns the current view. It never returns nil.
	Load() *View

	// Publish replaces the current view if v was built from a newer refresh.
	// Returns ErrStaleSnapshot otherwise.
	Publish(ctx context.Context, v *View) error

	// PublishedAt returns when the current view was published, zero before
	// the first publish.
	PublishedAt() time.Time
}
