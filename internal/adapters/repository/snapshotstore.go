package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/okian/sheetboard/pkg/metrics"
)

type published struct {
	view *View
	at   time.Time
}

// SnapshotStore is an in-memory Store. Readers load a pointer and never
// block; publishers race on compare-and-swap and the highest seq wins.
type SnapshotStore struct {
	current atomic.Pointer[published]
}

// NewSnapshotStore creates a store serving the empty view.
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(&published{view: Empty()})
	return s
}

// Load implements Store.
func (s *SnapshotStore) Load() *View {
	return s.current.Load().view
}

// PublishedAt implements Store.
func (s *SnapshotStore) PublishedAt() time.Time {
	return s.current.Load().at
}

// Publish implements Store.
func (s *SnapshotStore) Publish(_ context.Context, v *View) error {
	if v == nil || v.Snapshot == nil {
		return ErrNilSnapshot
	}
	next := &published{view: v, at: time.Now()}
	for {
		cur := s.current.Load()
		if v.Seq() <= cur.view.Seq() {
			return ErrStaleSnapshot
		}
		if s.current.CompareAndSwap(cur, next) {
			break
		}
	}

	metrics.UpdateSnapshot(v.Seq(), len(v.Snapshot.Entries), len(v.Snapshot.Colleges), len(v.Posters), next.at)
	return nil
}
