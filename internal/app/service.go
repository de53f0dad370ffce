// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/adapters/scheduler"
	"github.com/okian/sheetboard/internal/adapters/source"
	"github.com/okian/sheetboard/internal/domain/aggregate"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/normalize"
	"github.com/okian/sheetboard/internal/domain/poster"
	"github.com/okian/sheetboard/internal/domain/types"
	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Refresh triggers, used as a metric label.
const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
)

const (
	defaultRefreshInterval = 60 * time.Second
	stopTimeout            = 10 * time.Second
)

// Service owns the refresh pipeline and serves reads from the published
// snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     source.Source
	normalizer *normalize.Normalizer
	order      aggregate.Order
	orderSet   bool
	store      repository.Store
	scheduler  *scheduler.Scheduler
	schedDone  chan error

	// Configuration
	refreshInterval time.Duration
	refreshOnStart  bool
	schedulerOpts   []scheduler.Option

	// State
	started    bool
	refreshing atomic.Bool
	seq        atomic.Uint64
	lastFail   atomic.Pointer[failure]

	// Logging
	logger logger.Logger
}

type failure struct {
	err error
	at  time.Time
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewSnapshotStore(),
		refreshInterval: defaultRefreshInterval,
		refreshOnStart:  true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.normalizer == nil {
		s.normalizer, _ = normalize.New(normalize.Flat)
	}
	if !s.orderSet {
		s.order = DefaultOrder(s.normalizer.Layout())
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// DefaultOrder is the college column order used when none is configured:
// lexicographic for flat sheets, header order for wide ones.
func DefaultOrder(layout normalize.Layout) aggregate.Order {
	if layout == normalize.Wide {
		return aggregate.FirstSeen
	}
	return aggregate.Lexicographic
}

// Start begins scheduled refreshing.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting scoreboard service...")

	opts := append([]scheduler.Option{
		scheduler.WithLogger(s.logger.Named("scheduler")),
		scheduler.WithRunOnStart(s.refreshOnStart),
	}, s.schedulerOpts...)
	sched, err := scheduler.New(scheduler.RefreshFunc(s.ScheduledRefresh), s.refreshInterval, opts...)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	s.scheduler = sched
	s.schedDone = make(chan error, 1)
	go func() {
		// Stop ends the schedule, not the caller.
		s.schedDone <- sched.Run(context.WithoutCancel(ctx))
	}()

	s.started = true
	s.logger.Info(ctx, "scoreboard service started",
		logger.String("format", s.source.Format()),
		logger.String("layout", string(s.normalizer.Layout())),
		logger.String("collegeOrder", string(s.order)),
		logger.Duration("interval", s.refreshInterval),
	)
	return nil
}

// Stop gracefully shuts down the service, waiting for an in-flight refresh.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping scoreboard service...")
	if err := s.scheduler.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "scheduler shutdown failed", logger.Error(err))
	} else if err := <-s.schedDone; err != nil {
		s.logger.Warn(ctx, "scheduler exited with error", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "scoreboard service stopped")
}

// Refresh fetches, normalizes and publishes a new snapshot. It returns
// ErrRefreshInProgress if another refresh is running. On failure the
// published snapshot is left untouched.
func (s *Service) Refresh(ctx context.Context) error {
	return s.refresh(ctx, TriggerManual)
}

// ScheduledRefresh is Refresh for the scheduler: a collision with a manual
// refresh is not an error.
func (s *Service) ScheduledRefresh(ctx context.Context) error {
	err := s.refresh(ctx, TriggerSchedule)
	if errors.Is(err, ErrRefreshInProgress) {
		return nil
	}
	return err
}

func (s *Service) refresh(ctx context.Context, trigger string) error {
	if s.source == nil {
		return ErrNoSource
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		metrics.RecordRefresh(trigger, metrics.OutcomeSkipped)
		s.logger.Debug(ctx, "refresh skipped, another is in flight", logger.String("trigger", trigger))
		return ErrRefreshInProgress
	}
	defer s.refreshing.Store(false)

	start := time.Now()
	seq := s.seq.Add(1)
	defer func() {
		metrics.RecordRefreshLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.source.Fetch(ctx)
	if err != nil {
		s.fail(ctx, trigger, seq, err)
		return fmt.Errorf("refresh %d: %w", seq, err)
	}
	metrics.UpdateRowsFetched(len(rows))

	view := s.build(ctx, seq, rows)
	if err := s.store.Publish(ctx, view); err != nil {
		metrics.RecordRefresh(trigger, metrics.OutcomeStale)
		s.logger.Warn(ctx, "snapshot not published", logger.Uint64("seq", seq), logger.Error(err))
		return fmt.Errorf("refresh %d: %w", seq, err)
	}

	s.lastFail.Store(nil)
	metrics.RecordRefresh(trigger, metrics.OutcomeSuccess)
	s.logger.Info(ctx, "snapshot published",
		logger.Uint64("seq", seq),
		logger.String("trigger", trigger),
		logger.Int("rows", len(rows)),
		logger.Int("entries", len(view.Snapshot.Entries)),
		logger.Int("dropped", len(view.Snapshot.Warnings)),
		logger.Int("colleges", len(view.Snapshot.Colleges)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (s *Service) fail(ctx context.Context, trigger string, seq uint64, err error) {
	outcome, errType := metrics.OutcomeFetchError, "fetch_error"
	if errors.Is(err, source.ErrParse) {
		outcome, errType = metrics.OutcomeParseError, "parse_error"
	}
	metrics.RecordRefresh(trigger, outcome)
	metrics.RecordErrorByComponent("source", errType)
	metrics.RecordErrorByType(errType, "high")

	s.lastFail.Store(&failure{err: err, at: time.Now()})
	s.logger.Error(ctx, "refresh failed, keeping previous snapshot",
		logger.Uint64("seq", seq),
		logger.String("trigger", trigger),
		logger.Uint64("published", s.store.Load().Seq()),
		logger.Error(err),
	)
}

// build runs the pure part of the pipeline.
func (s *Service) build(ctx context.Context, seq uint64, rows []model.Row) *repository.View {
	res := s.normalizer.Normalize(rows)
	for _, w := range res.Warnings {
		s.logger.Warn(ctx, "row dropped",
			logger.Int("row", w.Row),
			logger.String("reason", w.Reason),
			logger.Any("fields", w.Fields),
		)
	}
	metrics.RecordRowsDropped(string(s.normalizer.Layout()), len(res.Warnings))

	snap := &model.Snapshot{
		Seq:       seq,
		FetchedAt: time.Now(),
		Entries:   res.Entries,
		Colleges:  aggregate.CollegeSet(res.Entries, s.order),
		Warnings:  res.Warnings,
	}
	return &repository.View{
		Snapshot:   snap,
		Totals:     aggregate.ComputeTotals(snap.Entries),
		Posters:    s.posters(res),
		Categories: aggregate.Categories(snap.Entries),
	}
}

// posters lists one image per flat entry and one per wide event row, which
// would otherwise repeat once per college column.
func (s *Service) posters(res normalize.Result) []string {
	if s.normalizer.Layout() == normalize.Wide {
		return poster.Resolve(res.Posters)
	}
	return poster.ExtractPosters(res.Entries)
}

// GetTotals returns the leaderboard of the current snapshot.
func (s *Service) GetTotals(_ context.Context) ([]types.CollegeTotal, error) {
	return s.store.Load().Totals, nil
}

// GetMatrix returns the scoreboard for one category of the current snapshot.
// An unknown category yields a matrix with no events.
func (s *Service) GetMatrix(_ context.Context, category string) (types.Matrix, error) {
	if strings.TrimSpace(category) == "" {
		return types.Matrix{}, ErrEmptyCategory
	}
	snap := s.store.Load().Snapshot
	return aggregate.ComputeMatrix(snap.Entries, snap.Colleges, category), nil
}

// GetPosterURLs returns the resolved poster URLs of the current snapshot.
func (s *Service) GetPosterURLs(_ context.Context) ([]string, error) {
	return s.store.Load().Posters, nil
}

// GetCategories returns the categories of the current snapshot.
func (s *Service) GetCategories(_ context.Context) ([]string, error) {
	return s.store.Load().Categories, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() *model.Snapshot {
	return s.store.Load().Snapshot
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := s.store.Load()
	stats := map[string]interface{}{
		"started":         s.started,
		"refreshing":      s.refreshing.Load(),
		"refreshInterval": s.refreshInterval.String(),
		"layout":          string(s.normalizer.Layout()),
		"collegeOrder":    string(s.order),
		"seq":             view.Seq(),
		"entries":         len(view.Snapshot.Entries),
		"colleges":        len(view.Snapshot.Colleges),
		"categories":      len(view.Categories),
		"posters":         len(view.Posters),
		"droppedRows":     len(view.Snapshot.Warnings),
	}
	if s.source != nil {
		stats["format"] = s.source.Format()
	}
	if at := s.store.PublishedAt(); !at.IsZero() {
		stats["lastRefresh"] = at.UTC().Format(time.RFC3339)
		stats["snapshotAgeSeconds"] = int64(time.Since(at).Seconds())
	}
	if f := s.lastFail.Load(); f != nil {
		stats["lastError"] = f.err.Error()
		stats["lastErrorAt"] = f.at.UTC().Format(time.RFC3339)
	}
	return stats
}
