// Package scheduler runs periodic refreshes on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Refresher performs one refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context) error

// Refresh implements Refresher.
func (f RefreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Scheduler fires a Refresher at a fixed interval. A tick that arrives
// while the previous refresh is still running is skipped.
type Scheduler struct {
	refresher  Refresher
	schedule   cron.Schedule
	name       string
	runOnStart bool

	running      atomic.Bool
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// New creates a scheduler that refreshes every interval. Intervals below a
// second are rounded up by cron; use WithSchedule for finer control.
func New(r Refresher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if r == nil {
		return nil, ErrNilRefresher
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	s := &Scheduler{
		refresher: r,
		schedule:  cron.Every(interval),
		name:      "scheduler",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    nil, // Falls back to the global logger after options
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	if s.name != "scheduler" {
		s.logger = s.logger.Named(s.name)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is canceled or Shutdown is
// called. It returns after any in-flight refresh has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cl := cronLogger{ctx: jobCtx, l: s.logger}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
		Then(cron.FuncJob(func() { s.tick(jobCtx) }))

	c := cron.New(cron.WithLogger(cl))
	c.Schedule(s.schedule, job)

	var wg sync.WaitGroup
	if s.runOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Run()
		}()
	}

	c.Start()
	s.logger.Info(ctx, "scheduler started", logger.Bool("runOnStart", s.runOnStart))

	select {
	case <-ctx.Done():
	case <-s.shutdown:
	}

	cancel()
	<-c.Stop().Done()
	wg.Wait()
	s.logger.Info(ctx, "scheduler stopped")
	return nil
}

// Shutdown stops the schedule and waits for Run to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
	if !s.running.Load() {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		metrics.RecordErrorByComponent("scheduler", "refresh_error")
		s.logger.Warn(ctx, "scheduled refresh failed", logger.Error(err))
	}
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	ctx context.Context //nolint:containedctx // cron.Logger has no context parameter
	l   logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(c.ctx, msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(c.ctx, msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
