package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/okian/sheetboard/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithName sets the scheduler name used in logs.
func WithName(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSchedule replaces the interval schedule.
func WithSchedule(sched cron.Schedule) Option {
	return func(s *Scheduler) {
		if sched != nil {
			s.schedule = sched
		}
	}
}

// WithRunOnStart fires one refresh as soon as Run starts.
func WithRunOnStart(enabled bool) Option {
	return func(s *Scheduler) { s.runOnStart = enabled }
}
