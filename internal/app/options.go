package service

import (
	"time"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/adapters/scheduler"
	"github.com/okian/sheetboard/internal/adapters/source"
	"github.com/okian/sheetboard/internal/domain/aggregate"
	"github.com/okian/sheetboard/internal/domain/normalize"
	"github.com/okian/sheetboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where rows are fetched from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithNormalizer sets the row normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithCollegeOrder overrides the layout's default column order.
func WithCollegeOrder(order aggregate.Order) Option {
	return func(s *Service) {
		if order != "" {
			s.order = order
			s.orderSet = true
		}
	}
}

// WithStore replaces the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRefreshInterval sets the period between scheduled refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithRefreshOnStart controls whether Start refreshes immediately.
func WithRefreshOnStart(enabled bool) Option {
	return func(s *Service) { s.refreshOnStart = enabled }
}

// WithSchedulerOptions passes extra options to the scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(s *Service) {
		s.schedulerOpts = append(s.schedulerOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
