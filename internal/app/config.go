package service

import (
	"fmt"

	"github.com/okian/sheetboard/internal/adapters/source"
	"github.com/okian/sheetboard/internal/config"
	"github.com/okian/sheetboard/internal/domain/aggregate"
	"github.com/okian/sheetboard/internal/domain/normalize"
	"github.com/okian/sheetboard/pkg/logger"
)

// NewSource builds the configured source adapter.
func NewSource(cfg config.Source, opts ...source.Option) (source.Source, error) {
	base := []source.Option{
		source.WithURLTemplate(cfg.URLTemplate),
		source.WithSheetName(cfg.SheetName),
		source.WithTimeout(cfg.Timeout),
		source.WithLogger(logger.Named("source")),
	}
	opts = append(base, opts...)

	switch cfg.Format {
	case config.FormatGviz, "":
		return source.NewGviz(cfg.SheetID, append(opts, source.WithFraming(cfg.PrefixLen, cfg.SuffixLen))...), nil
	case config.FormatHTML:
		return source.NewHTML(cfg.SheetID, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown source format %q", config.ErrInvalidConfig, cfg.Format)
	}
}

// NewFromConfig wires a Service from process configuration. Extra options
// are applied last.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	src, err := NewSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	n, err := normalize.New(normalize.Layout(cfg.Normalizer.Layout),
		normalize.WithCollegeOffset(cfg.Normalizer.CollegeOffset),
		normalize.WithPosterColumn(cfg.Normalizer.PosterColumn),
	)
	if err != nil {
		return nil, fmt.Errorf("creating normalizer: %w", err)
	}

	base := []Option{
		WithSource(src),
		WithNormalizer(n),
		WithCollegeOrder(aggregate.Order(cfg.Normalizer.EffectiveCollegeOrder())),
		WithRefreshInterval(cfg.RefreshInterval),
		WithLogger(logger.Named("service")),
	}
	return New(append(base, opts...)...), nil
}
