package source

import (
	"net/http"
	"time"

	"github.com/okian/sheetboard/pkg/logger"
)

// settings collects option values before a client is built.
type settings struct {
	client
	prefixLen int
	suffixLen int
}

// Option configures a Source.
type Option func(*settings)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		if c != nil {
			s.http = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.http = &http.Client{Timeout: d, Transport: s.http.Transport}
		}
	}
}

// WithURLTemplate sets the export URL template. It takes the sheet id and
// the output kind, in that order.
func WithURLTemplate(tpl string) Option {
	return func(s *settings) {
		if tpl != "" {
			s.urlTemplate = tpl
		}
	}
}

// WithSheetName selects a tab by name.
func WithSheetName(name string) Option {
	return func(s *settings) { s.sheetName = name }
}

// WithFraming sets how many bytes of gviz framing to strip from each end.
func WithFraming(prefixLen, suffixLen int) Option {
	return func(s *settings) {
		if prefixLen >= 0 {
			s.prefixLen = prefixLen
		}
		if suffixLen >= 0 {
			s.suffixLen = suffixLen
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}
