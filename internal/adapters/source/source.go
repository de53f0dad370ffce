// Package source fetches raw spreadsheet rows from a published Google Sheet.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Default source configuration constants.
const (
	DefaultURLTemplate = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:%s"
	defaultTimeout     = 15 * time.Second
	maxBodyBytes       = 10 << 20
	userAgent          = "sheetboard/1.0"
)

// Source returns the current rows of the sheet.
type Source interface {
	// Fetch performs one request. Errors match ErrFetch or ErrParse.
	Fetch(ctx context.Context) ([]model.Row, error)

	// Format names the wire format, for logs and metrics.
	Format() string
}

// client holds what every format needs to issue a GET.
type client struct {
	http        *http.Client
	urlTemplate string
	sheetID     string
	sheetName   string
	logger      logger.Logger
}

func newClient(sheetID string) client {
	return client{
		http:        &http.Client{Timeout: defaultTimeout},
		urlTemplate: DefaultURLTemplate,
		sheetID:     sheetID,
	}
}

// URL builds the export URL for the given output kind ("json" or "html").
func URL(template, sheetID, sheetName, out string) string {
	u := fmt.Sprintf(template, url.PathEscape(sheetID), out)
	if sheetName != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "sheet=" + url.QueryEscape(sheetName)
	}
	return u
}

// get issues the request and returns the body. Transport failures and
// non-2xx statuses become *FetchError.
func (c client) get(ctx context.Context, format, out string) ([]byte, error) {
	target := URL(c.urlTemplate, c.sheetID, c.sheetName, out)
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(format, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}
	metrics.RecordFetchBytes(len(body))

	if c.logger != nil {
		c.logger.Debug(ctx, "fetched sheet export",
			logger.String("url", target),
			logger.Int("bytes", len(body)),
			logger.Duration("elapsed", time.Since(start)),
		)
	}
	return body, nil
}
