package source

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/sheetboard/internal/domain/model"
)

// FormatHTML names the HTML table export.
const FormatHTML = "html"

// HTML reads the sheet through the gviz HTML table export.
type HTML struct {
	client
}

// NewHTML creates an HTML export client for the given sheet id.
func NewHTML(sheetID string, opts ...Option) *HTML {
	s := &settings{client: newClient(sheetID)}
	for _, opt := range opts {
		opt(s)
	}
	return &HTML{client: s.client}
}

// Format implements Source.
func (h *HTML) Format() string { return FormatHTML }

// Fetch implements Source.
func (h *HTML) Fetch(ctx context.Context) ([]model.Row, error) {
	body, err := h.get(ctx, FormatHTML, "html")
	if err != nil {
		return nil, err
	}
	return DecodeHTML(body)
}

// DecodeHTML reads the first table in body. Rows made only of <th> cells are
// column labels and are skipped. Blank cells decode to an empty Cell.
func DecodeHTML(body []byte) ([]model.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Reason: "invalid html", Err: err}
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &ParseError{Reason: "html export has no table"}
	}

	rows := []model.Row{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td, th")
		if cells.Length() == 0 || cells.Length() == tr.ChildrenFiltered("th").Length() {
			return
		}
		row := make(model.Row, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			text := strings.TrimSpace(strings.ReplaceAll(td.Text(), "\u00a0", " "))
			if text == "" {
				row = append(row, model.Cell{})
				return
			}
			row = append(row, model.Cell{Value: text})
		})
		rows = append(rows, row)
	})
	return rows, nil
}
