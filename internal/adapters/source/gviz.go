package source

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/okian/sheetboard/internal/domain/model"
)

// Default framing of a gviz JSON response: the payload is wrapped in
// "/*O_o*/\ngoogle.visualization.Query.setResponse(" and ");".
const (
	DefaultPrefixLen = 47
	DefaultSuffixLen = 2
)

// FormatGviz names the gviz JSON export.
const FormatGviz = "gviz"

type gvizResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Reason          string `json:"reason"`
		Message         string `json:"message"`
		DetailedMessage string `json:"detailed_message"`
	} `json:"errors"`
	Table *struct {
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

// Gviz reads the sheet through the gviz JSON endpoint.
type Gviz struct {
	client
	prefixLen int
	suffixLen int
}

// NewGviz creates a gviz client for the given sheet id.
func NewGviz(sheetID string, opts ...Option) *Gviz {
	s := &settings{client: newClient(sheetID), prefixLen: DefaultPrefixLen, suffixLen: DefaultSuffixLen}
	for _, opt := range opts {
		opt(s)
	}
	return &Gviz{client: s.client, prefixLen: s.prefixLen, suffixLen: s.suffixLen}
}

// Format implements Source.
func (g *Gviz) Format() string { return FormatGviz }

// Fetch implements Source.
func (g *Gviz) Fetch(ctx context.Context) ([]model.Row, error) {
	body, err := g.get(ctx, FormatGviz, "json")
	if err != nil {
		return nil, err
	}
	return DecodeGviz(body, g.prefixLen, g.suffixLen)
}

// DecodeGviz strips the fixed framing from body and decodes the table rows.
// A null cell decodes to an empty Cell.
func DecodeGviz(body []byte, prefixLen, suffixLen int) ([]model.Row, error) {
	body = bytes.TrimRight(body, " \r\n\t")
	if len(body) < prefixLen+suffixLen {
		return nil, &ParseError{Reason: "body shorter than response framing"}
	}
	payload := body[prefixLen : len(body)-suffixLen]

	var resp gvizResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &ParseError{Reason: "invalid gviz payload", Err: err}
	}
	if resp.Status == "error" {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.DetailedMessage)
		}
		return nil, &ParseError{Reason: "gviz error: " + strings.Join(msgs, "; ")}
	}
	if resp.Table == nil {
		return nil, &ParseError{Reason: "gviz payload has no table"}
	}

	rows := make([]model.Row, 0, len(resp.Table.Rows))
	for _, r := range resp.Table.Rows {
		row := make(model.Row, len(r.C))
		for i, c := range r.C {
			if c != nil {
				row[i] = model.Cell{Value: c.V}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
