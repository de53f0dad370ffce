package sheetstub

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
)

// gviz response framing.
const (
	GvizPrefix = "/*O_o*/\ngoogle.visualization.Query.setResponse("
	GvizSuffix = ");"
)

// Server serves a Sheet at /spreadsheets/d/{id}/gviz/tq.
type Server struct {
	mu       sync.RWMutex
	sheet    *Sheet
	layout   Layout
	failWith atomic.Int32
	requests atomic.Int64
}

// NewServer serves sheet in the given layout.
func NewServer(sheet *Sheet, layout Layout) *Server {
	return &Server{sheet: sheet, layout: layout}
}

// SetSheet replaces the served sheet.
func (s *Server) SetSheet(sheet *Sheet) {
	s.mu.Lock()
	s.sheet = sheet
	s.mu.Unlock()
}

// Sheet returns the served sheet.
func (s *Server) Sheet() *Sheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sheet
}

// FailWith makes every request answer with status until reset with 0.
func (s *Server) FailWith(status int) {
	s.failWith.Store(int32(status)) //nolint:gosec // HTTP status codes fit
}

// Requests returns how many requests were served.
func (s *Server) Requests() int64 { return s.requests.Load() }

// URLTemplate returns an export URL template rooted at base.
func URLTemplate(base string) string {
	return strings.TrimRight(base, "/") + "/spreadsheets/d/%s/gviz/tq?tqx=out:%s"
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	if !strings.HasPrefix(r.URL.Path, "/spreadsheets/d/") || !strings.HasSuffix(r.URL.Path, "/gviz/tq") {
		http.NotFound(w, r)
		return
	}
	if code := int(s.failWith.Load()); code != 0 {
		http.Error(w, http.StatusText(code), code)
		return
	}

	rows := s.Sheet().Rows(s.layout)
	switch r.URL.Query().Get("tqx") {
	case "out:html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(RenderHTML(rows)))
	default:
		body, err := RenderGviz(rows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(body)
	}
}

type gvizCell struct {
	V any `json:"v"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

// RenderGviz wraps rows in a gviz JSON response. Nil values become null cells.
func RenderGviz(rows [][]any) ([]byte, error) {
	out := struct {
		Version string `json:"version"`
		Status  string `json:"status"`
		Table   struct {
			Rows []gvizRow `json:"rows"`
		} `json:"table"`
	}{Version: "0.6", Status: "ok"}

	out.Table.Rows = make([]gvizRow, len(rows))
	for i, row := range rows {
		cells := make([]*gvizCell, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = &gvizCell{V: v}
			}
		}
		out.Table.Rows[i] = gvizRow{C: cells}
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding gviz payload: %w", err)
	}
	return []byte(GvizPrefix + string(payload) + GvizSuffix), nil
}

// RenderHTML renders rows as the gviz HTML table export.
func RenderHTML(rows [][]any) string {
	var b strings.Builder
	b.WriteString("<html><body><table border=\"1\" cellpadding=\"2\" cellspacing=\"0\">")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, v := range row {
			b.WriteString("<td>")
			if v != nil {
				b.WriteString(html.EscapeString(fmt.Sprint(v)))
			} else {
				b.WriteString("&nbsp;")
			}
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></body></html>")
	return b.String()
}
