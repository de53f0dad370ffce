package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/sheetboard/internal/domain/types"
)

// MatrixDependencies defines the interface for scoreboard operations.
type MatrixDependencies interface {
	GetMatrix(ctx context.Context, category string) (Matrix, error)
}

// MatrixHandler handles scoreboard requests.
type MatrixHandler struct {
	deps MatrixDependencies
}

// NewMatrixHandler creates a new matrix handler.
func NewMatrixHandler(deps MatrixDependencies) *MatrixHandler {
	return &MatrixHandler{deps: deps}
}

// HandleGetMatrix handles GET /matrix?category=C requests.
func (h *MatrixHandler) HandleGetMatrix(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matrix"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeKindError(w, WrapKind(op, ErrBadRequest, errors.New("missing category")))
		return
	}
	m, err := h.deps.GetMatrix(r.Context(), category)
	if err != nil {
		if errors.Is(err, types.ErrEmptyCategory) {
			writeKindError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		writeKindError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}
