package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/sheetboard/internal/domain/types"
)

// RefreshDependencies defines the interface for on-demand refreshes.
type RefreshDependencies interface {
	Refresh(ctx context.Context) error
}

// RefreshHandler handles on-demand refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status string `json:"status"`
}

// HandlePostRefresh handles POST /refresh requests. The refresh runs before
// the response is written; a failed fetch leaves the served data untouched.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	err := h.deps.Refresh(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, refreshResponse{Status: "refreshed"})
	case errors.Is(err, types.ErrRefreshInProgress):
		writeKindError(w, WrapKind(op, ErrConflict, err))
	case errors.Is(err, types.ErrSourceFetch), errors.Is(err, types.ErrSourceParse):
		writeKindError(w, WrapKind(op, ErrUpstream, err))
	default:
		writeKindError(w, Wrap(op, err))
	}
}
