package api

import (
	"context"
	"net/http"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	GetTotals(ctx context.Context) ([]CollegeTotal, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetTotals handles GET /totals requests.
func (h *LeaderboardHandler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_totals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	totals, err := h.deps.GetTotals(r.Context())
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	if totals == nil {
		totals = []CollegeTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}
