package api

import (
	"context"
	"net/http"
)

// GalleryDependencies defines the interface for poster and category lists.
type GalleryDependencies interface {
	GetPosterURLs(ctx context.Context) ([]string, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// GalleryHandler serves the poster gallery and the category selector.
type GalleryHandler struct {
	deps GalleryDependencies
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(deps GalleryDependencies) *GalleryHandler {
	return &GalleryHandler{deps: deps}
}

// HandleGetPosters handles GET /posters requests.
func (h *GalleryHandler) HandleGetPosters(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "api.get_posters", h.deps.GetPosterURLs)
}

// HandleGetCategories handles GET /categories requests.
func (h *GalleryHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, "api.get_categories", h.deps.GetCategories)
}

func (h *GalleryHandler) serveList(w http.ResponseWriter, r *http.Request, op string, get func(context.Context) ([]string, error)) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	list, err := get(r.Context())
	if err != nil {
		writeKindError(w, Wrap(op, err))
		return
	}
	if list == nil {
		list = []string{}
	}
	writeJSON(w, http.StatusOK, list)
}
