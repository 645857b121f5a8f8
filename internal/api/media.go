package api

import (
	"net/http"

	"railsetu/pkg/media"
)

// MediaHandler serves generated assets from the media store.
type MediaHandler struct {
	media *media.Store
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(assets *media.Store) *MediaHandler {
	return &MediaHandler{media: assets}
}

// HandleServe handles GET /api/media/{path...}. The store rejects paths
// that escape the media root.
func (h *MediaHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	abs, err := h.media.Resolve(r.PathValue("path"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media path")
		return
	}
	// ServeFile handles Range requests, which the dashboard's audio and
	// video players rely on for seeking.
	http.ServeFile(w, r, abs)
}
