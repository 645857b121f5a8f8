package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"railsetu/pkg/announcement"
	"railsetu/pkg/isl"
)

// SignHandler handles sign-language playlist and video endpoints.
type SignHandler struct {
	svc     *announcement.Service
	dataset *isl.Dataset
}

// NewSignHandler creates a new SignHandler.
func NewSignHandler(svc *announcement.Service, dataset *isl.Dataset) *SignHandler {
	return &SignHandler{svc: svc, dataset: dataset}
}

// SignRequest asks for the sign rendering of text.
type SignRequest struct {
	Text string `json:"text"`
}

// HandlePlaylist handles POST /api/isl/playlist. It returns the ordered
// clip list so the dashboard can preview playback without stitching.
func (h *SignHandler) HandlePlaylist(w http.ResponseWriter, r *http.Request) {
	text, ok := h.signText(w, r)
	if !ok {
		return
	}

	playlist, err := h.svc.BuildPlaylist(text)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// HandleVideo handles POST /api/isl/video. The stitched video lands in
// the media store and is returned by path.
func (h *SignHandler) HandleVideo(w http.ResponseWriter, r *http.Request) {
	text, ok := h.signText(w, r)
	if !ok {
		return
	}

	path, unmatched, err := h.svc.BuildVideo(r.Context(), text)
	if err != nil {
		slog.Error("Sign video generation failed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     err.Error(),
			"unmatched": unmatched,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"video_path": path,
		"unmatched":  unmatched,
	})
}

// HandleWords handles GET /api/isl/words
func (h *SignHandler) HandleWords(w http.ResponseWriter, r *http.Request) {
	if h.dataset == nil {
		writeError(w, http.StatusServiceUnavailable, "sign dataset not loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": h.dataset.Size(),
		"words": h.dataset.Words(),
	})
}

func (h *SignHandler) signText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return "", false
	}
	return req.Text, true
}
