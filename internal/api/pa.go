package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"railsetu/pkg/audio"
	"railsetu/pkg/config"
	"railsetu/pkg/media"
	"railsetu/pkg/store"
)

// PAHandler handles station loudspeaker control endpoints.
type PAHandler struct {
	audio audio.Service
	media *media.Store
	store store.StateStore
}

// NewPAHandler creates a new PAHandler.
func NewPAHandler(audioMgr audio.Service, assets *media.Store, st store.StateStore) *PAHandler {
	return &PAHandler{audio: audioMgr, media: assets, store: st}
}

// PAControlRequest is a playback command. "play" takes a media path,
// "stop" halts playback and clears the queue.
type PAControlRequest struct {
	Action string `json:"action"` // "play", "stop"
	Path   string `json:"path,omitempty"`
}

// PAVolumeRequest represents a volume change request.
type PAVolumeRequest struct {
	Volume float64 `json:"volume"`
}

// PAStatusResponse represents the loudspeaker status.
type PAStatusResponse struct {
	IsPlaying   bool    `json:"is_playing"`
	IsBusy      bool    `json:"is_busy"`
	Volume      float64 `json:"volume"`
	PositionSec float64 `json:"position_sec"`
	DurationSec float64 `json:"duration_sec"`
}

// HandleControl handles POST /api/pa/control
func (h *PAHandler) HandleControl(w http.ResponseWriter, r *http.Request) {
	var req PAControlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var state string
	switch req.Action {
	case "play":
		abs, err := h.media.Resolve(req.Path)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid media path")
			return
		}
		if err := h.audio.Play(abs, nil); err != nil {
			slog.Error("PA playback failed", "path", req.Path, "error", err)
			writeError(w, http.StatusInternalServerError, "playback failed")
			return
		}
		state = "playing"
	case "stop":
		h.audio.Stop()
		state = "stopped"
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
		return
	}

	slog.Debug("PA control", "action", req.Action, "state", state)
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"state":  state,
	})
}

// HandleVolume handles POST /api/pa/volume
func (h *PAHandler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	var req PAVolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.audio.SetVolume(req.Volume)

	// Persist volume across restarts
	if h.store != nil {
		strVal := fmt.Sprintf("%.2f", req.Volume)
		if err := h.store.SetState(r.Context(), config.KeyVolume, strVal); err != nil {
			slog.Error("Failed to persist volume", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"volume": h.audio.Volume(),
	})
}

// HandleStatus handles GET /api/pa/status
func (h *PAHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PAStatusResponse{
		IsPlaying:   h.audio.IsPlaying(),
		IsBusy:      h.audio.IsBusy(),
		Volume:      h.audio.Volume(),
		PositionSec: h.audio.Position().Seconds(),
		DurationSec: h.audio.Duration().Seconds(),
	})
}
