package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"railsetu/pkg/announcement"
	"railsetu/pkg/media"
	"railsetu/pkg/model"
	"railsetu/pkg/store"
	"railsetu/pkg/tts"
)

// SynthHandler handles one-off synthesis and the custom audio library.
type SynthHandler struct {
	provider tts.Provider
	svc      *announcement.Service
	store    store.CustomAudioStore
	media    *media.Store
}

// NewSynthHandler creates a new SynthHandler.
func NewSynthHandler(p tts.Provider, svc *announcement.Service, st store.CustomAudioStore, assets *media.Store) *SynthHandler {
	return &SynthHandler{provider: p, svc: svc, store: st, media: assets}
}

// SynthRequest asks for audio of text in one language.
type SynthRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// CustomAudioRequest creates a library recording.
type CustomAudioRequest struct {
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// CustomAudioDTO is the wire form of a library recording.
type CustomAudioDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Language  string `json:"language"`
	Text      string `json:"text"`
	AudioPath string `json:"audio_path"`
	CreatedAt string `json:"created_at"`
}

func toCustomAudioDTO(c *model.CustomAudio) CustomAudioDTO {
	return CustomAudioDTO{
		ID:        c.ID,
		Title:     c.Title,
		Language:  string(c.Language),
		Text:      c.Text,
		AudioPath: c.AudioPath,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// HandleSynthesize handles POST /api/tts. The audio is written to the
// media store and returned by path; nothing is persisted in the database.
func (h *SynthHandler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	lang := model.Language(req.Language)
	if !lang.Valid() {
		writeError(w, http.StatusBadRequest, "unsupported language: "+req.Language)
		return
	}

	rel, abs := h.media.NewAudioPath("")
	format, err := h.provider.Synthesize(r.Context(), req.Text, lang, abs)
	if err != nil {
		slog.Error("Synthesis failed", "lang", lang, "error", err)
		writeError(w, http.StatusBadGateway, "synthesis failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"audio_path": rel + "." + format,
		"format":     format,
	})
}

// HandleVoices handles GET /api/tts/voices
func (h *SynthHandler) HandleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.provider.Voices(r.Context())
	if err != nil {
		slog.Error("Failed to list voices", "error", err)
		writeError(w, http.StatusBadGateway, "failed to list voices")
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

// HandleListCustom handles GET /api/audio/custom
func (h *SynthHandler) HandleListCustom(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListCustomAudio(r.Context())
	if err != nil {
		slog.Error("Failed to list custom audio", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list custom audio")
		return
	}
	dtos := make([]CustomAudioDTO, 0, len(list))
	for _, c := range list {
		dtos = append(dtos, toCustomAudioDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleCreateCustom handles POST /api/audio/custom
func (h *SynthHandler) HandleCreateCustom(w http.ResponseWriter, r *http.Request) {
	var req CustomAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ca, err := h.svc.CreateCustomAudio(r.Context(), req.Title, req.Text, model.Language(req.Language))
	if err != nil {
		slog.Error("Failed to create custom audio", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toCustomAudioDTO(ca))
}

// HandleDeleteCustom handles DELETE /api/audio/custom/{id}
func (h *SynthHandler) HandleDeleteCustom(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteCustomAudio(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "recording not found")
		return
	}
	if err != nil {
		slog.Error("Failed to delete custom audio", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete recording")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
