package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"railsetu/pkg/announcement"
	"railsetu/pkg/model"
	"railsetu/pkg/store"
)

// AnnouncementHandler handles announcement CRUD and publishing.
type AnnouncementHandler struct {
	svc   *announcement.Service
	store store.AnnouncementStore
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(svc *announcement.Service, st store.AnnouncementStore) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc, store: st}
}

// AnnouncementRequest is the create/update payload. Either details or
// text must be set.
type AnnouncementRequest struct {
	TrainNumber  string `json:"train_number,omitempty"`
	TrainName    string `json:"train_name,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Status       string `json:"status,omitempty"`
	DelayMinutes int    `json:"delay_minutes,omitempty"`
	Text         string `json:"text,omitempty"`
	Language     string `json:"language,omitempty"`
}

// AnnouncementDTO is the wire form of an announcement.
type AnnouncementDTO struct {
	ID          string            `json:"id"`
	TrainNumber string            `json:"train_number,omitempty"`
	TrainName   string            `json:"train_name,omitempty"`
	Platform    string            `json:"platform,omitempty"`
	Status      string            `json:"status,omitempty"`
	Texts       map[string]string `json:"texts"`
	AudioPaths  map[string]string `json:"audio_paths"`
	ISLVideo    string            `json:"isl_video,omitempty"`
	Published   bool              `json:"published"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toDTO(a *model.Announcement) AnnouncementDTO {
	dto := AnnouncementDTO{
		ID:          a.ID,
		TrainNumber: a.TrainNumber,
		TrainName:   a.TrainName,
		Platform:    a.Platform,
		Status:      string(a.Status),
		Texts:       make(map[string]string, len(a.Texts)),
		AudioPaths:  make(map[string]string, len(a.AudioPaths)),
		ISLVideo:    a.ISLVideo,
		Published:   a.Published,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
	for lang, text := range a.Texts {
		dto.Texts[string(lang)] = text
	}
	for lang, path := range a.AudioPaths {
		dto.AudioPaths[string(lang)] = path
	}
	return dto
}

func (r AnnouncementRequest) toCreateRequest() announcement.CreateRequest {
	req := announcement.CreateRequest{
		Text:     r.Text,
		Language: model.Language(r.Language),
	}
	if r.TrainNumber != "" {
		req.Details = &announcement.Details{
			TrainNumber:  r.TrainNumber,
			TrainName:    r.TrainName,
			Platform:     r.Platform,
			Status:       model.TrainStatus(r.Status),
			DelayMinutes: r.DelayMinutes,
		}
	}
	return req
}

// HandleList handles GET /api/announcements
func (h *AnnouncementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListAnnouncements(r.Context(), 100)
	if err != nil {
		slog.Error("Failed to list announcements", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list announcements")
		return
	}

	dtos := make([]AnnouncementDTO, 0, len(list))
	for _, a := range list {
		dtos = append(dtos, toDTO(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleGet handles GET /api/announcements/{id}
func (h *AnnouncementHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAnnouncement(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Failed to load announcement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load announcement")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(a))
}

// HandleCreate handles POST /api/announcements
func (h *AnnouncementHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.Create(r.Context(), req.toCreateRequest())
	if err != nil {
		slog.Error("Failed to create announcement", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toDTO(a))
}

// HandleUpdate handles PUT /api/announcements/{id}
func (h *AnnouncementHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.Update(r.Context(), r.PathValue("id"), req.toCreateRequest())
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if err != nil {
		slog.Error("Failed to update announcement", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDTO(a))
}

// HandleDelete handles DELETE /api/announcements/{id}
func (h *AnnouncementHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if err != nil {
		slog.Error("Failed to delete announcement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete announcement")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandlePublish handles POST /api/announcements/{id}/publish
func (h *AnnouncementHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Publish(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "announcement not found")
		return
	}
	if err != nil {
		slog.Error("Failed to publish announcement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to publish announcement")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(a))
}

// HandleCompose handles POST /api/announcements/compose. It previews the
// templated phrasing for the given details without persisting anything.
func (h *AnnouncementHandler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	var req AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := announcement.Details{
		TrainNumber:  req.TrainNumber,
		TrainName:    req.TrainName,
		Platform:     req.Platform,
		Status:       model.TrainStatus(req.Status),
		DelayMinutes: req.DelayMinutes,
	}
	texts, err := announcement.ComposeAll(d, model.SupportedLanguages())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := make(map[string]string, len(texts))
	for lang, text := range texts {
		out[string(lang)] = text
	}
	writeJSON(w, http.StatusOK, map[string]any{"texts": out})
}
