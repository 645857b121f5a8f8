package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"railsetu/pkg/model"
	"railsetu/pkg/store"
)

// PlaylistHandler handles podcast playlist CRUD.
type PlaylistHandler struct {
	store store.PlaylistStore
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(st store.PlaylistStore) *PlaylistHandler {
	return &PlaylistHandler{store: st}
}

// PlaylistItemDTO is one entry of a playlist.
type PlaylistItemDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	MediaPath string `json:"media_path"`
}

// PlaylistRequest creates or replaces a playlist. Item order in the
// request is the playback order.
type PlaylistRequest struct {
	Name  string            `json:"name"`
	Items []PlaylistItemDTO `json:"items"`
}

// PlaylistDTO is the wire form of a playlist.
type PlaylistDTO struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Items     []PlaylistItemDTO `json:"items"`
	CreatedAt string            `json:"created_at"`
}

func toPlaylistDTO(p *model.Playlist) PlaylistDTO {
	dto := PlaylistDTO{
		ID:        p.ID,
		Name:      p.Name,
		Items:     make([]PlaylistItemDTO, 0, len(p.Items)),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range p.Items {
		dto.Items = append(dto.Items, PlaylistItemDTO{
			ID:        item.ID,
			Title:     item.Title,
			MediaPath: item.MediaPath,
		})
	}
	return dto
}

func (r PlaylistRequest) toModel(id string, createdAt time.Time) *model.Playlist {
	p := &model.Playlist{
		ID:        id,
		Name:      strings.TrimSpace(r.Name),
		CreatedAt: createdAt,
	}
	for i, item := range r.Items {
		itemID := item.ID
		if itemID == "" {
			itemID = uuid.NewString()
		}
		p.Items = append(p.Items, model.PlaylistItem{
			ID:        itemID,
			Position:  i,
			Title:     item.Title,
			MediaPath: item.MediaPath,
		})
	}
	return p
}

// HandleList handles GET /api/playlists
func (h *PlaylistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListPlaylists(r.Context())
	if err != nil {
		slog.Error("Failed to list playlists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}
	dtos := make([]PlaylistDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, toPlaylistDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleGet handles GET /api/playlists/{id}
func (h *PlaylistHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Failed to load playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTO(p))
}

// HandleCreate handles POST /api/playlists
func (h *PlaylistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p := req.toModel(uuid.NewString(), time.Now().UTC())
	if err := h.store.SavePlaylist(r.Context(), p); err != nil {
		slog.Error("Failed to save playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save playlist")
		return
	}
	writeJSON(w, http.StatusCreated, toPlaylistDTO(p))
}

// HandleUpdate handles PUT /api/playlists/{id}. The request replaces the
// whole playlist, including item order.
func (h *PlaylistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, err := h.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Failed to load playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = existing.Name
	}

	p := req.toModel(existing.ID, existing.CreatedAt)
	if err := h.store.SavePlaylist(r.Context(), p); err != nil {
		slog.Error("Failed to save playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save playlist")
		return
	}
	writeJSON(w, http.StatusOK, toPlaylistDTO(p))
}

// HandleDelete handles DELETE /api/playlists/{id}
func (h *PlaylistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.DeletePlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("Failed to delete playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
