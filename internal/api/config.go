package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"railsetu/pkg/config"
	"railsetu/pkg/model"
	"railsetu/pkg/store"
)

// ConfigHandler handles configuration API requests.
type ConfigHandler struct {
	store   store.StateStore
	cfgProv config.Provider
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(st store.StateStore, cfg config.Provider) *ConfigHandler {
	return &ConfigHandler{store: st, cfgProv: cfg}
}

// LanguageDTO describes one selectable announcement language.
type LanguageDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ConfigResponse represents the config API response.
type ConfigResponse struct {
	StationName        string        `json:"station_name"`
	TTSEngine          string        `json:"tts_engine"`
	PAEnabled          bool          `json:"pa_enabled"`
	PolishEnabled      bool          `json:"polish_enabled"`
	TargetLanguages    []string      `json:"target_languages"`
	AvailableLanguages []LanguageDTO `json:"available_languages"`
}

// ConfigRequest represents the config API request for updates.
type ConfigRequest struct {
	StationName     string   `json:"station_name,omitempty"`
	TTSEngine       string   `json:"tts_engine,omitempty"`
	PAEnabled       *bool    `json:"pa_enabled,omitempty"` // Pointer to detect false vs missing
	PolishEnabled   *bool    `json:"polish_enabled,omitempty"`
	TargetLanguages []string `json:"target_languages,omitempty"`
}

// HandleConfig handles GET and POST /api/config
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ConfigHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	targets := h.cfgProv.TargetLanguages(ctx)
	codes := make([]string, 0, len(targets))
	for _, lang := range targets {
		codes = append(codes, string(lang))
	}

	available := make([]LanguageDTO, 0, 4)
	for _, lang := range model.SupportedLanguages() {
		available = append(available, LanguageDTO{Code: string(lang), Name: lang.DisplayName()})
	}

	writeJSON(w, http.StatusOK, ConfigResponse{
		StationName:        h.cfgProv.StationName(ctx),
		TTSEngine:          h.cfgProv.TTSEngine(ctx),
		PAEnabled:          h.cfgProv.PAEnabled(ctx),
		PolishEnabled:      h.cfgProv.PolishEnabled(ctx),
		TargetLanguages:    codes,
		AvailableLanguages: available,
	})
}

func (h *ConfigHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req ConfigRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()

	if req.StationName != "" {
		h.setState(ctx, config.KeyStationName, strings.TrimSpace(req.StationName))
	}
	if req.TTSEngine != "" {
		if req.TTSEngine != "google" && req.TTSEngine != "espeak" {
			writeError(w, http.StatusBadRequest, "unknown TTS engine: "+req.TTSEngine)
			return
		}
		h.setState(ctx, config.KeyTTSEngine, req.TTSEngine)
	}
	if req.PAEnabled != nil {
		h.setState(ctx, config.KeyPAEnabled, fmt.Sprintf("%t", *req.PAEnabled))
	}
	if req.PolishEnabled != nil {
		h.setState(ctx, config.KeyPolishEnabled, fmt.Sprintf("%t", *req.PolishEnabled))
	}
	if req.TargetLanguages != nil {
		codes := make([]string, 0, len(req.TargetLanguages))
		for _, c := range req.TargetLanguages {
			if !model.Language(c).Valid() {
				writeError(w, http.StatusBadRequest, "unsupported language: "+c)
				return
			}
			codes = append(codes, c)
		}
		h.setState(ctx, config.KeyTargetLanguages, strings.Join(codes, ","))
	}

	h.handleGet(w, r)
}

func (h *ConfigHandler) setState(ctx context.Context, key, val string) {
	if err := h.store.SetState(ctx, key, val); err != nil {
		slog.Error("Failed to persist setting", "key", key, "error", err)
	}
}
