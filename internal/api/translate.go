package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"railsetu/pkg/model"
	"railsetu/pkg/translate"
)

// TranslateHandler handles ad-hoc translation requests.
type TranslateHandler struct {
	translator translate.Translator
}

// NewTranslateHandler creates a new TranslateHandler.
func NewTranslateHandler(tr translate.Translator) *TranslateHandler {
	return &TranslateHandler{translator: tr}
}

// TranslateRequest asks for text in one or more target locales. An empty
// target list means every supported locale.
type TranslateRequest struct {
	Text    string   `json:"text"`
	Source  string   `json:"source"`
	Targets []string `json:"targets,omitempty"`
}

// TranslateResponse maps locale to translated text. Locales that failed
// are listed in Missing.
type TranslateResponse struct {
	Translations map[string]string `json:"translations"`
	Missing      []string          `json:"missing,omitempty"`
}

// HandleTranslate handles POST /api/translate
func (h *TranslateHandler) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	source := model.Language(req.Source)
	if !source.Valid() {
		writeError(w, http.StatusBadRequest, "unsupported source language: "+req.Source)
		return
	}

	targets := model.SupportedLanguages()
	if len(req.Targets) > 0 {
		targets = make([]model.Language, 0, len(req.Targets))
		for _, t := range req.Targets {
			lang := model.Language(t)
			if !lang.Valid() {
				writeError(w, http.StatusBadRequest, "unsupported target language: "+t)
				return
			}
			targets = append(targets, lang)
		}
	}

	texts, err := translate.All(r.Context(), h.translator, req.Text, source, targets)
	if err != nil {
		slog.Warn("Translation completed partially", "error", err)
	}
	if len(texts) == 0 {
		writeError(w, http.StatusBadGateway, "translation failed for every target")
		return
	}

	resp := TranslateResponse{Translations: make(map[string]string, len(texts))}
	for lang, text := range texts {
		resp.Translations[string(lang)] = text
	}
	for _, lang := range targets {
		if _, ok := texts[lang]; !ok {
			resp.Missing = append(resp.Missing, string(lang))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
