package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"railsetu/pkg/media"
	"railsetu/pkg/model"
	"railsetu/pkg/speech"
)

// SpeechHandler handles recorded-announcement recognition. Audio is
// uploaded once and then referenced by media path, matching how the
// recognition backends read files from local disk.
type SpeechHandler struct {
	recognizer  speech.Recognizer
	media       *media.Store
	maxUploadMB int
}

// NewSpeechHandler creates a new SpeechHandler.
func NewSpeechHandler(rec speech.Recognizer, assets *media.Store, maxUploadMB int) *SpeechHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &SpeechHandler{recognizer: rec, media: assets, maxUploadMB: maxUploadMB}
}

// SpeechRequest references previously uploaded audio by media path.
type SpeechRequest struct {
	AudioPath string `json:"audio_path"`
}

// TranscriptDTO is the wire form of a recognition result.
type TranscriptDTO struct {
	Language     string  `json:"language"`
	LanguageName string  `json:"language_name"`
	Confidence   float64 `json:"confidence"`
	Transcript   string  `json:"transcript,omitempty"`
}

// HandleUpload handles POST /api/speech/upload. It accepts one multipart
// file field named "audio" and returns the media path for later requests.
func (h *SpeechHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxUploadMB)<<20)
	if err := r.ParseMultipartForm(int64(h.maxUploadMB) << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		ext = "wav"
	}
	rel, abs := h.media.NewUploadPath(ext)

	dst, err := os.Create(abs)
	if err != nil {
		slog.Error("Failed to create upload file", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("Failed to write upload file", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"audio_path": rel})
}

// HandleDetectLanguage handles POST /api/speech/detect-language
func (h *SpeechHandler) HandleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	h.recognize(w, r, h.recognizer.DetectLanguage)
}

// HandleTranscribe handles POST /api/speech/transcribe
func (h *SpeechHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	h.recognize(w, r, h.recognizer.Transcribe)
}

func (h *SpeechHandler) recognize(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, path string) (*model.Transcript, error)) {
	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	abs, err := h.media.Resolve(req.AudioPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid audio path")
		return
	}
	if _, err := os.Stat(abs); err != nil {
		writeError(w, http.StatusNotFound, "audio file not found")
		return
	}

	t, err := fn(r.Context(), abs)
	if err != nil {
		slog.Error("Recognition failed", "provider", h.recognizer.Name(), "error", err)
		writeError(w, http.StatusBadGateway, "recognition failed")
		return
	}

	writeJSON(w, http.StatusOK, TranscriptDTO{
		Language:     string(t.Language),
		LanguageName: t.LanguageName,
		Confidence:   t.Confidence,
		Transcript:   t.Text,
	})
}
