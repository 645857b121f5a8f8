package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"railsetu/pkg/model"
	"railsetu/pkg/request"
)

// Whisper talks to the local Whisper sidecar service. The sidecar loads
// the model once at startup and exposes detection and transcription over
// HTTP; audio is referenced by server-local path, not uploaded.
type Whisper struct {
	client  *request.Client
	baseURL string
}

// NewWhisper creates a client for the Whisper sidecar.
func NewWhisper(client *request.Client, baseURL string) *Whisper {
	return &Whisper{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name implements Recognizer.
func (w *Whisper) Name() string { return "whisper" }

type whisperRequest struct {
	AudioPath string `json:"audio_path"`
}

type whisperResponse struct {
	Success          bool    `json:"success"`
	DetectedLanguage string  `json:"detected_language"`
	LanguageCode     string  `json:"language_code"`
	Confidence       float64 `json:"confidence"`
	Transcript       string  `json:"transcript"`
	Error            string  `json:"error"`
}

// DetectLanguage implements Recognizer.
func (w *Whisper) DetectLanguage(ctx context.Context, audioPath string) (*model.Transcript, error) {
	return w.post(ctx, "/detect-language", audioPath)
}

// Transcribe implements Recognizer.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error) {
	return w.post(ctx, "/transcribe", audioPath)
}

func (w *Whisper) post(ctx context.Context, endpoint, audioPath string) (*model.Transcript, error) {
	payload, err := json.Marshal(whisperRequest{AudioPath: audioPath})
	if err != nil {
		return nil, err
	}

	body, err := w.client.Post(ctx, w.baseURL+endpoint, payload, "application/json")
	if err != nil {
		return nil, fmt.Errorf("whisper sidecar: %w", err)
	}

	var resp whisperResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("whisper response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("whisper sidecar failed: %s", resp.Error)
	}

	lang := model.Language(resp.LanguageCode)
	if !lang.Valid() {
		// The sidecar maps unknown codes to en-IN itself, but be safe.
		lang = model.LangEnglish
	}

	return &model.Transcript{
		Language:     lang,
		LanguageName: resp.DetectedLanguage,
		Confidence:   resp.Confidence,
		Text:         resp.Transcript,
	}, nil
}

// Healthy reports whether the sidecar is up and has its model loaded.
func (w *Whisper) Healthy(ctx context.Context) bool {
	body, err := w.client.Get(ctx, w.baseURL+"/health", "")
	if err != nil {
		return false
	}
	var health struct {
		ModelLoaded bool `json:"model_loaded"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return false
	}
	return health.ModelLoaded
}
