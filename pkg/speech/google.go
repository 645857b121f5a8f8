package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	speechapi "google.golang.org/api/speech/v1"

	"railsetu/pkg/model"
)

// Google recognizes speech via the Cloud Speech-to-Text v1 REST API.
type Google struct {
	svc *speechapi.Service
}

// NewGoogle creates a Cloud Speech client.
func NewGoogle(ctx context.Context, key string) (*Google, error) {
	if key == "" {
		return nil, fmt.Errorf("no API key configured for Google Speech")
	}
	svc, err := speechapi.NewService(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech service: %w", err)
	}
	return &Google{svc: svc}, nil
}

// Name implements Recognizer.
func (g *Google) Name() string { return "google" }

// DetectLanguage implements Recognizer. Cloud Speech has no
// detection-only mode, so this transcribes and reports the language the
// API picked among the station languages.
func (g *Google) DetectLanguage(ctx context.Context, audioPath string) (*model.Transcript, error) {
	return g.Transcribe(ctx, audioPath)
}

// Transcribe implements Recognizer.
func (g *Google) Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	var alternatives []string
	for _, lang := range model.SupportedLanguages() {
		if lang != model.LangEnglish {
			alternatives = append(alternatives, string(lang))
		}
	}

	req := &speechapi.RecognizeRequest{
		Config: &speechapi.RecognitionConfig{
			LanguageCode:             string(model.LangEnglish),
			AlternativeLanguageCodes: alternatives,
		},
		Audio: &speechapi.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(data),
		},
	}

	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("speech recognition: %w", err)
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return nil, fmt.Errorf("speech recognition returned no result")
	}

	var sb strings.Builder
	var confidence float64
	lang := model.LangEnglish
	for i, r := range resp.Results {
		alt := r.Alternatives[0]
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(alt.Transcript)
		if i == 0 {
			confidence = alt.Confidence
			if l := model.Language(r.LanguageCode); l.Valid() {
				lang = l
			}
		}
	}

	return &model.Transcript{
		Language:     lang,
		LanguageName: lang.DisplayName(),
		Confidence:   confidence,
		Text:         sb.String(),
	}, nil
}
