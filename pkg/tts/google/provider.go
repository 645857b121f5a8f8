// Package google implements speech synthesis via the Google Cloud
// Text-to-Speech API.
package google

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"

	"railsetu/pkg/config"
	"railsetu/pkg/model"
	"railsetu/pkg/tracker"
	"railsetu/pkg/tts"
)

// Provider implements tts.Provider for Google Cloud Text-to-Speech.
type Provider struct {
	svc     *texttospeech.Service
	voices  map[string]string // locale -> voice name
	tracker *tracker.Tracker
}

// NewProvider creates a Google Cloud TTS provider.
func NewProvider(ctx context.Context, cfg config.GoogleTTSConfig, t *tracker.Tracker) (*Provider, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("no API key configured for Google TTS")
	}
	svc, err := texttospeech.NewService(ctx, option.WithAPIKey(cfg.Key))
	if err != nil {
		return nil, fmt.Errorf("failed to create texttospeech service: %w", err)
	}
	return &Provider{svc: svc, voices: cfg.Voices, tracker: t}, nil
}

// Synthesize generates speech for text in the given language.
func (p *Provider) Synthesize(ctx context.Context, text string, lang model.Language, outputPath string) (string, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: string(lang),
			Name:         p.voices[string(lang)],
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: "MP3"},
	}

	resp, err := p.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		if p.tracker != nil {
			p.tracker.TrackAPIFailure("tts")
		}
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			tts.Log("GOOGLE", text, gErr.Code, nil)
			// Trigger fallback on quota, auth, and server errors.
			return "", tts.NewFatalError(gErr.Code, fmt.Sprintf("google tts api error (status %d): %s", gErr.Code, gErr.Message))
		}
		tts.Log("GOOGLE", text, 0, err)
		return "", fmt.Errorf("api request failed: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio content: %w", err)
	}

	tts.Log("GOOGLE", text, 200, nil)

	ext := "mp3"
	filename := outputPath
	if filepath.Ext(filename) != "."+ext {
		filename = filename + "." + ext
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filename, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio to file: %w", err)
	}

	if p.tracker != nil {
		p.tracker.TrackAPISuccess("tts")
		p.tracker.TrackChars("tts", len(text))
	}

	return ext, nil
}

// Voices returns the Indian-locale voices the API offers.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	var out []tts.Voice
	for _, lang := range model.SupportedLanguages() {
		resp, err := p.svc.Voices.List().LanguageCode(string(lang)).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list voices for %s: %w", lang, err)
		}
		for _, v := range resp.Voices {
			out = append(out, tts.Voice{
				ID:       v.Name,
				Name:     v.Name,
				Language: string(lang),
				IsNeural: strings.Contains(v.Name, "Wavenet") || strings.Contains(v.Name, "Neural"),
			})
		}
	}
	return out, nil
}
