// Package espeak implements speech synthesis via the local espeak-ng
// binary. It needs no network or API key, which makes it the fallback
// engine when the cloud service is unavailable.
package espeak

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"railsetu/pkg/config"
	"railsetu/pkg/model"
	"railsetu/pkg/tracker"
	"railsetu/pkg/tts"
)

// voiceFor maps a station locale to the espeak-ng voice identifier.
// espeak-ng ships voices keyed by base language only.
func voiceFor(lang model.Language) string {
	return lang.Base()
}

// Provider implements tts.Provider using the espeak-ng subprocess.
type Provider struct {
	binary  string
	speed   int
	pitch   int
	tracker *tracker.Tracker
}

// NewProvider creates an espeak-ng provider. It verifies the binary is
// reachable so misconfiguration surfaces at startup, not mid-announcement.
func NewProvider(cfg config.ESpeakConfig, t *tracker.Tracker) (*Provider, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = "espeak-ng"
	}
	if err := exec.Command(binary, "--version").Run(); err != nil {
		return nil, fmt.Errorf("%s is not installed or not in PATH: %w", binary, err)
	}

	speed := cfg.Speed
	if speed == 0 {
		speed = 150
	}
	pitch := cfg.Pitch
	if pitch == 0 {
		pitch = 50
	}

	return &Provider{binary: binary, speed: speed, pitch: pitch, tracker: t}, nil
}

// Synthesize generates a WAV file for the text using espeak-ng.
func (p *Provider) Synthesize(ctx context.Context, text string, lang model.Language, outputPath string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("text cannot be empty")
	}

	ext := "wav"
	filename := outputPath
	if filepath.Ext(filename) != "."+ext {
		filename = filename + "." + ext
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	args := []string{
		"-v", voiceFor(lang),
		"-s", strconv.Itoa(p.speed),
		"-p", strconv.Itoa(p.pitch),
		"-w", filename,
		text,
	}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		tts.Log("ESPEAK", text, 0, err)
		if p.tracker != nil {
			p.tracker.TrackAPIFailure("espeak")
		}
		return "", fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	tts.Log("ESPEAK", text, 200, nil)
	if p.tracker != nil {
		p.tracker.TrackAPISuccess("espeak")
	}
	return ext, nil
}

// Voices returns the espeak-ng voices for the station languages.
func (p *Provider) Voices(ctx context.Context) ([]tts.Voice, error) {
	voices := make([]tts.Voice, 0, len(model.SupportedLanguages()))
	for _, lang := range model.SupportedLanguages() {
		voices = append(voices, tts.Voice{
			ID:       voiceFor(lang),
			Name:     "espeak-ng " + voiceFor(lang),
			Language: string(lang),
			IsNeural: false,
		})
	}
	return voices, nil
}
