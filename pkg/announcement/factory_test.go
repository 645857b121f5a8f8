package announcement

import (
	"context"
	"path/filepath"
	"testing"

	"railsetu/pkg/config"
	"railsetu/pkg/model"
	"railsetu/pkg/tts"
)

func TestNewTTSProviderUnknownEngine(t *testing.T) {
	_, err := NewTTSProvider(context.Background(), config.TTSConfig{Engine: "shout"}, nil, nil)
	if err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestNewTTSProviderGoogleNeedsKey(t *testing.T) {
	_, err := NewTTSProvider(context.Background(), config.TTSConfig{Engine: "google"}, nil, nil)
	if err == nil {
		t.Error("expected error without API key")
	}
}

func TestTTSEngineRuntimeSwitch(t *testing.T) {
	google := &fakeTTS{}
	espeak := &fakeTTS{}
	cfg := &fakeConfig{engine: "espeak"}
	sw := &engineSwitch{
		cfg:     cfg,
		engines: map[string]tts.Provider{"google": google, "espeak": espeak},
		def:     google,
	}

	dir := t.TempDir()
	synth := func(name string) {
		t.Helper()
		if _, err := sw.Synthesize(context.Background(), "platform two", model.LangEnglish, filepath.Join(dir, name)); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
	}

	// Dashboard override picks espeak over the startup default.
	synth("a")
	if espeak.calls != 1 || google.calls != 0 {
		t.Fatalf("override ignored: espeak=%d google=%d", espeak.calls, google.calls)
	}

	// Switching back takes effect on the very next call.
	cfg.engine = "google"
	synth("b")
	if google.calls != 1 {
		t.Fatalf("switch back ignored: google=%d", google.calls)
	}

	// An engine name with no built provider falls back to the default.
	cfg.engine = "shout"
	synth("c")
	if google.calls != 2 {
		t.Fatalf("unknown engine should use default: google=%d", google.calls)
	}
}

func TestNewTranslator(t *testing.T) {
	tr, err := NewTranslator(config.TranslateConfig{Provider: "mock"}, nil, nil)
	if err != nil {
		t.Fatalf("mock translator: %v", err)
	}
	if tr.Name() != "mock" {
		t.Errorf("Name() = %q", tr.Name())
	}

	if _, err := NewTranslator(config.TranslateConfig{Provider: "google"}, nil, nil); err == nil {
		t.Error("expected error for google without key")
	}
	if _, err := NewTranslator(config.TranslateConfig{Provider: "babelfish"}, nil, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
