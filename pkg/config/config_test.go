package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "railsetu.yaml")

	tests := []struct {
		name      string
		setup     func()
		validate  func(*testing.T, *Config)
		checkFile func(*testing.T)
	}{
		{
			name:  "NewFile_Defaults",
			setup: func() {}, // No file
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Engine != "google" {
					t.Errorf("expected default TTS engine 'google', got '%s'", cfg.TTS.Engine)
				}
				if cfg.ISL.Width != 640 || cfg.ISL.Height != 480 {
					t.Errorf("expected default ISL resolution 640x480, got %dx%d", cfg.ISL.Width, cfg.ISL.Height)
				}
				if cfg.TTS.Google.Voices["hi-IN"] != "hi-IN-Wavenet-A" {
					t.Errorf("expected default Hindi voice, got '%s'", cfg.TTS.Google.Voices["hi-IN"])
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "engine: google") {
					t.Error("config file missing default values")
				}
				if !strings.Contains(string(content), "dataset_dir:") {
					t.Error("config file missing dataset_dir default")
				}
			},
		},
		{
			name: "ExistingFile_Override",
			setup: func() {
				err := os.WriteFile(configPath, []byte("tts:\n  engine: espeak\nisl:\n  fps: 25\n"), 0o644)
				if err != nil {
					t.Fatalf("failed to setup test file: %v", err)
				}
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TTS.Engine != "espeak" {
					t.Errorf("expected TTS engine 'espeak', got '%s'", cfg.TTS.Engine)
				}
				if cfg.ISL.FPS != 25 {
					t.Errorf("expected ISL fps 25, got %d", cfg.ISL.FPS)
				}
				// Untouched sections keep defaults
				if cfg.Server.Address != "localhost:2340" {
					t.Errorf("expected default server address, got '%s'", cfg.Server.Address)
				}
			},
			checkFile: func(t *testing.T) {
				content, err := os.ReadFile(configPath)
				if err != nil {
					t.Fatalf("failed to read config file: %v", err)
				}
				if !strings.Contains(string(content), "engine: espeak") {
					t.Error("config file should persist custom value")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = os.Remove(configPath)
			tt.setup()

			cfg, err := Load(configPath)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			tt.validate(t, cfg)
			if tt.checkFile != nil {
				tt.checkFile(t)
			}
		})
	}
}

func TestApplyEnvFallbacks(t *testing.T) {
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "env-translate-key")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	cfg := DefaultConfig()
	cfg.TTS.Google.Key = "explicit-key"
	applyEnvFallbacks(cfg)

	if cfg.Translate.Key != "env-translate-key" {
		t.Errorf("expected translate key from env, got '%s'", cfg.Translate.Key)
	}
	if cfg.LLM.Key != "env-gemini-key" {
		t.Errorf("expected gemini key from env, got '%s'", cfg.LLM.Key)
	}
	if cfg.TTS.Google.Key != "explicit-key" {
		t.Error("explicit key must not be overwritten by env")
	}
}

func TestGenerateDefault_ExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "railsetu.yaml")

	if err := os.WriteFile(configPath, []byte("server:\n  address: localhost:9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := GenerateDefault(configPath); err != nil {
		t.Fatalf("GenerateDefault() error = %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "localhost:9999") {
		t.Error("GenerateDefault must not overwrite an existing file")
	}
}
