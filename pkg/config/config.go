package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request   RequestConfig   `yaml:"request"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Media     MediaConfig     `yaml:"media"`
	ISL       ISLConfig       `yaml:"isl"`
	Translate TranslateConfig `yaml:"translate"`
	Speech    SpeechConfig    `yaml:"speech"`
	TTS       TTSConfig       `yaml:"tts"`
	LLM       LLMConfig       `yaml:"llm"`
	PA        PAConfig        `yaml:"pa"`
}

// RequestConfig holds HTTP request settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	TTS      LogSettings `yaml:"tts"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// MediaConfig holds generated-asset storage settings.
type MediaConfig struct {
	Root        string `yaml:"root"`          // base directory for generated audio/video
	MaxUploadMB int    `yaml:"max_upload_mb"` // upload size cap for speech endpoints
}

// ISLConfig holds sign-language dataset and stitching settings.
type ISLConfig struct {
	DatasetDir string `yaml:"dataset_dir"` // directory of per-word sign clips
	Width      int    `yaml:"width"`       // normalized clip width
	Height     int    `yaml:"height"`      // normalized clip height
	FPS        int    `yaml:"fps"`         // normalized clip framerate
	FFmpegPath string `yaml:"ffmpeg_path"`
	FFprobe    string `yaml:"ffprobe_path"`
}

// TranslateConfig holds translation provider settings.
type TranslateConfig struct {
	Provider string `yaml:"provider"` // "google", "mock"
	Key      string `yaml:"key"`
}

// WhisperConfig holds settings for the Whisper sidecar service.
type WhisperConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SpeechConfig holds speech recognition settings.
type SpeechConfig struct {
	Provider string        `yaml:"provider"` // "google", "whisper"
	Key      string        `yaml:"key"`
	Whisper  WhisperConfig `yaml:"whisper"`
}

// GoogleTTSConfig holds settings for Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	Key    string            `yaml:"key"`
	Voices map[string]string `yaml:"voices"` // locale -> voice name
}

// ESpeakConfig holds settings for the espeak-ng fallback engine.
type ESpeakConfig struct {
	Binary string `yaml:"binary"`
	Speed  int    `yaml:"speed"` // words per minute
	Pitch  int    `yaml:"pitch"` // 0..99
}

// TTSConfig holds Text-To-Speech settings.
type TTSConfig struct {
	Engine   string          `yaml:"engine"`   // primary engine
	Fallback string          `yaml:"fallback"` // engine to try after a fatal error, "" disables
	Google   GoogleTTSConfig `yaml:"google"`
	ESpeak   ESpeakConfig    `yaml:"espeak"`
}

// LLMConfig holds settings for the announcement polish / ISL gloss model.
type LLMConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	Key     string `yaml:"key"`
}

// PAConfig holds station loudspeaker playback settings.
type PAConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Retries: 5,
			Timeout: Duration(120 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(1 * time.Second),
				MaxDelay:  Duration(60 * time.Second),
			},
		},
		Server: ServerConfig{
			Address: "localhost:2340",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
			TTS: LogSettings{
				Path:  "./logs/tts.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/railsetu.db",
		},
		Media: MediaConfig{
			Root:        "./data/media",
			MaxUploadMB: 25,
		},
		ISL: ISLConfig{
			DatasetDir: "./data/isl_dataset",
			Width:      640,
			Height:     480,
			FPS:        30,
			FFmpegPath: "ffmpeg",
			FFprobe:    "ffprobe",
		},
		Translate: TranslateConfig{
			Provider: "google",
		},
		Speech: SpeechConfig{
			Provider: "whisper",
			Whisper: WhisperConfig{
				BaseURL: "http://localhost:8000",
			},
		},
		TTS: TTSConfig{
			Engine:   "google",
			Fallback: "espeak",
			Google: GoogleTTSConfig{
				Voices: map[string]string{
					"en-IN": "en-IN-Wavenet-D",
					"hi-IN": "hi-IN-Wavenet-A",
					"mr-IN": "mr-IN-Wavenet-A",
					"gu-IN": "gu-IN-Wavenet-A",
				},
			},
			ESpeak: ESpeakConfig{
				Binary: "espeak-ng",
				Speed:  150,
				Pitch:  50,
			},
		},
		LLM: LLMConfig{
			Enabled: false,
			Model:   "gemini-2.5-flash-lite",
		},
		PA: PAConfig{
			Enabled: false,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		applyEnvFallbacks(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnvFallbacks(cfg)
	return cfg, nil
}

// applyEnvFallbacks fills empty secrets from the environment. The keys are
// never written back to disk.
func applyEnvFallbacks(cfg *Config) {
	if cfg.Translate.Key == "" {
		cfg.Translate.Key = os.Getenv("GOOGLE_TRANSLATE_API_KEY")
	}
	if cfg.Speech.Key == "" {
		cfg.Speech.Key = os.Getenv("GOOGLE_SPEECH_API_KEY")
	}
	if cfg.TTS.Google.Key == "" {
		cfg.TTS.Google.Key = os.Getenv("GOOGLE_TTS_API_KEY")
	}
	if cfg.LLM.Key == "" {
		cfg.LLM.Key = os.Getenv("GEMINI_API_KEY")
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# RailSetu Configuration
# ---------------------
# Supported Duration units: ns, us (or µs), ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: google, espeak\n${1}engine:"))

	reSpeech := regexp.MustCompile(`(?m)^(\s+)provider: (whisper|google)$`)
	data = reSpeech.ReplaceAll(data, []byte("${1}# Options: google, whisper, mock\n${1}provider: ${2}"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
