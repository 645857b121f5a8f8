package announcement

import (
	"context"
	"fmt"
	"log/slog"

	"railsetu/pkg/config"
	"railsetu/pkg/model"
	"railsetu/pkg/request"
	"railsetu/pkg/tracker"
	"railsetu/pkg/translate"
	"railsetu/pkg/tts"
	"railsetu/pkg/tts/espeak"
	"railsetu/pkg/tts/google"
)

// ttsEngines are the engine names accepted in config and on the dashboard.
var ttsEngines = []string{"google", "espeak"}

// NewTTSProvider builds the synthesis engine named by cfg.Engine and, when
// cfg.Fallback names a second engine, wraps the pair in a sticky failover.
// When prov is non-nil the dashboard's engine override is consulted on
// every call, so switching engines at runtime takes effect on the next
// announcement rather than the next restart. Engines that fail to build
// (missing key, missing binary) stay off the switch and the configured
// default covers for them.
func NewTTSProvider(ctx context.Context, cfg config.TTSConfig, t *tracker.Tracker, prov config.Provider) (tts.Provider, error) {
	primary, err := newEngine(ctx, cfg, cfg.Engine, t)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback != "" && cfg.Fallback != cfg.Engine {
		fallback, err := newEngine(ctx, cfg, cfg.Fallback, t)
		if err != nil {
			return nil, fmt.Errorf("fallback engine %s: %w", cfg.Fallback, err)
		}
		primary = tts.NewFailover(primary, fallback)
	}
	if prov == nil {
		return primary, nil
	}

	engines := map[string]tts.Provider{cfg.Engine: primary}
	for _, name := range ttsEngines {
		if name == cfg.Engine {
			continue
		}
		eng, err := newEngine(ctx, cfg, name, t)
		if err != nil {
			slog.Warn("TTS engine unavailable for runtime switching", "engine", name, "error", err)
			continue
		}
		engines[name] = eng
	}
	return &engineSwitch{cfg: prov, engines: engines, def: primary}, nil
}

// engineSwitch routes synthesis to the engine named by the runtime config,
// falling back to the startup default when the named engine is unknown or
// could not be built.
type engineSwitch struct {
	cfg     config.Provider
	engines map[string]tts.Provider
	def     tts.Provider
}

func (s *engineSwitch) pick(ctx context.Context) tts.Provider {
	if p, ok := s.engines[s.cfg.TTSEngine(ctx)]; ok {
		return p
	}
	return s.def
}

func (s *engineSwitch) Synthesize(ctx context.Context, text string, lang model.Language, outputPath string) (string, error) {
	return s.pick(ctx).Synthesize(ctx, text, lang, outputPath)
}

func (s *engineSwitch) Voices(ctx context.Context) ([]tts.Voice, error) {
	return s.pick(ctx).Voices(ctx)
}

func newEngine(ctx context.Context, cfg config.TTSConfig, engine string, t *tracker.Tracker) (tts.Provider, error) {
	switch engine {
	case "google":
		return google.NewProvider(ctx, cfg.Google, t)
	case "espeak":
		return espeak.NewProvider(cfg.ESpeak, t)
	default:
		return nil, fmt.Errorf("unknown TTS engine: %s", engine)
	}
}

// NewTranslator builds the translation backend named by cfg.Provider.
func NewTranslator(cfg config.TranslateConfig, client *request.Client, t *tracker.Tracker) (translate.Translator, error) {
	switch cfg.Provider {
	case "google":
		if cfg.Key == "" {
			return nil, fmt.Errorf("google translation requires an API key")
		}
		return translate.NewGoogle(client, t, cfg.Key), nil
	case "mock", "":
		return translate.Mock{}, nil
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
}
