package config

import (
	"context"
	"strings"

	"railsetu/pkg/model"
	"railsetu/pkg/store"
)

// Provider defines the interface for accessing unified configuration:
// static YAML values overridable at runtime through the persistent store.
type Provider interface {
	TTSEngine(ctx context.Context) string
	PAEnabled(ctx context.Context) bool
	PolishEnabled(ctx context.Context) bool
	TargetLanguages(ctx context.Context) []model.Language
	StationName(ctx context.Context) string

	// Raw access (for components that need deep access)
	AppConfig() *Config
}

// UnifiedProvider implements Provider by bridging static Config and persistent Store.
type UnifiedProvider struct {
	base  *Config
	store store.StateStore
}

// NewProvider creates a new UnifiedProvider.
func NewProvider(base *Config, st store.StateStore) *UnifiedProvider {
	return &UnifiedProvider{
		base:  base,
		store: st,
	}
}

func (p *UnifiedProvider) AppConfig() *Config { return p.base }

func (p *UnifiedProvider) TTSEngine(ctx context.Context) string {
	return p.getString(ctx, KeyTTSEngine, p.base.TTS.Engine)
}

func (p *UnifiedProvider) PAEnabled(ctx context.Context) bool {
	return p.getBool(ctx, KeyPAEnabled, p.base.PA.Enabled)
}

func (p *UnifiedProvider) PolishEnabled(ctx context.Context) bool {
	return p.getBool(ctx, KeyPolishEnabled, p.base.LLM.Enabled)
}

// TargetLanguages returns the locales announcements are generated in.
// Stored as a comma-separated list; falls back to all supported locales.
// Unknown locales in the stored value are dropped.
func (p *UnifiedProvider) TargetLanguages(ctx context.Context) []model.Language {
	raw := p.getString(ctx, KeyTargetLanguages, "")
	if raw == "" {
		return model.SupportedLanguages()
	}
	parts := strings.Split(raw, ",")
	out := make([]model.Language, 0, len(parts))
	for _, part := range parts {
		l := model.Language(strings.TrimSpace(part))
		if l.Valid() {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return model.SupportedLanguages()
	}
	return out
}

func (p *UnifiedProvider) StationName(ctx context.Context) string {
	return p.getString(ctx, KeyStationName, "this station")
}

// --- Helpers ---

func (p *UnifiedProvider) getString(ctx context.Context, key, fallback string) string {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val
		}
	}
	return fallback
}

func (p *UnifiedProvider) getBool(ctx context.Context, key string, fallback bool) bool {
	if p.store != nil {
		if val, ok := p.store.GetState(ctx, key); ok && val != "" {
			return val == "true"
		}
	}
	return fallback
}
