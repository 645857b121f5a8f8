package tts

import (
	"context"
	"log/slog"
	"sync"

	"railsetu/pkg/model"
)

// Failover wraps a primary Provider with a fallback engine. Once the
// primary returns a FatalError (quota, auth, server errors), the fallback
// stays active for the remainder of the process.
type Failover struct {
	mu            sync.RWMutex
	primary       Provider
	fallback      Provider
	usingFallback bool
}

// NewFailover creates a failover wrapper. fallback may be nil, in which
// case errors from the primary are returned as-is.
func NewFailover(primary, fallback Provider) *Failover {
	return &Failover{primary: primary, fallback: fallback}
}

// UsingFallback reports whether the fallback engine is active.
func (f *Failover) UsingFallback() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.usingFallback
}

func (f *Failover) active() Provider {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.usingFallback && f.fallback != nil {
		return f.fallback
	}
	return f.primary
}

// activateFallback switches to the fallback engine for the remainder of
// the process. Called when the primary returns a fatal error.
func (f *Failover) activateFallback() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.usingFallback {
		return // Already activated
	}

	slog.Warn("TTS: Activating fallback engine")
	f.usingFallback = true
}

// Synthesize implements Provider.
func (f *Failover) Synthesize(ctx context.Context, text string, lang model.Language, outputPath string) (string, error) {
	p := f.active()
	format, err := p.Synthesize(ctx, text, lang, outputPath)
	if err == nil {
		return format, nil
	}

	if !IsFatalError(err) || f.fallback == nil || f.UsingFallback() {
		return "", err
	}

	slog.Warn("TTS: Primary engine failed fatally, retrying with fallback", "error", err)
	f.activateFallback()
	return f.fallback.Synthesize(ctx, text, lang, outputPath)
}

// Voices implements Provider, listing voices for the active engine.
func (f *Failover) Voices(ctx context.Context) ([]Voice, error) {
	return f.active().Voices(ctx)
}
