// Package translate converts announcement text between the supported
// station languages.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"railsetu/pkg/model"
)

// ErrUnsupportedLanguage is returned when a target language is not one of
// the station languages.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Translator converts text from one language to another.
type Translator interface {
	// Translate returns text converted from the source to the target
	// language. Source and target are station locales (e.g. "hi-IN").
	Translate(ctx context.Context, text string, source, target model.Language) (string, error)
	// Name identifies the provider for logs and stats.
	Name() string
}

// All translates text from source into every requested target language.
// The source language maps to the original text unchanged. A failed target
// is logged and omitted rather than failing the whole set; the error of the
// last failure is returned alongside the partial result.
func All(ctx context.Context, tr Translator, text string, source model.Language, targets []model.Language) (map[model.Language]string, error) {
	out := make(map[model.Language]string, len(targets)+1)
	out[source] = text

	var lastErr error
	for _, target := range targets {
		if target == source {
			continue
		}
		translated, err := tr.Translate(ctx, text, source, target)
		if err != nil {
			slog.Warn("Translation failed", "provider", tr.Name(), "target", target, "error", err)
			lastErr = fmt.Errorf("translate to %s: %w", target, err)
			continue
		}
		out[target] = translated
	}
	return out, lastErr
}
