package translate

import (
	"context"
	"fmt"

	"railsetu/pkg/model"
)

// Mock is a development translator that tags text with the target locale
// instead of calling a paid API.
type Mock struct{}

// Name implements Translator.
func (Mock) Name() string { return "mock" }

// Translate implements Translator.
func (Mock) Translate(_ context.Context, text string, _, target model.Language) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}
