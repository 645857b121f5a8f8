package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"railsetu/pkg/model"
)

type flakyTranslator struct {
	failFor model.Language
}

func (f flakyTranslator) Name() string { return "flaky" }

func (f flakyTranslator) Translate(_ context.Context, text string, _, target model.Language) (string, error) {
	if target == f.failFor {
		return "", errors.New("provider exploded")
	}
	return string(target) + ": " + text, nil
}

func TestAllIncludesSource(t *testing.T) {
	out, err := All(context.Background(), Mock{}, "train arriving",
		model.LangEnglish, model.SupportedLanguages())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if out[model.LangEnglish] != "train arriving" {
		t.Errorf("source text should pass through unchanged, got %q", out[model.LangEnglish])
	}
	for _, lang := range []model.Language{model.LangHindi, model.LangMarathi, model.LangGujarati} {
		if !strings.Contains(out[lang], "train arriving") {
			t.Errorf("missing translation for %s: %q", lang, out[lang])
		}
	}
	if len(out) != 4 {
		t.Errorf("got %d languages, want 4", len(out))
	}
}

func TestAllPartialFailure(t *testing.T) {
	tr := flakyTranslator{failFor: model.LangMarathi}
	out, err := All(context.Background(), tr, "platform change",
		model.LangEnglish, model.SupportedLanguages())
	if err == nil {
		t.Fatal("expected error reporting the failed target")
	}

	// The failing target is omitted, the rest still translate.
	if _, ok := out[model.LangMarathi]; ok {
		t.Error("failed target should be omitted from results")
	}
	if _, ok := out[model.LangHindi]; !ok {
		t.Error("healthy targets should still be present")
	}
	if out[model.LangEnglish] != "platform change" {
		t.Error("source text should survive a partial failure")
	}
}

func TestMockRejectsUnsupportedLanguage(t *testing.T) {
	_, err := Mock{}.Translate(context.Background(), "hello", model.LangEnglish, model.Language("fr-FR"))
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Errorf("err = %v, want ErrUnsupportedLanguage", err)
	}
}
