package prompts

import (
	"strings"
	"testing"

	"railsetu/pkg/model"
)

func TestPolishEmbedsTextAndLanguage(t *testing.T) {
	p := Polish("  train 12137 late by 20 min  ", model.LangHindi)
	if !strings.Contains(p, "train 12137 late by 20 min") {
		t.Error("prompt must embed the trimmed announcement text")
	}
	if !strings.Contains(p, model.LangHindi.DisplayName()) {
		t.Error("prompt must name the target language")
	}
}

func TestGlossEmbedsText(t *testing.T) {
	p := Gloss("Train 12137 is arriving on platform 4")
	if !strings.Contains(p, "Train 12137 is arriving on platform 4") {
		t.Error("prompt must embed the announcement text")
	}
	if !strings.Contains(p, "Indian Sign Language") {
		t.Error("prompt must state the glossing target")
	}
}
