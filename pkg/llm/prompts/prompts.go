// Package prompts builds the model prompts for announcement polish and
// sign glossing.
package prompts

import (
	"fmt"
	"strings"

	"railsetu/pkg/model"
)

// Polish asks the model to rewrite raw operator text as a clear, polite
// station announcement without changing the facts.
func Polish(text string, lang model.Language) string {
	return fmt.Sprintf(`You are editing a railway station public announcement.

Rewrite the following announcement in %s so it is clear, polite, and easy to understand over a loudspeaker.
Rules:
- Keep every fact exactly as given: train numbers, train names, platform numbers, and times must not change.
- Do not add information that is not in the original.
- Spell out abbreviations a passenger might not know.
- Return only the rewritten announcement, no explanations.

Announcement:
%s`, lang.DisplayName(), strings.TrimSpace(text))
}

// Gloss asks the model to reduce an announcement to the word sequence a
// sign-language rendition needs: content words in spoken order, no
// function words, digits as digits.
func Gloss(text string) string {
	return fmt.Sprintf(`Convert the following railway announcement into a gloss for Indian Sign Language playback.

Rules:
- Output only lowercase content words separated by single spaces.
- Keep the original word order.
- Drop articles, prepositions, and filler words.
- Keep numbers as digits (write "12", not "twelve").
- Return a single line with no punctuation.

Announcement:
%s`, strings.TrimSpace(text))
}
