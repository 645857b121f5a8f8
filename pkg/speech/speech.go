// Package speech provides spoken-announcement recognition: identifying
// which station language an operator spoke, and transcribing the audio so
// it can be translated and re-synthesized.
package speech

import (
	"context"

	"railsetu/pkg/model"
)

// Recognizer analyzes recorded announcement audio.
type Recognizer interface {
	// DetectLanguage identifies the station language spoken in the audio
	// file. The returned transcript text may be empty.
	DetectLanguage(ctx context.Context, audioPath string) (*model.Transcript, error)

	// Transcribe detects the language and returns the full transcript.
	Transcribe(ctx context.Context, audioPath string) (*model.Transcript, error)

	// Name identifies the provider for logs and stats.
	Name() string
}
