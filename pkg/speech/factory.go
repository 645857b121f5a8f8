package speech

import (
	"context"
	"fmt"

	"railsetu/pkg/config"
	"railsetu/pkg/request"
)

// NewRecognizer builds the recognition backend named by cfg.Provider.
func NewRecognizer(ctx context.Context, cfg config.SpeechConfig, client *request.Client) (Recognizer, error) {
	switch cfg.Provider {
	case "whisper", "":
		return NewWhisper(client, cfg.Whisper.BaseURL), nil
	case "google":
		if cfg.Key == "" {
			return nil, fmt.Errorf("google speech requires an API key")
		}
		return NewGoogle(ctx, cfg.Key)
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", cfg.Provider)
	}
}
