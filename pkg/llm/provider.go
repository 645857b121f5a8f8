// Package llm defines the interface to the language model used for
// announcement polish and sign-language glossing.
package llm

import (
	"context"
)

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a prompt and returns the text response. The
	// intent name ("polish", "gloss") selects logging context.
	GenerateText(ctx context.Context, intent, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, intent, prompt string, target any) error

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error
}
