package translate

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"railsetu/pkg/model"
	"railsetu/pkg/request"
	"railsetu/pkg/tracker"
)

const googleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Google translates via the Cloud Translation v2 REST API.
type Google struct {
	client  *request.Client
	tracker *tracker.Tracker
	key     string
	breaker *gobreaker.CircuitBreaker
}

// NewGoogle creates a Translation API client. The circuit breaker stops
// hammering the API once it starts failing consistently.
func NewGoogle(client *request.Client, t *tracker.Tracker, key string) *Google {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "translate",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Google{client: client, tracker: t, key: key, breaker: cb}
}

// Name implements Translator.
func (g *Google) Name() string { return "google" }

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate implements Translator.
func (g *Google) Translate(ctx context.Context, text string, source, target model.Language) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}
	if g.key == "" {
		return "", fmt.Errorf("translation api key not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"q":      []string{text},
		"source": source.Base(),
		"target": target.Base(),
		"format": "text",
	})
	if err != nil {
		return "", err
	}

	endpoint := googleEndpoint + "?key=" + url.QueryEscape(g.key)
	cacheKey := fmt.Sprintf("translate:%s:%s:%x", source, target, sha256.Sum256([]byte(text)))

	body, err := g.breaker.Execute(func() (any, error) {
		return g.client.PostWithCache(ctx, endpoint, payload,
			map[string]string{"Content-Type": "application/json"}, cacheKey)
	})
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}

	var resp googleResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil {
		return "", fmt.Errorf("translation response: %w", err)
	}
	if len(resp.Data.Translations) == 0 {
		return "", fmt.Errorf("translation response contained no result")
	}

	g.tracker.TrackChars("translate", len(text))
	return resp.Data.Translations[0].TranslatedText, nil
}
