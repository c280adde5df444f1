// Package translate implements the translation provider adapter.
//
// The provider is the MyMemory translated.net API: a GET query carrying the
// source text and a "source|target" language pair, answering JSON with a
// responseData.translatedText field and an optional detected language.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/fridaylabs/friday/internal/adapter"
)

// languageCodes maps spoken language names to ISO-639-1 codes.
var languageCodes = map[string]string{
	"hindi":    "hi",
	"telugu":   "te",
	"tamil":    "ta",
	"spanish":  "es",
	"french":   "fr",
	"german":   "de",
	"japanese": "ja",
	"chinese":  "zh",
	"arabic":   "ar",
	"italian":  "it",
	"english":  "en",
}

// LanguageCode resolves a spoken language name ("hindi") to its ISO-639-1
// code. Unknown names fall back to English, matching the assistant's
// please-just-answer posture.
func LanguageCode(name string) string {
	if code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return "en"
}

// Result is a successful translation.
type Result struct {
	TranslatedText   string
	DetectedLanguage string
}

// Client calls the translation provider.
type Client struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// New creates a translation client against the given endpoint
// (e.g. "https://api.mymemory.translated.net/get").
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		breaker:  adapter.NewBreaker("translate"),
	}
}

// Translate requests a translation of text into the target language code,
// letting the provider detect the source language. Every failure, whether
// network, breaker, or a malformed response, collapses to
// adapter.ErrUnavailable.
func (c *Client) Translate(ctx context.Context, text, targetCode string) (Result, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		return c.translate(ctx, text, targetCode)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", adapter.ErrUnavailable, err)
	}
	return out.(Result), nil
}

func (c *Client) translate(ctx context.Context, text, targetCode string) (Result, error) {
	q := make(url.Values)
	q.Set("q", text)
	q.Set("langpair", "auto|"+targetCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("translation failed (status %d)", resp.StatusCode)
	}

	var body struct {
		ResponseData struct {
			TranslatedText   string `json:"translatedText"`
			DetectedLanguage string `json:"detectedLanguage"`
		} `json:"responseData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decoding translation: %w", err)
	}

	if body.ResponseData.TranslatedText == "" {
		return Result{}, fmt.Errorf("translation response missing translatedText")
	}

	detected := body.ResponseData.DetectedLanguage
	if detected == "" {
		detected = "auto"
	}

	return Result{
		TranslatedText:   body.ResponseData.TranslatedText,
		DetectedLanguage: detected,
	}, nil
}
