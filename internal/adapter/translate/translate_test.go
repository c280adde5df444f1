package translate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/adapter"
	"github.com/fridaylabs/friday/internal/adapter/translate"
)

func provider(t *testing.T, handler http.HandlerFunc) *translate.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return translate.New(srv.URL + "/get")
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "hi", translate.LanguageCode("Hindi"))
	assert.Equal(t, "fr", translate.LanguageCode(" french "))
	assert.Equal(t, "en", translate.LanguageCode("klingon"))
	assert.Equal(t, "en", translate.LanguageCode(""))
}

func TestTranslateSuccess(t *testing.T) {
	var gotQuery, gotPair string
	c := provider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotPair = r.URL.Query().Get("langpair")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData": map[string]string{
				"translatedText":   "नमस्ते",
				"detectedLanguage": "en",
			},
		})
	})

	res, err := c.Translate(context.Background(), "hello", "hi")
	require.NoError(t, err)

	assert.Equal(t, "hello", gotQuery)
	assert.Equal(t, "auto|hi", gotPair)
	assert.Equal(t, "नमस्ते", res.TranslatedText)
	assert.Equal(t, "en", res.DetectedLanguage)
}

func TestTranslateDefaultsDetectedLanguage(t *testing.T) {
	c := provider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"responseData": map[string]string{"translatedText": "hola"},
		})
	})

	res, err := c.Translate(context.Background(), "hello", "es")
	require.NoError(t, err)
	assert.Equal(t, "auto", res.DetectedLanguage)
}

func TestTranslateMissingTranslatedText(t *testing.T) {
	c := provider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"responseData": map[string]string{}})
	})

	_, err := c.Translate(context.Background(), "hello", "hi")
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}

func TestTranslateMalformedBody(t *testing.T) {
	c := provider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>rate limited</html>"))
	})

	_, err := c.Translate(context.Background(), "hello", "hi")
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}

func TestTranslateUpstreamStatusError(t *testing.T) {
	c := provider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Translate(context.Background(), "hello", "hi")
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}
