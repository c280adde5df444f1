package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "friday.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8081, cfg.Server.HealthPort)
	assert.Equal(t, "friday.db", cfg.Storage.Path)
	assert.False(t, cfg.Speech.Enabled)
	assert.Equal(t, "piper", cfg.Speech.Backend)
	assert.Equal(t, "http://localhost:3000", cfg.Chat.RelayURL)
	assert.Equal(t, "https://api.mymemory.translated.net/get", cfg.Translation.Endpoint)
	assert.Contains(t, cfg.Destinations, "youtube")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
server:
  port: 9090
speech:
  enabled: true
  piper:
    endpoint: tts-host:10200
    voices:
      lessac:
        model: en_US-lessac-medium
        language: en-US
destinations:
  maps: https://maps.google.com
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Speech.Enabled)
	assert.Equal(t, "tts-host:10200", cfg.Speech.Piper.Endpoint)
	require.Contains(t, cfg.Speech.Piper.Voices, "lessac")
	assert.Equal(t, "en-US", cfg.Speech.Piper.Voices["lessac"].Language)
	assert.Equal(t, "https://maps.google.com", cfg.Destinations["maps"])
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("FRIDAY_SERVER_PORT", "9999")
	t.Setenv("FRIDAY_CHAT_RELAY_URL", "http://relay:3000")

	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "http://relay:3000", cfg.Chat.RelayURL)
}

func TestLoadRelayResolvesCredentialReference(t *testing.T) {
	t.Setenv("OPENAI_KEY", "sk-test")
	t.Setenv("FRIDAY_RELAY_PORT", "4100")

	cfg, err := config.LoadRelay()
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
}

func TestLoadRelayWithoutCredential(t *testing.T) {
	t.Setenv("OPENAI_KEY", "")

	cfg, err := config.LoadRelay()
	require.NoError(t, err)

	assert.Empty(t, cfg.OpenAIKey)
}
