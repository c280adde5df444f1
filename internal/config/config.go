// Package config handles loading and validating the friday configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the friday daemon.
type Config struct {
	Server       ServerConfig      `mapstructure:"server"`
	Storage      StorageConfig     `mapstructure:"storage"`
	Speech       SpeechConfig      `mapstructure:"speech"`
	Chat         ChatConfig        `mapstructure:"chat"`
	Translation  TranslationConfig `mapstructure:"translation"`
	Destinations map[string]string `mapstructure:"destinations"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds the HTTP and health server settings.
type ServerConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// StorageConfig holds the persisted document store settings.
type StorageConfig struct {
	// Path is the SQLite database file backing profiles and the transcript.
	Path string `mapstructure:"path"`
}

// SpeechConfig selects and configures the speech synthesis backend.
type SpeechConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Backend string      `mapstructure:"backend"` // "piper"
	Piper   PiperConfig `mapstructure:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
//
// Voices maps voice names to their Wyoming model identifiers and BCP-47
// language tags; the set of keys becomes the daemon's available voice list.
type PiperConfig struct {
	Endpoint string                `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voices   map[string]PiperVoice `mapstructure:"voices"`   // voice name -> model + language tag
}

// PiperVoice describes one installed Piper voice model.
type PiperVoice struct {
	Model    string `mapstructure:"model"`    // e.g. "en_US-lessac-medium"
	Language string `mapstructure:"language"` // e.g. "en-US"
}

// ChatConfig points the assistant at its conversational-AI relay.
type ChatConfig struct {
	// RelayURL is the base URL of the friday-relay process. Empty disables
	// the catch-all AI path; the dispatcher falls back to canned replies.
	RelayURL string `mapstructure:"relay_url"`
}

// TranslationConfig points the assistant at the translation provider.
type TranslationConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// RelayConfig is the configuration for the friday-relay process.
type RelayConfig struct {
	Port      int           `mapstructure:"port"`
	OpenAIKey string        `mapstructure:"openai_key"`
	Model     string        `mapstructure:"model"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./friday.yaml, ./configs/friday.yaml, /etc/friday/friday.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("storage.path", "friday.db")
	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.backend", "piper")
	v.SetDefault("speech.piper.endpoint", "localhost:10200")
	v.SetDefault("chat.relay_url", "http://localhost:3000")
	v.SetDefault("translation.endpoint", "https://api.mymemory.translated.net/get")
	v.SetDefault("destinations", map[string]string{
		"google":  "https://google.com",
		"youtube": "https://youtube.com",
	})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("friday")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/friday")
	}

	// Environment variables: FRIDAY_SERVER_PORT, FRIDAY_CHAT_RELAY_URL, etc.
	v.SetEnvPrefix("FRIDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// LoadRelay reads the relay process configuration. The relay is deployed as a
// standalone process and is configured through environment variables
// (FRIDAY_RELAY_PORT, FRIDAY_RELAY_MODEL, OPENAI_KEY).
func LoadRelay() (*RelayConfig, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("openai_key", "${OPENAI_KEY}")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetEnvPrefix("FRIDAY_RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg RelayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling relay config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_KEY}")
	cfg.OpenAIKey = resolveEnvRef(cfg.OpenAIKey)

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		return os.Getenv(envKey)
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
