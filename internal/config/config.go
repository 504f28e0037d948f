// Package config handles loading and validating the sohayok configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the assistant.
type Config struct {
	School    SchoolConfig    `mapstructure:"school"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SchoolConfig identifies the school and its class hours.
type SchoolConfig struct {
	Name       string `mapstructure:"name"`
	ClassStart string `mapstructure:"class_start"` // HH:MM
	ClassEnd   string `mapstructure:"class_end"`   // HH:MM
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// AssistantConfig holds conversational defaults.
type AssistantConfig struct {
	DefaultLanguage string `mapstructure:"default_language"` // bn or en
}

// LLMConfig holds Ollama settings.
type LLMConfig struct {
	Host  string `mapstructure:"host"`
	Model string `mapstructure:"model"`
}

// SearchConfig holds Google Custom Search credentials.
type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./sohayok.yaml, ./configs/sohayok.yaml, /etc/sohayok/sohayok.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("school.name", "School")
	v.SetDefault("school.class_start", "08:00")
	v.SetDefault("school.class_end", "16:00")
	v.SetDefault("storage.path", defaultDBPath())
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8900)
	v.SetDefault("assistant.default_language", "bn")
	v.SetDefault("llm.host", "http://localhost:11434")
	v.SetDefault("llm.model", "gemma:2b")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sohayok")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sohayok")
	}

	// Environment variables: SOHAYOK_SERVER_PORT, SOHAYOK_SEARCH_API_KEY, etc.
	v.SetEnvPrefix("SOHAYOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${SEARCH_API_KEY}")
	cfg.Search.APIKey = resolveEnvRef(cfg.Search.APIKey)
	cfg.Search.EngineID = resolveEnvRef(cfg.Search.EngineID)

	if lang := cfg.Assistant.DefaultLanguage; lang != "bn" && lang != "en" {
		return nil, fmt.Errorf("invalid default language %q: must be bn or en", lang)
	}

	return &cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sohayok.db"
	}
	return home + "/.sohayok/sohayok.db"
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
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
