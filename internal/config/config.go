package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Sports SportsConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	sports, err := loadSportsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Sports: sports}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes access to the upstream chat-completion API.
type AIConfig struct {
	APIKey        string
	BaseURL       string
	DefaultModel  string
	AllowedModels []string

	// StorylineModel is the cheaper model used for one-sentence fixture
	// storylines; it skips web-citation generation entirely.
	StorylineModel string

	// Timezone is the default reply timezone woven into the persona
	// prompt, kept as configuration rather than hard-coded prose.
	Timezone string

	// Timeout bounds buffered upstream calls. Streaming calls are not
	// bounded; a stalled stream is surfaced to the client as-is.
	Timeout time.Duration
}

// Enabled reports whether the upstream credential is present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// ResolveModel validates a caller-supplied model selector against the
// allow-list, substituting the default when absent or unrecognized.
func (c AIConfig) ResolveModel(requested string) string {
	requested = strings.TrimSpace(requested)
	for _, m := range c.AllowedModels {
		if m == requested {
			return requested
		}
	}
	return c.DefaultModel
}

func loadAIConfig() (AIConfig, error) {
	timeout, err := parseOptionalIntEnv("PERPLEXITY_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}
	timeoutSeconds := 60
	if timeout != nil {
		if *timeout < 1 {
			return AIConfig{}, fmt.Errorf("PERPLEXITY_TIMEOUT_SECONDS must be positive, got %d", *timeout)
		}
		timeoutSeconds = *timeout
	}

	allowed := splitList(getEnvOrDefault("PERPLEXITY_MODELS", "sonar,sonar-pro"))
	defaultModel := getEnvOrDefault("PERPLEXITY_DEFAULT_MODEL", "sonar-pro")

	return AIConfig{
		APIKey:         strings.TrimSpace(os.Getenv("PERPLEXITY_API_KEY")),
		BaseURL:        getEnvOrDefault("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		DefaultModel:   defaultModel,
		AllowedModels:  allowed,
		StorylineModel: getEnvOrDefault("PERPLEXITY_STORYLINE_MODEL", "sonar"),
		Timezone:       getEnvOrDefault("CHAT_TIMEZONE", "America/Tegucigalpa"),
		Timeout:        time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// SportsConfig describes access to the sports-schedule provider.
type SportsConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

func loadSportsConfig() (SportsConfig, error) {
	ttl, err := parseOptionalIntEnv("GAMES_CACHE_TTL_SECONDS")
	if err != nil {
		return SportsConfig{}, err
	}
	ttlSeconds := 600
	if ttl != nil {
		if *ttl < 1 {
			return SportsConfig{}, fmt.Errorf("GAMES_CACHE_TTL_SECONDS must be positive, got %d", *ttl)
		}
		ttlSeconds = *ttl
	}

	return SportsConfig{
		// "123" is the provider's public demo key.
		APIKey:   getEnvOrDefault("THESPORTSDB_API_KEY", "123"),
		BaseURL:  getEnvOrDefault("THESPORTSDB_BASE_URL", "https://www.thesportsdb.com/api/v1/json"),
		CacheTTL: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
