package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port    string
	GinMode string

	LLMProvider   string
	DefaultAPIKey string
	Model         string
	BaseURL       string
	LLMTimeout    time.Duration
	LLMClientsMax int

	SessionStore  string
	SessionTTL    time.Duration
	SessionSecret string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string
}

// Load reads the process environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds the config from any key lookup, so tests don't touch the real environment.
func FromLookup(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:          env("PORT", "8080"),
		GinMode:       env("GIN_MODE", "release"),
		LLMProvider:   strings.ToLower(env("LLM_PROVIDER", "openai")),
		SessionStore:  strings.ToLower(env("SESSION_STORE", SessionStoreMemory)),
		SessionSecret: env("SESSION_SECRET", ""),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPassword: env("REDIS_PASSWORD", ""),
		LogLevel:      env("LOG_LEVEL", "info"),
		LogFormat:     env("LOG_FORMAT", "json"),
	}

	switch cfg.LLMProvider {
	case "openai":
		cfg.DefaultAPIKey = env("OPENAI_API_KEY", "")
		cfg.Model = env("OPENAI_MODEL", "gpt-4")
		cfg.BaseURL = env("OPENAI_BASE_URL", "")
	case "gemini":
		cfg.DefaultAPIKey = env("GEMINI_API_KEY", "")
		cfg.Model = env("GEMINI_MODEL", "gemini-1.5-flash")
		cfg.BaseURL = env("GEMINI_BASE_URL", "")
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q. Use 'openai' or 'gemini'", cfg.LLMProvider)
	}

	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("unsupported GIN_MODE %q. Use 'debug', 'release' or 'test'", cfg.GinMode)
	}

	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q. Use 'memory' or 'redis'", cfg.SessionStore)
	}

	var err error
	if cfg.LLMTimeout, err = parseDuration(env("LLM_TIMEOUT", "0s")); err != nil {
		return nil, fmt.Errorf("LLM_TIMEOUT: %w", err)
	}
	if cfg.LLMClientsMax, err = strconv.Atoi(env("LLM_CLIENT_CACHE_SIZE", "64")); err != nil || cfg.LLMClientsMax < 1 {
		return nil, fmt.Errorf("LLM_CLIENT_CACHE_SIZE must be a positive integer, got %q", env("LLM_CLIENT_CACHE_SIZE", "64"))
	}
	if cfg.SessionTTL, err = parseDuration(env("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(env("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	return cfg, nil
}

func parseDuration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", v)
	}
	return d, nil
}
