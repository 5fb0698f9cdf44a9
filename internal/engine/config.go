package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Deployment modes accepted in APP_ENV.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config holds all service configuration, built in main and passed to constructors.
type Config struct {
	Mode               string
	Port               string
	MCPPort            string
	CORSOrigins        []string
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMAPIBase         string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxTokens       int
	FetchTimeout       time.Duration
	RequestTimeout     time.Duration
	YouTubeRateLimit   float64 // outbound YouTube requests per second, 0 = unlimited
	MaxTranscriptChars int
	HTTPClient         *http.Client
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Mode != ModeDevelopment && c.Mode != ModeProduction {
		return fmt.Errorf("invalid APP_ENV %q (must be %q or %q)", c.Mode, ModeDevelopment, ModeProduction)
	}
	for _, p := range []string{c.Port, c.MCPPort} {
		if _, err := strconv.Atoi(p); err != nil {
			return fmt.Errorf("invalid port number: %s", p)
		}
	}
	if c.Port == c.MCPPort {
		return fmt.Errorf("PORT and MCP_PORT must differ (both %s)", c.Port)
	}
	if c.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY is required")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if c.YouTubeRateLimit < 0 {
		return errors.New("YOUTUBE_RATE_LIMIT must not be negative")
	}
	if c.MaxTranscriptChars <= 0 {
		return errors.New("MAX_TRANSCRIPT_CHARS must be positive")
	}
	return nil
}
