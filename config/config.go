package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Estimator EstimatorConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Env       EnvironmentConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 3000
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the shared Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (required in most containerised
	// and constrained hosting environments).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth injects anti-automation-detection JS into every session.
	Stealth bool // default: true

	// UserAgent is the fixed user-agent presented to the calculator page.
	// The widget serves a degraded layout to unrecognised agents.
	UserAgent string
}

// EstimatorConfig controls the navigate-and-extract pipeline.
type EstimatorConfig struct {
	// CalculatorURL is the third-party calculator page.
	CalculatorURL string

	// GlobalDeadline bounds the entire navigate+extract operation. Must be
	// strictly shorter than the hosting platform's request limit, leaving
	// headroom for response serialisation.
	GlobalDeadline time.Duration // default: 50s

	// NavigationTimeout bounds the initial page load alone.
	NavigationTimeout time.Duration // default: 30s

	// StepTimeout bounds each locate-and-wait interaction step.
	StepTimeout time.Duration // default: 4s

	// SettleDelay is the fixed pause after navigation and after submit;
	// the widget renders client-side with no completion signal.
	SettleDelay time.Duration // default: 2s

	// SuggestDelay is the short pause while the industry autocomplete
	// populates its suggestion list.
	SuggestDelay time.Duration // default: 500ms
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per identity.
	Burst int // default: 3
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// EnvironmentConfig describes the hosting environment.
type EnvironmentConfig struct {
	// Name is reported by the health endpoint ("production", "local", ...).
	Name string

	// Serverless marks a hosting environment that cannot run a headless
	// browser; the calculate endpoint answers 501 without touching one.
	Serverless bool
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("LSA_HOST", "0.0.0.0"),
			Port: envIntOr("PORT", 3000),
			Mode: envOr("LSA_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("LSA_HEADLESS", true),
			NoSandbox:  envBoolOr("LSA_NO_SANDBOX", true),
			BrowserBin: os.Getenv("LSA_BROWSER_BIN"),
			Stealth:    envBoolOr("LSA_STEALTH", true),
			UserAgent: envOr("LSA_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
					"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		},
		Estimator: EstimatorConfig{
			CalculatorURL: envOr("LSA_CALCULATOR_URL",
				"https://business.google.com/us/ad-solutions/local-service-ads/"+
					"#:~:text=Calculate%20your-,budget,-Enter%20Postal%20code"),
			GlobalDeadline:    envDurationOr("LSA_GLOBAL_DEADLINE", 50*time.Second),
			NavigationTimeout: envDurationOr("LSA_NAV_TIMEOUT", 30*time.Second),
			StepTimeout:       envDurationOr("LSA_STEP_TIMEOUT", 4*time.Second),
			SettleDelay:       envDurationOr("LSA_SETTLE_DELAY", 2*time.Second),
			SuggestDelay:      envDurationOr("LSA_SUGGEST_DELAY", 500*time.Millisecond),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("LSA_AUTH_ENABLED", false),
			APIKeys: envSliceOr("LSA_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LSA_RATE_RPS", 1.0),
			Burst:             envIntOr("LSA_RATE_BURST", 3),
		},
		Log: LogConfig{
			Level:  envOr("LSA_LOG_LEVEL", "info"),
			Format: envOr("LSA_LOG_FORMAT", "json"),
		},
		Env: EnvironmentConfig{
			Name:       envOr("LSA_ENV", "production"),
			Serverless: envBoolOr("LSA_SERVERLESS", os.Getenv("VERCEL") != ""),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
