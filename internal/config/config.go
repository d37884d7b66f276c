package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config carries the process configuration resolved from the environment.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	HTTPAddr       string
	DatabaseDSN    string
	APIKey         string

	RateLimitPerMinute int
	ReportCacheTTL     time.Duration

	Tracing   Tracing
	Bootstrap Bootstrap
}

// Tracing configures the OTLP trace exporter.
type Tracing struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Bootstrap controls startup seeding.
type Bootstrap struct {
	EnsureDefaultShop bool
}

// IsProduction reports whether the service runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load resolves configuration from the environment, reading .env when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ServiceName:    envOr("SERVICE_NAME", "kasira"),
		ServiceVersion: envOr("SERVICE_VERSION", "dev"),
		Environment:    envOr("ENVIRONMENT", "development"),
		HTTPAddr:       envOr("HTTP_ADDR", ":8080"),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		APIKey:         os.Getenv("API_KEY"),

		RateLimitPerMinute: envIntOr("RATE_LIMIT_PER_MINUTE", 240),
		ReportCacheTTL:     envDurationOr("REPORT_CACHE_TTL", 30*time.Second),

		Tracing: Tracing{
			Enabled:          envBoolOr("TRACING_ENABLED", false),
			ExporterEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ExporterProtocol: envOr("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    envFloatOr("TRACE_SAMPLING_RATIO", 0.1),
		},
		Bootstrap: Bootstrap{
			EnsureDefaultShop: envBoolOr("BOOTSTRAP_DEFAULT_SHOP", true),
		},
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOr(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBoolOr(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloatOr(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)
