package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Server    ServerConfig
	Refdata   RefdataConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// BackendConfig points the gateway at the cotiza backend API.
// The gateway is a plain client: no retries, no idempotency keys.
type BackendConfig struct {
	// BaseURL is the API root, e.g. https://cotiza-back.onrender.com/api
	BaseURL string
	// RequestTimeout is the per-call timeout in seconds
	RequestTimeout int
	// PDFTimeout is the timeout for PDF downloads in seconds (larger payloads)
	PDFTimeout int
}

type ServerConfig struct {
	ReadTimeout  int
	WriteTimeout int
}

// RefdataConfig controls reference data loading.
type RefdataConfig struct {
	// RefreshEnabled turns on the periodic background reload
	RefreshEnabled bool
	// RefreshCron is the cron expression for periodic reloads
	RefreshCron string
	// RefreshTimeout is the timeout for one reload in seconds
	RefreshTimeout int
	// RequireOnStartup makes startup fail when the initial load fails.
	// When false the gateway starts with an empty cache and reports
	// load failures to the UI instead.
	RequireOnStartup bool
}

type LoggingConfig struct {
	Level  string
	Format string
}

// CORSConfig holds CORS configuration for browser front ends calling the gateway
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistPaths    []string
}

// RequestTimeoutDuration returns the backend request timeout as duration
func (b *BackendConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(b.RequestTimeout) * time.Second
}

// PDFTimeoutDuration returns the PDF download timeout as duration
func (b *BackendConfig) PDFTimeoutDuration() time.Duration {
	return time.Duration(b.PDFTimeout) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RefreshTimeoutDuration returns the reference data reload timeout as duration
func (r *RefdataConfig) RefreshTimeoutDuration() time.Duration {
	return time.Duration(r.RefreshTimeout) * time.Second
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Allow the flat BACKEND_URL env var as an override
	if url := v.GetString("BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.baseUrl is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Cotiza Quote Gateway")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Backend defaults
	v.SetDefault("backend.baseUrl", "")
	v.SetDefault("backend.requestTimeout", 15)
	v.SetDefault("backend.pdfTimeout", 60)

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)

	// Reference data defaults
	v.SetDefault("refdata.refreshEnabled", false)
	v.SetDefault("refdata.refreshCron", "@every 10m")
	v.SetDefault("refdata.refreshTimeout", 30)
	v.SetDefault("refdata.requireOnStartup", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// CORS defaults - the gateway serves a local browser UI
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "Content-Disposition"})
	v.SetDefault("cors.allowCredentials", false)
	v.SetDefault("cors.maxAge", 300)

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 300)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health"})
}
