package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ContentFetchTimeout time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// DefaultDensityScale is used when a request omits density_scale.
	DefaultDensityScale float64

	// MarkedOutputDir is where annotated screenshots are written when a
	// request asks for them. Empty disables local artifact export.
	MarkedOutputDir string

	// Azure Blob storage, used for azblob:// content URLs and artifact
	// upload. Both values empty disables the backend.
	AzureAccountName       string
	AzureAccountKey        string
	AzureArtifactContainer string

	// OCRLanguage is the tesseract language used for text recovery.
	OCRLanguage string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether the Azure Blob backend is configured.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		RequestTimeout:      parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ContentFetchTimeout: parseDurationOrDefault("CONTENT_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:     parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize:  parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		DefaultDensityScale: parseFloatOrDefault("DEFAULT_DENSITY_SCALE", 1.0),
		MarkedOutputDir:     getEnvOrDefault("MARKED_OUTPUT_DIR", "./marked-output"),
		AzureAccountName:       os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:        os.Getenv("AZURE_STORAGE_KEY"),
		AzureArtifactContainer: getEnvOrDefault("AZURE_ARTIFACT_CONTAINER", "a11y-artifacts"),
		OCRLanguage:         getEnvOrDefault("OCR_LANGUAGE", "eng"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ContentFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.ContentFetchTimeout, cfg.AnalysisTimeout)
	}
	if cfg.DefaultDensityScale <= 0 {
		return nil, fmt.Errorf("DEFAULT_DENSITY_SCALE must be > 0 (got %g)", cfg.DefaultDensityScale)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
