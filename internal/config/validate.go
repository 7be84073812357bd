package config

import (
	"fmt"
	"net/url"
	"strings"
)

// pageSizes are the page sizes offered by the paginated tables
var pageSizes = []int{1, 2, 5, 10, 25, 50, 100}

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateLimitsConfig(&config.Limits); err != nil {
		return fmt.Errorf("limits config validation failed: %w", err)
	}

	if err := validateUIConfig(&config.UI); err != nil {
		return fmt.Errorf("ui config validation failed: %w", err)
	}

	return nil
}

// validateServerConfig validates the server section
func validateServerConfig(config *ServerConfig) error {
	if strings.TrimSpace(config.BaseURL) == "" {
		return fmt.Errorf("base_url is required")
	}

	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", config.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", config.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", config.BaseURL)
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %d", config.Timeout)
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateLimitsConfig validates transfer limits
func validateLimitsConfig(config *LimitsConfig) error {
	if config.MaxFileUpload < 0 {
		return fmt.Errorf("max_file_upload must be non-negative, got: %d", config.MaxFileUpload)
	}
	if config.MaxFileDownload < 0 {
		return fmt.Errorf("max_file_download must be non-negative, got: %d", config.MaxFileDownload)
	}
	return nil
}

// validateUIConfig validates user interface configuration
func validateUIConfig(config *UIConfig) error {
	if !IsPageSize(config.PageSize) {
		return fmt.Errorf("invalid page_size: %d (valid: %v)", config.PageSize, pageSizes)
	}
	if config.PreviewCols < 0 || config.PreviewRows < 0 {
		return fmt.Errorf("preview size must be non-negative, got: %dx%d", config.PreviewCols, config.PreviewRows)
	}
	return nil
}

// IsPageSize reports whether n is one of the offered page sizes
func IsPageSize(n int) bool {
	for _, s := range pageSizes {
		if s == n {
			return true
		}
	}
	return false
}
