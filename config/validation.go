package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validLogFormats = map[string]bool{"json": true, "console": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// ValidateConfig checks the loaded configuration and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errors []ValidationError

	if cfg.LLM.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "GEMINI_API_KEY",
			Message: "GEMINI_API_KEY, GEMINI_API_KEY_FILE or the gemini_api_key secret must be set",
		})
	}

	if u, err := url.Parse(cfg.LLM.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{Field: "GEMINI_API_URL", Message: "must be an absolute URL"})
	}

	if cfg.LLM.Model == "" {
		errors = append(errors, ValidationError{Field: "GEMINI_MODEL", Message: "must not be empty"})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, ValidationError{Field: "SERVER_PORT", Message: "must be a port number between 1 and 65535"})
	}

	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, ValidationError{Field: "SHUTDOWN_TIMEOUT", Message: "must be a positive duration"})
	}

	if cfg.AppBaseURL != "" {
		if u, err := url.Parse(cfg.AppBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{Field: "APP_BASE_URL", Message: "must be an absolute URL"})
		}
	}

	if cfg.RateLimit.Limit < 0 {
		errors = append(errors, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must not be negative"})
	}
	if cfg.RateLimit.Limit > 0 && cfg.RateLimit.Window <= 0 {
		errors = append(errors, ValidationError{Field: "RATE_LIMIT_WINDOW", Message: "must be a positive duration"})
	}

	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				errors = append(errors, ValidationError{Field: "TRUSTED_PROXIES", Message: fmt.Sprintf("%q is not an IP address or CIDR", proxy)})
			}
		}
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errors = append(errors, ValidationError{Field: "LOG_LEVEL", Message: "must be one of debug, info, warn, error"})
	}

	if !validLogFormats[cfg.Log.Format] {
		errors = append(errors, ValidationError{Field: "LOG_FORMAT", Message: "must be json or console"})
	}

	if len(errors) > 0 {
		messages := make([]string, len(errors))
		for i, e := range errors {
			messages[i] = e.Error()
		}
		return fmt.Errorf("%s", strings.Join(messages, "\n"))
	}

	return nil
}
