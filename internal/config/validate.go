// internal/config/validate.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Catalog validation
	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("catalog.base_url: must be an absolute http(s) URL, got %q", c.Catalog.BaseURL))
	}
	if c.Catalog.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("catalog.timeout: must not be negative, got %s", c.Catalog.Timeout))
	}

	// Log validation
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb: must not be negative, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups: must not be negative, got %d", c.Log.MaxBackups))
	}

	// Metrics validation
	if c.Metrics.Address != "" {
		if _, port, err := net.SplitHostPort(c.Metrics.Address); err != nil || port == "" {
			errs = append(errs, fmt.Sprintf("metrics.address: must be host:port, got %q", c.Metrics.Address))
		}
	}

	// History validation
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path: required when history is enabled")
	}
	if c.History.Retention < 0 {
		errs = append(errs, fmt.Sprintf("history.retention: must not be negative, got %s", c.History.Retention))
	}

	return errs
}
