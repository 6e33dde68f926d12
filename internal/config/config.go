// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied before a config file is decoded. Keys absent from the
// file keep these values; keys present override them, including empty
// strings (startup_query = "" disables the startup search).
const (
	DefaultBaseURL      = "https://api.jikan.moe/v3/search"
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "anisearch"
	DefaultStartupQuery = "naruto"
	DefaultLogLevel     = "info"
	DefaultRetention    = 30 * 24 * time.Hour
)

// Config is the root configuration structure.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Search  SearchConfig  `toml:"search"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	History HistoryConfig `toml:"history"`
}

// CatalogConfig configures the Jikan client.
type CatalogConfig struct {
	BaseURL   string        `toml:"base_url"`
	Timeout   time.Duration `toml:"timeout"`
	UserAgent string        `toml:"user_agent"`
	// EscapeQuery URL-encodes query text before it is appended to the
	// request URL. When false the text is sent exactly as typed.
	EscapeQuery bool `toml:"escape_query"`
}

type SearchConfig struct {
	StartupQuery          string `toml:"startup_query"`
	ClearLoadingOnFailure bool   `toml:"clear_loading_on_failure"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File receives logs while the TUI owns the terminal. Empty discards them.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type MetricsConfig struct {
	Address string `toml:"address"`
}

type HistoryConfig struct {
	Enabled   bool          `toml:"enabled"`
	Path      string        `toml:"path"`
	Retention time.Duration `toml:"retention"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:     DefaultBaseURL,
			Timeout:     DefaultTimeout,
			UserAgent:   DefaultUserAgent,
			EscapeQuery: true,
		},
		Search: SearchConfig{
			StartupQuery: DefaultStartupQuery,
		},
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		History: HistoryConfig{
			Enabled:   true,
			Path:      DefaultHistoryPath(),
			Retention: DefaultRetention,
		},
	}
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, skipping
// validation and tolerating unresolved environment variables.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	// Zero values that have no useful meaning fall back to defaults.
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = DefaultBaseURL
	}
	cfg.Catalog.BaseURL = strings.TrimRight(cfg.Catalog.BaseURL, "/")
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = DefaultTimeout
	}
	if cfg.Catalog.UserAgent == "" {
		cfg.Catalog.UserAgent = DefaultUserAgent
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	return cfg, missing, nil
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolvable references are left in place and reported in missing. Comment
// lines are copied unchanged so documented examples never count as missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			parts := envVarPattern.FindStringSubmatch(match)
			name, op, arg := parts[1], parts[2], parts[3]

			value, ok := os.LookupEnv(name)
			switch op {
			case ":-":
				if !ok || value == "" {
					return arg
				}
				return value
			case ":?":
				if !ok || value == "" {
					missing = append(missing, fmt.Sprintf("%s: %s", name, arg))
					return match
				}
				return value
			default:
				if !ok {
					missing = append(missing, name)
					return match
				}
				return value
			}
		})
	}
	return strings.Join(lines, ""), missing
}
