package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

const generatedHeader = "# anisearch configuration, written from a loaded config.\n" +
	"# Environment references that resolved when it was written are now literal values.\n\n"

// DefaultConfig returns the commented example config.
func DefaultConfig() string {
	return defaultConfig
}

// WriteDefault writes the example config to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	return writeFile(path, []byte(defaultConfig))
}

// Write encodes the config as TOML and writes it to path. The file is
// replaced atomically so a failed write never leaves a truncated config.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
