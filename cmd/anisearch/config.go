package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anisearch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values, and environment variable substitution without searching.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the example configuration",
	Long: `Writes the commented example config to path (default: $XDG_CONFIG_HOME/anisearch/config.toml).

With --from-current the config in use (--config or the discovered file) is
rewritten to path instead, filled in with defaults. It is not validated, so a
config that fails "config test" can still be normalized and then fixed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configInitCmd.Flags().Bool("from-current", false, "Write the current config instead of the example")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}
	return testConfig(cmd.OutOrStdout(), path)
}

func testConfig(out io.Writer, path string) error {
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(out io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(out, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(out, "  - %s\n", m)
		}
		fmt.Fprintln(out)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(out, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(out, "  - %s\n", err)
		}
		fmt.Fprintln(out)
	}

	if sections := e.Sections(); len(sections) > 0 {
		fmt.Fprintf(out, "Sections to fix: %s\n", strings.Join(sections, ", "))
	}
}

func printConfigSummary(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration Summary:")
	fmt.Fprintf(out, "  Catalog:    %s (timeout %s, escape query: %t)\n", cfg.Catalog.BaseURL, cfg.Catalog.Timeout, cfg.Catalog.EscapeQuery)

	startup := cfg.Search.StartupQuery
	if startup == "" {
		startup = "(none)"
	}
	fmt.Fprintf(out, "  Startup:    %s\n", startup)

	onFailure := "keep loading"
	if cfg.Search.ClearLoadingOnFailure {
		onFailure = "show error"
	}
	fmt.Fprintf(out, "  On failure: %s\n", onFailure)

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "discarded in tui"
	}
	fmt.Fprintf(out, "  Log:        %s (%s)\n", cfg.Log.Level, logFile)

	if cfg.Metrics.Address != "" {
		fmt.Fprintf(out, "  Metrics:    %s/metrics\n", cfg.Metrics.Address)
	}

	if cfg.History.Enabled {
		fmt.Fprintf(out, "  History:    %s (retention %s)\n", cfg.History.Path, cfg.History.Retention)
	} else {
		fmt.Fprintln(out, "  History:    disabled")
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	fromCurrent, _ := cmd.Flags().GetBool("from-current")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	var source string
	if fromCurrent {
		source = configPath
		if source == "" {
			found, err := config.Discover()
			if err != nil {
				return err
			}
			source = found
		}
	}
	return initConfig(cmd.OutOrStdout(), path, source, force)
}

// initConfig writes the example config to path, or the config loaded from
// source when source is set.
func initConfig(out io.Writer, path, source string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if source == "" {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	}

	cfg, err := config.LoadWithoutValidation(source)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Write(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s (from %s)\n", path, source)
	return nil
}
