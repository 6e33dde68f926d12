package config

import (
	"fmt"
	"slices"
	"strings"
)

// ConfigError reports every problem found in one config file, so a user can
// fix them all before the next run.
type ConfigError struct {
	Path    string
	Missing []string // unresolved ${VAR} references
	Errors  []string // "section.key: problem" from Validate
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var problems []string
	if len(e.Missing) > 0 {
		problems = append(problems, "missing environment variables: "+strings.Join(e.Missing, ", "))
	}
	problems = append(problems, e.Errors...)

	if e.Path == "" {
		return "invalid config: " + strings.Join(problems, "; ")
	}
	return fmt.Sprintf("invalid config %s: %s", e.Path, strings.Join(problems, "; "))
}

// HasErrors reports whether anything was found.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}

// Sections returns the config sections (catalog, search, log, metrics,
// history) that failed validation, sorted and without duplicates.
func (e *ConfigError) Sections() []string {
	var sections []string
	for _, msg := range e.Errors {
		section, _, ok := strings.Cut(msg, ".")
		if !ok {
			continue
		}
		if !slices.Contains(sections, section) {
			sections = append(sections, section)
		}
	}
	slices.Sort(sections)
	return sections
}
