package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bgricker/actioncheck/internal/validate"
)

// Config captures CLI options sourced from config files or flags.
type Config struct {
	Workflows   []string `yaml:"workflows"`
	Format      string   `yaml:"format"`
	Annotations string   `yaml:"annotations"`
	Verbose     bool     `yaml:"verbose"`

	Lint LintSettings `yaml:"lint"`
}

// LintSettings toggles individual heuristics. A nil field means enabled.
// Disabling a rule suppresses warnings only; it never changes a verdict.
type LintSettings struct {
	Tabs           *bool `yaml:"tabs"`
	Quotes         *bool `yaml:"quotes"`
	EmptyJobs      *bool `yaml:"empty_jobs"`
	MissingTrigger *bool `yaml:"missing_trigger"`
}

// Rules converts the settings into the engine's rule set.
func (s LintSettings) Rules() validate.LintRules {
	rules := validate.DefaultLintRules()
	if s.Tabs != nil {
		rules.Tabs = *s.Tabs
	}
	if s.Quotes != nil {
		rules.Quotes = *s.Quotes
	}
	if s.EmptyJobs != nil {
		rules.EmptyJobs = *s.EmptyJobs
	}
	if s.MissingTrigger != nil {
		rules.MissingTrigger = *s.MissingTrigger
	}
	return rules
}

const (
	// FormatPretty renders the human readable report.
	FormatPretty = "pretty"
	// FormatJSON renders the versioned machine readable contract.
	FormatJSON = "json"

	// AnnotationsAuto emits CI annotations when GITHUB_ACTIONS is set.
	AnnotationsAuto = "auto"
	// AnnotationsOn always emits CI annotations.
	AnnotationsOn = "on"
	// AnnotationsOff never emits CI annotations.
	AnnotationsOff = "off"
)

// Default returns the baseline configuration used when no flags or config
// file specify values.
func Default() Config {
	return Config{
		Format:      FormatPretty,
		Annotations: AnnotationsAuto,
	}
}

// Load reads .actioncheck.yml from the repository root when present.
// Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, ".actioncheck.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	return merge(cfg, fileCfg), nil
}

func merge(base, override Config) Config {
	out := base

	if len(override.Workflows) > 0 {
		out.Workflows = append([]string{}, override.Workflows...)
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.Annotations != "" {
		out.Annotations = override.Annotations
	}
	if override.Verbose {
		out.Verbose = true
	}

	if override.Lint.Tabs != nil {
		out.Lint.Tabs = override.Lint.Tabs
	}
	if override.Lint.Quotes != nil {
		out.Lint.Quotes = override.Lint.Quotes
	}
	if override.Lint.EmptyJobs != nil {
		out.Lint.EmptyJobs = override.Lint.EmptyJobs
	}
	if override.Lint.MissingTrigger != nil {
		out.Lint.MissingTrigger = override.Lint.MissingTrigger
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.Workflows.Values) > 0 {
		cfg.Workflows = append([]string{}, flags.Workflows.Values...)
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.Annotations.Set {
		cfg.Annotations = flags.Annotations.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was
// set explicitly.
type FlagValues struct {
	Workflows   SliceFlag
	Format      StringFlag
	Annotations StringFlag
	Verbose     BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
