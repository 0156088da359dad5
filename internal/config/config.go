// Package config loads .vylint.yaml project configuration.
//
// Configuration is discovered by walking upward from the linted file's
// directory, so one file at a repository root covers every contract under
// it. A missing file is not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"vylint/internal/rules"
)

// FileName is the configuration file searched for during discovery.
const FileName = ".vylint.yaml"

type Config struct {
	// Vyper names the compiler binary or an absolute path to it.
	Vyper string `yaml:"vyper"`
	// Paths are extra import search paths handed to the compiler.
	Paths []string `yaml:"paths"`
	// Disabled lists rule codes excluded from every run.
	Disabled []string `yaml:"disabled"`
	// Severities overrides rule severities by code, e.g. VY001: error.
	Severities map[string]string `yaml:"severities"`
	// FailOn is the severity from which issues affect the exit code.
	FailOn string `yaml:"fail_on"`
}

func Default() *Config {
	return &Config{
		Vyper:  "vyper",
		FailOn: "warning",
	}
}

// Load reads and validates one configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover searches dir and its ancestors for a configuration file. It
// returns the defaults and an empty path when nothing is found.
func Discover(dir string) (*Config, string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		candidate := filepath.Join(cur, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Default(), "", nil
		}
		cur = parent
	}
}

func (c *Config) validate() error {
	if c.Vyper == "" {
		c.Vyper = "vyper"
	}
	if c.FailOn == "" {
		c.FailOn = "warning"
	}
	if _, err := rules.ParseSeverity(c.FailOn); err != nil {
		return fmt.Errorf("fail_on: %w", err)
	}
	for code, name := range c.Severities {
		if _, err := rules.ParseSeverity(name); err != nil {
			return fmt.Errorf("severities.%s: %w", code, err)
		}
	}
	return nil
}

// FailOnSeverity returns the typed exit-code threshold.
func (c *Config) FailOnSeverity() rules.Severity {
	s, err := rules.ParseSeverity(c.FailOn)
	if err != nil {
		return rules.SeverityWarning
	}
	return s
}

// SeverityOverrides returns the typed severity overrides. Validation at load
// time guarantees the names parse.
func (c *Config) SeverityOverrides() map[string]rules.Severity {
	out := make(map[string]rules.Severity, len(c.Severities))
	for code, name := range c.Severities {
		if s, err := rules.ParseSeverity(name); err == nil {
			out[code] = s
		}
	}
	return out
}
