// Package config provides riscommit configuration with a defined load
// order: CLI flags > environment variables > repo config > global config >
// defaults.
//
// Paths:
//   - Repo: .riscommit/config.toml (relative to the repository path)
//   - Global: os.UserConfigDir()/riscommit/config.toml
//
// Environment variables:
//   - OPENAI_API_KEY (required; never read from config files)
//   - OPENAI_ENDPOINT (required unless endpoint is set in a config file)
//   - RISCOMMIT_POLICY (full or minimal)
//   - RISCOMMIT_STRICT (1/true/yes/on or 0/false/no/off)
//   - RISCOMMIT_TIMEOUT (Go duration string or integer seconds)
//   - RISCOMMIT_TEMPERATURE, RISCOMMIT_MAX_TOKENS (sampling parameters)
//   - RISCOMMIT_REMOTE (push remote; empty = git's configured default)
//   - RISCOMMIT_MAX_DIFF_BYTES (prompt diff budget; 0 = unlimited)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/classify"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/erruser"
	"github.com/HankHsueh11312/risc-git-auto-pushes-commit/cli/internal/prompt"
)

// Config holds all riscommit configuration. APIKey comes only from the
// environment so a key never ends up in a committed config file.
type Config struct {
	Endpoint     string
	APIKey       string
	Policy       string
	Strict       bool
	Timeout      time.Duration
	Temperature  float64
	MaxTokens    int
	Remote       string
	MaxDiffBytes int
	// Vocabulary is offered during manual resolution and embedded in the
	// prompt; defaults are the Advantech RISC board sets.
	Vocabulary prompt.Vocabulary
}

// Overrides represents optional CLI flag overrides. A non-nil pointer means
// "override with this value"; they are applied last.
type Overrides struct {
	Policy  *string
	Strict  *bool
	Timeout *time.Duration
	Remote  *string
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// RepoPath is the repository path argument; if set, repo config is
	// RepoPath/.riscommit/config.toml. Only a plain file read: Load never
	// touches git state, so credential validation still happens before any
	// repository access.
	RepoPath string
	// GlobalConfigPath overrides the XDG global config location (tests).
	GlobalConfigPath string
	// Env is the key=value environment; nil means os.Environ().
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultTimeout      = 60 * time.Second
	_defaultTemperature  = 0.7
	_defaultMaxTokens    = 800
	_defaultMaxDiffBytes = 32 * 1024
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Policy:       string(classify.PolicyFull),
		Timeout:      _defaultTimeout,
		Temperature:  _defaultTemperature,
		MaxTokens:    _defaultMaxTokens,
		MaxDiffBytes: _defaultMaxDiffBytes,
		Vocabulary: prompt.Vocabulary{
			CPUs:     []string{"imx8mm", "imx8mp", "imx93"},
			Machines: []string{"ROM-5721", "ROM-5722", "ROM-2820"},
			Types:    []string{"dts", "drivers", "config", "kconfig", "script", "patch"},
		},
	}
}

// fileConfig is the TOML shape. Timeout is a string so config files can say
// "90s" or "120" (seconds), same syntax as the environment variable.
type fileConfig struct {
	Endpoint     *string   `toml:"endpoint"`
	Policy       *string   `toml:"policy"`
	Strict       *bool     `toml:"strict"`
	Timeout      *string   `toml:"timeout"`
	Temperature  *float64  `toml:"temperature"`
	MaxTokens    *int      `toml:"max_tokens"`
	Remote       *string   `toml:"remote"`
	MaxDiffBytes *int      `toml:"max_diff_bytes"`
	CPUs         *[]string `toml:"cpus"`
	Machines     *[]string `toml:"machines"`
	Types        *[]string `toml:"types"`
}

// Load builds the effective configuration. Returns a user-facing error when
// credentials are missing or a value does not parse; no git command has run
// by the time Load returns.
func Load(opts LoadOptions) (*Config, error) {
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			globalPath = filepath.Join(dir, "riscommit", "config.toml")
		}
	}
	if globalPath != "" {
		if err := mergeFile(&cfg, globalPath); err != nil {
			return nil, err
		}
	}
	if opts.RepoPath != "" {
		if err := mergeFile(&cfg, filepath.Join(opts.RepoPath, ".riscommit", "config.toml")); err != nil {
			return nil, err
		}
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}
	if err := applyEnv(&cfg, env); err != nil {
		return nil, err
	}

	applyOverrides(&cfg, opts.Overrides)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeFile merges path into cfg. A missing file is not an error; a file
// that exists but does not parse is.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return erruser.New(fmt.Sprintf("Could not read config file %s.", path), err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return erruser.New(fmt.Sprintf("Config file %s is not valid TOML.", path), err)
	}
	if fc.Endpoint != nil {
		cfg.Endpoint = *fc.Endpoint
	}
	if fc.Policy != nil {
		cfg.Policy = *fc.Policy
	}
	if fc.Strict != nil {
		cfg.Strict = *fc.Strict
	}
	if fc.Timeout != nil {
		d, err := parseDuration(*fc.Timeout)
		if err != nil {
			return erruser.New(fmt.Sprintf("Invalid timeout in %s.", path), err)
		}
		cfg.Timeout = d
	}
	if fc.Temperature != nil {
		cfg.Temperature = *fc.Temperature
	}
	if fc.MaxTokens != nil {
		cfg.MaxTokens = *fc.MaxTokens
	}
	if fc.Remote != nil {
		cfg.Remote = *fc.Remote
	}
	if fc.MaxDiffBytes != nil {
		cfg.MaxDiffBytes = *fc.MaxDiffBytes
	}
	if fc.CPUs != nil {
		cfg.Vocabulary.CPUs = *fc.CPUs
	}
	if fc.Machines != nil {
		cfg.Vocabulary.Machines = *fc.Machines
	}
	if fc.Types != nil {
		cfg.Vocabulary.Types = *fc.Types
	}
	return nil
}

func applyEnv(cfg *Config, env []string) error {
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "OPENAI_API_KEY":
			cfg.APIKey = v
		case "OPENAI_ENDPOINT":
			cfg.Endpoint = v
		case "RISCOMMIT_POLICY":
			cfg.Policy = v
		case "RISCOMMIT_STRICT":
			b, err := parseBool(v)
			if err != nil {
				return erruser.New("Invalid RISCOMMIT_STRICT value.", err)
			}
			cfg.Strict = b
		case "RISCOMMIT_TIMEOUT":
			d, err := parseDuration(v)
			if err != nil {
				return erruser.New("Invalid RISCOMMIT_TIMEOUT value.", err)
			}
			cfg.Timeout = d
		case "RISCOMMIT_TEMPERATURE":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return erruser.New("Invalid RISCOMMIT_TEMPERATURE value.", err)
			}
			cfg.Temperature = f
		case "RISCOMMIT_MAX_TOKENS":
			n, err := strconv.Atoi(v)
			if err != nil {
				return erruser.New("Invalid RISCOMMIT_MAX_TOKENS value.", err)
			}
			cfg.MaxTokens = n
		case "RISCOMMIT_REMOTE":
			cfg.Remote = v
		case "RISCOMMIT_MAX_DIFF_BYTES":
			n, err := strconv.Atoi(v)
			if err != nil {
				return erruser.New("Invalid RISCOMMIT_MAX_DIFF_BYTES value.", err)
			}
			cfg.MaxDiffBytes = n
		}
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o == nil {
		return
	}
	if o.Policy != nil && *o.Policy != "" {
		cfg.Policy = *o.Policy
	}
	if o.Strict != nil {
		cfg.Strict = *o.Strict
	}
	if o.Timeout != nil {
		cfg.Timeout = *o.Timeout
	}
	if o.Remote != nil && *o.Remote != "" {
		cfg.Remote = *o.Remote
	}
}

func validate(cfg *Config) error {
	if cfg.APIKey == "" || cfg.Endpoint == "" {
		return erruser.New("Set OPENAI_API_KEY and OPENAI_ENDPOINT in the environment before running.", nil)
	}
	if _, err := classify.ParsePolicy(cfg.Policy); err != nil {
		return erruser.New("Invalid policy; use full or minimal.", err)
	}
	if cfg.Timeout < 0 {
		return erruser.New("Timeout must not be negative.", nil)
	}
	if cfg.MaxTokens <= 0 {
		return erruser.New("max_tokens must be positive.", nil)
	}
	return nil
}

// parseDuration accepts a Go duration string ("90s", "2m") or a bare
// non-negative integer meaning seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
