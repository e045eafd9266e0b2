// Package config resolves engine tuning parameters from a YAML file,
// environment variables, and CLI flags, with per-value provenance so
// config output can show where each setting came from.
// Precedence: CLI > environment > config file > compiled default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hatch-crm/mlsdraft/internal/match"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is one setting with its provenance.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries CLI-level overrides into resolution.
type ResolveOptions struct {
	ConfigPath           string
	CLIDBPath            string
	CLIPrimaryThreshold  string
	CLIFallbackThreshold string
}

// ResolvedConfig is the full resolved setting table.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath            ResolvedValue `json:"db_path"`
	PrimaryThreshold  ResolvedValue `json:"primary_threshold"`
	FallbackThreshold ResolvedValue `json:"fallback_threshold"`
}

type fileConfig struct {
	DBPath  string `yaml:"db_path"`
	Matcher struct {
		PrimaryThreshold  string `yaml:"primary_threshold"`
		FallbackThreshold string `yaml:"fallback_threshold"`
	} `yaml:"matcher"`
}

// DefaultConfigPath is ~/.mlsdraft/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mlsdraft", "config.yaml")
}

// DefaultDBPath is ~/.mlsdraft/drafts.db.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mlsdraft", "drafts.db")
}

// ResolveConfig loads the config file (missing files are not an error) and
// layers env and CLI overrides on top.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.PrimaryThreshold, cfg.Matcher.PrimaryThreshold, SourceConfig, path)
		apply(&out.FallbackThreshold, cfg.Matcher.FallbackThreshold, SourceConfig, path)
	}

	apply(&out.DBPath, os.Getenv("MLSDRAFT_DB"), SourceEnv, "MLSDRAFT_DB")
	apply(&out.PrimaryThreshold, os.Getenv("MLSDRAFT_PRIMARY_THRESHOLD"), SourceEnv, "MLSDRAFT_PRIMARY_THRESHOLD")
	apply(&out.FallbackThreshold, os.Getenv("MLSDRAFT_FALLBACK_THRESHOLD"), SourceEnv, "MLSDRAFT_FALLBACK_THRESHOLD")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "flag")
	apply(&out.PrimaryThreshold, opts.CLIPrimaryThreshold, SourceCLI, "flag")
	apply(&out.FallbackThreshold, opts.CLIFallbackThreshold, SourceCLI, "flag")

	if out.DBPath.Value == "" {
		out.DBPath = ResolvedValue{Value: DefaultDBPath(), Source: SourceDefault}
	}
	if out.PrimaryThreshold.Value == "" {
		out.PrimaryThreshold = ResolvedValue{
			Value:  strconv.FormatFloat(match.DefaultPrimaryThreshold, 'f', -1, 64),
			Source: SourceDefault,
		}
	}
	if out.FallbackThreshold.Value == "" {
		out.FallbackThreshold = ResolvedValue{
			Value:  strconv.FormatFloat(match.DefaultFallbackThreshold, 'f', -1, 64),
			Source: SourceDefault,
		}
	}

	return out, nil
}

// MatcherOptions converts the resolved threshold strings into matcher
// options, validating ranges.
func (c ResolvedConfig) MatcherOptions() (match.Options, error) {
	opts := match.DefaultOptions()
	primary, err := parseThreshold(c.PrimaryThreshold.Value, "primary_threshold")
	if err != nil {
		return opts, err
	}
	fallback, err := parseThreshold(c.FallbackThreshold.Value, "fallback_threshold")
	if err != nil {
		return opts, err
	}
	if fallback > primary {
		return opts, fmt.Errorf("fallback_threshold %.2f exceeds primary_threshold %.2f", fallback, primary)
	}
	opts.PrimaryThreshold = primary
	opts.FallbackThreshold = fallback
	return opts, nil
}

func parseThreshold(s, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	if f <= 0 || f > 1 {
		return 0, fmt.Errorf("%s must be in (0, 1], got %v", name, f)
	}
	return f, nil
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

func apply(dst *ResolvedValue, value string, source ValueSource, from string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*dst = ResolvedValue{Value: value, Source: source, From: from}
}
