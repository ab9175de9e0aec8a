// Package config loads and validates agent-precommit.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file name searched for up the directory tree.
const FileName = "agent-precommit.toml"

// ErrNotFound is returned when no configuration file exists between the
// start directory and the filesystem root.
var ErrNotFound = errors.New("config file not found")

// Config is the top-level configuration.
type Config struct {
	Detection   DetectionConfig        `toml:"detection"`
	Integration IntegrationConfig      `toml:"integration"`
	Human       ModeConfig             `toml:"human"`
	Agent       AgentModeConfig        `toml:"agent"`
	Checks      map[string]CheckConfig `toml:"checks"`
}

// DetectionConfig tunes mode detection.
type DetectionConfig struct {
	// Mode forces a specific mode, overriding auto-detection.
	Mode string `toml:"mode,omitempty"`
	// AgentEnvVars lists extra environment variables that indicate an agent.
	AgentEnvVars []string `toml:"agent_env_vars,omitempty"`
}

// IntegrationConfig controls pre-commit framework integration.
type IntegrationConfig struct {
	PreCommit     bool   `toml:"pre_commit"`
	PreCommitPath string `toml:"pre_commit_path"`
}

// ModeConfig holds per-mode scheduling settings.
type ModeConfig struct {
	Checks   []string `toml:"checks"`
	Timeout  string   `toml:"timeout"`
	FailFast bool     `toml:"fail_fast"`
}

// AgentModeConfig extends ModeConfig with parallel execution groups.
type AgentModeConfig struct {
	Checks   []string `toml:"checks"`
	Timeout  string   `toml:"timeout"`
	FailFast bool     `toml:"fail_fast"`
	// ParallelGroups are ordered stages; checks within a stage may run
	// concurrently. Every member must also appear in Checks.
	ParallelGroups [][]string `toml:"parallel_groups,omitempty"`
}

// CheckConfig defines a single named check.
type CheckConfig struct {
	Run         string            `toml:"run"`
	Description string            `toml:"description"`
	EnabledIf   *EnabledCondition `toml:"enabled_if,omitempty"`
	Env         map[string]string `toml:"env,omitempty"`
}

// FromCommand synthesizes a check that runs the literal command text.
func FromCommand(cmd string) CheckConfig {
	return CheckConfig{Run: cmd, Description: cmd}
}

// EnabledCondition gates whether a check runs. All present predicates must
// hold.
type EnabledCondition struct {
	FileExists    string `toml:"file_exists,omitempty"`
	DirExists     string `toml:"dir_exists,omitempty"`
	CommandExists string `toml:"command_exists,omitempty"`
}

// Default returns the baseline configuration with the stock check set.
func Default() Config {
	return Config{
		Integration: IntegrationConfig{
			PreCommitPath: ".pre-commit-config.yaml",
		},
		Human: ModeConfig{
			Checks:   []string{"pre-commit"},
			Timeout:  "30s",
			FailFast: true,
		},
		Agent: AgentModeConfig{
			Checks:   []string{"pre-commit-all", "no-merge-conflicts", "test-unit"},
			Timeout:  "15m",
			FailFast: false,
		},
		Checks: defaultChecks(),
	}
}

// Find walks up from start looking for the config file. Symlinks are
// resolved so the returned path is canonical.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start dir: %w", err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("canonicalize start dir: %w", err)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, statErr := os.Stat(path); statErr == nil {
			resolved, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return "", fmt.Errorf("canonicalize config path: %w", evalErr)
			}
			return resolved, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: searched from %s", ErrNotFound, start)
		}
		dir = parent
	}
}

// Load reads and validates the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the nearest config above start, or returns defaults
// when none exists.
func LoadOrDefault(start string) (Config, error) {
	path, err := Find(start)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Default(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Validate checks internal consistency: parseable timeouts, referenced
// checks defined, parallel-group members present in agent.checks, and
// non-empty commands.
func (c Config) Validate() error {
	if _, err := time.ParseDuration(c.Human.Timeout); err != nil {
		return fmt.Errorf("human.timeout: invalid duration %q", c.Human.Timeout)
	}
	if _, err := time.ParseDuration(c.Agent.Timeout); err != nil {
		return fmt.Errorf("agent.timeout: invalid duration %q", c.Agent.Timeout)
	}

	for _, name := range c.Human.Checks {
		if _, ok := c.Checks[name]; !ok {
			return fmt.Errorf("human.checks: check %q is referenced but not defined in [checks]", name)
		}
	}
	for _, name := range c.Agent.Checks {
		if _, ok := c.Checks[name]; !ok {
			return fmt.Errorf("agent.checks: check %q is referenced but not defined in [checks]", name)
		}
	}

	agentChecks := make(map[string]struct{}, len(c.Agent.Checks))
	for _, name := range c.Agent.Checks {
		agentChecks[name] = struct{}{}
	}
	for i, group := range c.Agent.ParallelGroups {
		for _, name := range group {
			if _, ok := agentChecks[name]; !ok {
				return fmt.Errorf("agent.parallel_groups[%d]: check %q is in a parallel group but not in agent.checks", i, name)
			}
		}
	}

	for name, check := range c.Checks {
		if strings.TrimSpace(check.Run) == "" {
			return fmt.Errorf("checks.%s.run: check command cannot be empty", name)
		}
	}

	return nil
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
