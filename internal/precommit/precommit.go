// Package precommit integrates with the pre-commit framework
// (https://pre-commit.com).
package precommit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AngeloGiacco/Agent-Precommit/internal/executor"
)

// ConfigFile is the pre-commit framework's config file name.
const ConfigFile = ".pre-commit-config.yaml"

// ErrNotInstalled is returned when the pre-commit binary is absent from PATH.
var ErrNotInstalled = errors.New("pre-commit is not installed")

// ErrConfigNotFound is returned when the repository has no pre-commit config.
var ErrConfigNotFound = errors.New("pre-commit config not found")

// IsInstalled reports whether the pre-commit binary is on PATH.
func IsInstalled() bool {
	return executor.CommandExists("pre-commit")
}

// ConfigExists reports whether the repo has a pre-commit config at path,
// which defaults to ConfigFile when empty.
func ConfigExists(repoRoot, path string) bool {
	if path == "" {
		path = ConfigFile
	}
	_, err := os.Stat(filepath.Join(repoRoot, path))
	return err == nil
}

// Config mirrors the subset of .pre-commit-config.yaml apc cares about.
type Config struct {
	Repos []Repo `yaml:"repos"`
}

// Repo is one hook source in the pre-commit config.
type Repo struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev,omitempty"`
	Hooks []Hook `yaml:"hooks"`
}

// Hook is a single hook entry.
type Hook struct {
	ID string `yaml:"id"`
}

// LoadConfig parses the pre-commit config under repoRoot. An empty path
// defaults to ConfigFile.
func LoadConfig(repoRoot, path string) (Config, error) {
	if path == "" {
		path = ConfigFile
	}
	full := filepath.Join(repoRoot, path)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, full)
		}
		return Config{}, fmt.Errorf("read pre-commit config %q: %w", full, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse pre-commit config %q: %w", full, err)
	}
	return cfg, nil
}

// HookIDs returns the ids of all configured hooks.
func (c Config) HookIDs() []string {
	var ids []string
	for _, repo := range c.Repos {
		for _, hook := range repo.Hooks {
			ids = append(ids, hook.ID)
		}
	}
	return ids
}

// Command builds a "pre-commit run" command line. Extra arguments must be
// flags; anything else is rejected so user input can never smuggle a
// positional argument into the shell.
func Command(allFiles bool, extraArgs []string) (string, error) {
	args := make([]string, 0, len(extraArgs)+1)
	if allFiles {
		args = append(args, "--all-files")
	}
	for _, arg := range extraArgs {
		if !strings.HasPrefix(arg, "-") || strings.ContainsAny(arg, " \t;|&$`") {
			return "", fmt.Errorf("invalid pre-commit argument: %q", arg)
		}
		args = append(args, arg)
	}

	if len(args) == 0 {
		return "pre-commit run", nil
	}
	return "pre-commit run " + strings.Join(args, " "), nil
}

// Run executes pre-commit in repoRoot with inherited stdio and reports
// whether it passed. allFiles selects the full-tree run.
func Run(ctx context.Context, repoRoot string, allFiles bool) (bool, error) {
	if !IsInstalled() {
		return false, ErrNotInstalled
	}
	if !ConfigExists(repoRoot, "") {
		return false, fmt.Errorf("%w: %s", ErrConfigNotFound, filepath.Join(repoRoot, ConfigFile))
	}

	cmd, err := Command(allFiles, nil)
	if err != nil {
		return false, err
	}

	out, err := executor.Execute(ctx, cmd, executor.Options{Dir: repoRoot})
	if err != nil {
		return false, err
	}
	return out.Success(), nil
}
