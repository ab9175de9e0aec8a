package config

import "strings"

// PresetNames lists the supported init presets.
func PresetNames() []string {
	return []string{"python", "node", "rust", "go"}
}

// Preset returns the default configuration extended with checks for the
// named language. Unknown presets return the plain default.
func Preset(name string) Config {
	cfg := Default()

	switch strings.ToLower(name) {
	case "python":
		cfg.Agent.Checks = []string{
			"pre-commit-all", "no-merge-conflicts", "test-unit",
			"test-integration", "security-scan", "build-verify",
		}
		mergeChecks(cfg.Checks, pythonChecks())
	case "node", "nodejs", "typescript":
		cfg.Agent.Checks = []string{
			"pre-commit-all", "no-merge-conflicts", "lint",
			"typecheck", "test-unit", "build-verify",
		}
		mergeChecks(cfg.Checks, nodeChecks())
	case "rust":
		cfg.Agent.Checks = []string{
			"no-merge-conflicts", "fmt-check", "clippy", "test-unit", "build-verify",
		}
		mergeChecks(cfg.Checks, rustChecks())
	case "go":
		cfg.Agent.Checks = []string{
			"no-merge-conflicts", "fmt-check", "lint", "test-unit", "build-verify",
		}
		mergeChecks(cfg.Checks, goChecks())
	}

	return cfg
}

func mergeChecks(dst, src map[string]CheckConfig) {
	for name, check := range src {
		dst[name] = check
	}
}

func fileExists(path string) *EnabledCondition {
	return &EnabledCondition{FileExists: path}
}

const noMergeConflictsScript = `git fetch origin main --quiet 2>/dev/null || git fetch origin master --quiet 2>/dev/null || true
MAIN_BRANCH=$(git rev-parse --verify origin/main 2>/dev/null && echo "main" || echo "master")
BASE=$(git merge-base HEAD origin/$MAIN_BRANCH 2>/dev/null || echo "")
if [ -n "$BASE" ]; then
    if git merge-tree $BASE HEAD origin/$MAIN_BRANCH 2>/dev/null | grep -q "^<<<<<<<"; then
        echo "would conflict with $MAIN_BRANCH"
        exit 1
    fi
fi
echo "no conflicts with $MAIN_BRANCH"`

func defaultChecks() map[string]CheckConfig {
	return map[string]CheckConfig{
		"pre-commit": {
			Run:         "pre-commit run",
			Description: "Run pre-commit on staged files",
			EnabledIf:   fileExists(".pre-commit-config.yaml"),
		},
		"pre-commit-all": {
			Run:         "pre-commit run --all-files",
			Description: "Run pre-commit on all files",
			EnabledIf:   fileExists(".pre-commit-config.yaml"),
		},
		"test-unit": {
			Run:         "echo 'No test command configured. Use apc init --preset <lang> or define checks.test-unit.run in your config.'",
			Description: "Run unit tests (configure with a preset or custom command)",
		},
		"no-merge-conflicts": {
			Run:         noMergeConflictsScript,
			Description: "Ensure no merge conflicts with main/master",
		},
	}
}

func pythonChecks() map[string]CheckConfig {
	return map[string]CheckConfig{
		"test-unit": {
			Run:         "pytest -x -q",
			Description: "Run unit tests",
			EnabledIf:   fileExists("pyproject.toml"),
		},
		"test-integration": {
			Run:         "pytest tests/integration/ -v",
			Description: "Run integration tests",
			EnabledIf:   &EnabledCondition{DirExists: "tests/integration"},
		},
		"security-scan": {
			Run:         "gitleaks detect --source . --no-git",
			Description: "Scan for secrets",
			EnabledIf:   &EnabledCondition{CommandExists: "gitleaks"},
		},
		"build-verify": {
			Run:         "python -m build --no-isolation",
			Description: "Verify package builds",
			EnabledIf:   fileExists("pyproject.toml"),
		},
	}
}

func nodeChecks() map[string]CheckConfig {
	return map[string]CheckConfig{
		"lint": {
			Run:         "npm run lint",
			Description: "Run ESLint",
			EnabledIf:   fileExists("package.json"),
		},
		"typecheck": {
			Run:         "npm run typecheck || npx tsc --noEmit",
			Description: "Run TypeScript type checking",
			EnabledIf:   fileExists("tsconfig.json"),
		},
		"test-unit": {
			Run:         "npm test",
			Description: "Run unit tests",
			EnabledIf:   fileExists("package.json"),
		},
		"build-verify": {
			Run:         "npm run build",
			Description: "Verify build works",
			EnabledIf:   fileExists("package.json"),
		},
	}
}

func rustChecks() map[string]CheckConfig {
	return map[string]CheckConfig{
		"fmt-check": {
			Run:         "cargo fmt --all -- --check",
			Description: "Check code formatting",
			EnabledIf:   fileExists("Cargo.toml"),
		},
		"clippy": {
			Run:         "cargo clippy --all-targets --all-features -- -D warnings",
			Description: "Run Clippy lints",
			EnabledIf:   fileExists("Cargo.toml"),
		},
		"test-unit": {
			Run:         "cargo test",
			Description: "Run unit tests",
			EnabledIf:   fileExists("Cargo.toml"),
		},
		"build-verify": {
			Run:         "cargo build --release",
			Description: "Verify release build",
			EnabledIf:   fileExists("Cargo.toml"),
		},
	}
}

func goChecks() map[string]CheckConfig {
	return map[string]CheckConfig{
		"fmt-check": {
			Run:         `test -z "$(gofmt -l .)"`,
			Description: "Check code formatting",
			EnabledIf:   fileExists("go.mod"),
		},
		"lint": {
			Run:         "golangci-lint run",
			Description: "Run golangci-lint",
			EnabledIf:   &EnabledCondition{CommandExists: "golangci-lint"},
		},
		"test-unit": {
			Run:         "go test ./...",
			Description: "Run unit tests",
			EnabledIf:   fileExists("go.mod"),
		},
		"build-verify": {
			Run:         "go build ./...",
			Description: "Verify build works",
			EnabledIf:   fileExists("go.mod"),
		},
	}
}
