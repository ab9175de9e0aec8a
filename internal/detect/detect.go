// Package detect decides whether a commit is being made by a human, an AI
// coding agent, or CI.
//
// Detection is pure: it reads an injected environment snapshot and an
// explicit interactivity flag rather than process globals, so the priority
// chain is testable without mutating the real environment.
package detect

import (
	"fmt"
	"strings"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
)

// Mode selects the scheduling policy for a run.
type Mode int

const (
	// Human runs fast checks sequentially with fail-fast.
	Human Mode = iota
	// Agent runs thorough checks in bounded-parallel groups.
	Agent
	// CI behaves like Agent, with CI-oriented reporting.
	CI
)

// String returns the mode's lowercase name.
func (m Mode) String() string {
	switch m {
	case Agent:
		return "agent"
	case CI:
		return "ci"
	default:
		return "human"
	}
}

// Thorough reports whether this mode runs the full parallel check set.
func (m Mode) Thorough() bool {
	return m == Agent || m == CI
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "human":
		return Human, nil
	case "agent":
		return Agent, nil
	case "ci":
		return CI, nil
	default:
		return Human, fmt.Errorf("invalid mode %q: expected human, agent, or ci", s)
	}
}

// Env is a snapshot of environment variables. A key maps to its value;
// presence alone is significant for most detection rules.
type Env map[string]string

// Snapshot builds an Env from os.Environ-style KEY=VALUE pairs.
func Snapshot(environ []string) Env {
	env := make(Env, len(environ))
	for _, kv := range environ {
		if idx := strings.Index(kv, "="); idx != -1 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Detection is the outcome of mode detection.
type Detection struct {
	Mode Mode
	// Reason explains which rule fired, for diagnostics.
	Reason string
}

// knownAgentEnvVars indicate an AI coding agent session.
var knownAgentEnvVars = []string{
	// Claude Code
	"CLAUDE_CODE",
	"ANTHROPIC_PROJECT_ID",
	// Cursor
	"CURSOR_SESSION",
	"CURSOR_TRACE_ID",
	// Aider
	"AIDER_MODEL",
	"AIDER_CHAT_HISTORY_FILE",
	// OpenAI Codex / ChatGPT
	"CODEX_SESSION",
	"OPENAI_API_KEY_FOR_AGENT",
	// Devin
	"DEVIN_SESSION",
	"DEVIN_API_KEY",
	// Cline
	"CLINE_SESSION",
	"CLINE_API_KEY",
	// Continue.dev
	"CONTINUE_SESSION",
	"CONTINUE_GLOBAL_DIR",
	// GitHub Copilot Workspace
	"GITHUB_COPILOT_WORKSPACE",
	// Amazon CodeWhisperer / Q
	"AWS_CODEWHISPERER_SESSION",
	"AMAZON_Q_SESSION",
	// Sourcegraph Cody
	"CODY_SESSION",
	"SRC_ACCESS_TOKEN",
	// Tabnine
	"TABNINE_SESSION",
	// Replit Agent
	"REPLIT_AGENT",
	"REPL_ID",
	// Generic
	"AI_AGENT",
	"CODING_AGENT",
}

// knownCIEnvVars indicate a CI environment.
var knownCIEnvVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"BITBUCKET_PIPELINE",
	"AZURE_PIPELINES",
	"TEAMCITY_VERSION",
	"DRONE",
	"WOODPECKER",
	"SEMAPHORE",
	"APPVEYOR",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
	"NETLIFY",
	"VERCEL",
	"RENDER",
	"RAILWAY_ENVIRONMENT",
	"FLY_APP_NAME",
}

// Detect applies the priority chain: APC_MODE override, AGENT_MODE flag,
// known agent variables, config-supplied agent variables, CI variables,
// then the interactivity fallback. interactive should be true when both
// stdin and stdout are terminals.
func Detect(cfg config.DetectionConfig, env Env, interactive bool) Detection {
	if cfg.Mode != "" {
		if mode, err := ParseMode(cfg.Mode); err == nil {
			return Detection{Mode: mode, Reason: fmt.Sprintf("detection.mode=%s", cfg.Mode)}
		}
	}

	if value, ok := env["APC_MODE"]; ok {
		mode, err := ParseMode(value)
		if err != nil {
			mode = Human
		}
		return Detection{Mode: mode, Reason: fmt.Sprintf("APC_MODE=%s", value)}
	}

	if value, ok := env["AGENT_MODE"]; ok {
		if value == "1" || strings.EqualFold(value, "true") {
			return Detection{Mode: Agent, Reason: "AGENT_MODE=1"}
		}
	}

	for _, name := range knownAgentEnvVars {
		if _, ok := env[name]; ok {
			return Detection{Mode: Agent, Reason: "known agent env var: " + name}
		}
	}

	for _, name := range cfg.AgentEnvVars {
		if _, ok := env[name]; ok {
			return Detection{Mode: Agent, Reason: "custom agent env var: " + name}
		}
	}

	for _, name := range knownCIEnvVars {
		if _, ok := env[name]; ok {
			return Detection{Mode: CI, Reason: "CI environment: " + name}
		}
	}

	if !interactive {
		return Detection{Mode: Agent, Reason: "no TTY detected (non-interactive)"}
	}

	return Detection{Mode: Human, Reason: "default (no agent indicators)"}
}
