package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
)

// hookScript is written to .git/hooks/pre-commit by `apc install`.
const hookScript = `#!/bin/sh
# agent-precommit hook - installed by ` + "`apc install`" + `

# Skip if APC_SKIP is set
if [ "$APC_SKIP" = "1" ]; then
    exit 0
fi

# Run agent-precommit
exec apc run
`

// hookMarker identifies hooks we installed.
const hookMarker = "# agent-precommit hook"

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the git pre-commit hook",
		RunE:  installExecute,
	}
	cmd.Flags().Bool("force", false, "back up and replace a foreign pre-commit hook")
	return cmd
}

func installExecute(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	repo, err := gitrepo.Discover("")
	if err != nil {
		return err
	}

	hooksDir := repo.HooksDir()
	hookPath := filepath.Join(hooksDir, "pre-commit")

	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("create hooks dir: %w", err)
	}

	if existing, readErr := os.ReadFile(hookPath); readErr == nil {
		if strings.Contains(string(existing), hookMarker) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Hook already installed at %s\n", color.GreenString("✓"), hookPath)
			return nil
		}
		if !force {
			return fmt.Errorf("a pre-commit hook already exists at %s; use --force to back it up and replace it", hookPath)
		}
		backupPath := filepath.Join(hooksDir, "pre-commit.bak")
		if err := os.Rename(hookPath, backupPath); err != nil {
			return fmt.Errorf("backup hook: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Backed up existing hook to %s\n", color.CyanString("•"), backupPath)
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0o755); err != nil {
		return fmt.Errorf("write hook: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Installed pre-commit hook at %s\n", color.GreenString("✓"), hookPath)
	return nil
}
