package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
)

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the git pre-commit hook",
		RunE:  uninstallExecute,
	}
}

func uninstallExecute(cmd *cobra.Command, args []string) error {
	repo, err := gitrepo.Discover("")
	if err != nil {
		return err
	}

	hookPath := repo.HookPath("pre-commit")

	content, readErr := os.ReadFile(hookPath)
	if readErr != nil {
		if errors.Is(readErr, os.ErrNotExist) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s No hook installed at %s\n", color.CyanString("•"), hookPath)
			return nil
		}
		return fmt.Errorf("read hook: %w", readErr)
	}

	if !strings.Contains(string(content), hookMarker) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Hook at %s was not installed by agent-precommit\n", color.YellowString("!"), hookPath)
		fmt.Fprintln(cmd.ErrOrStderr(), "  Remove manually if desired.")
		return errAlreadyReported
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("remove hook: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Removed pre-commit hook from %s\n", color.GreenString("✓"), hookPath)

	backupPath := filepath.Join(repo.HooksDir(), "pre-commit.bak")
	if _, err := os.Stat(backupPath); err == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Backup exists at %s - restore if needed\n", backupPath)
	}
	return nil
}
