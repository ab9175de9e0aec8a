package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/output"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the checks configured for each mode",
		RunE:  listExecute,
	}
	cmd.Flags().String("mode", "", "list only one mode's checks (human|agent|ci)")
	return cmd
}

func listExecute(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return err
	}

	renderer := output.NewPretty(cmd.OutOrStdout())

	modeFlag, _ := cmd.Flags().GetString("mode")
	if modeFlag != "" {
		mode, parseErr := detect.ParseMode(modeFlag)
		if parseErr != nil {
			return parseErr
		}
		names := cfg.Human.Checks
		if mode.Thorough() {
			names = cfg.Agent.Checks
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Checks for %s mode:\n", mode)
		return renderer.RenderChecks(cfg, names)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Checks for human mode:")
	if err := renderer.RenderChecks(cfg, cfg.Human.Checks); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nChecks for agent/ci mode:")
	if err := renderer.RenderChecks(cfg, cfg.Agent.Checks); err != nil {
		return err
	}
	if len(cfg.Agent.ParallelGroups) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nParallel groups:")
		for i, group := range cfg.Agent.ParallelGroups {
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %v\n", i+1, group)
		}
	}
	return nil
}
