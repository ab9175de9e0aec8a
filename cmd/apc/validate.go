package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
	"github.com/AngeloGiacco/Agent-Precommit/internal/precommit"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}

			path, err := config.Find(cwd)
			if err != nil {
				return err
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid\n", color.GreenString("✓"), path)
			fmt.Fprintf(cmd.OutOrStdout(), "  %d checks, %d human, %d agent\n",
				len(cfg.Checks), len(cfg.Human.Checks), len(cfg.Agent.Checks))

			if cfg.Integration.PreCommit {
				root := cwd
				if repo, repoErr := gitrepo.Discover(cwd); repoErr == nil {
					root = repo.Root()
				}
				pcCfg, pcErr := precommit.LoadConfig(root, cfg.Integration.PreCommitPath)
				if pcErr != nil {
					return fmt.Errorf("pre-commit integration enabled but %w", pcErr)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s pre-commit config parsed (%d hooks)\n",
					color.GreenString("✓"), len(pcCfg.HookIDs()))
				if !precommit.IsInstalled() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s pre-commit binary not found on PATH\n", color.YellowString("!"))
				}
			}

			return nil
		},
	}
}
