package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/precommit"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an " + config.FileName + " in the current directory",
		RunE:  initExecute,
	}
	cmd.Flags().String("preset", "", "language preset ("+strings.Join(config.PresetNames(), "|")+")")
	cmd.Flags().Bool("force", false, "overwrite an existing configuration")
	return cmd
}

func initExecute(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	preset, _ := cmd.Flags().GetString("preset")

	if _, err := os.Stat(config.FileName); err == nil && !force {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Configuration already exists: %s\n", color.YellowString("!"), config.FileName)
		fmt.Fprintln(cmd.ErrOrStderr(), "  Use --force to overwrite.")
		return errAlreadyReported
	}

	var cfg config.Config
	if preset != "" {
		cfg = config.Preset(preset)
	} else {
		cfg = config.Default()
		if precommit.ConfigExists(".", "") {
			cfg.Integration.PreCommit = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Detected %s - enabling integration\n",
				color.CyanString("•"), precommit.ConfigFile)
		}
	}

	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.FileName, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Created %s\n", color.GreenString("✓"), config.FileName)
	if preset != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "  Using preset: %s\n", preset)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "\nNext steps:")
	fmt.Fprintf(cmd.ErrOrStderr(), "  1. Review and customize %s\n", config.FileName)
	fmt.Fprintln(cmd.ErrOrStderr(), "  2. Run: apc install")

	return nil
}
