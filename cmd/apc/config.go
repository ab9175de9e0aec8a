package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		RunE:  configExecute,
	}
	cmd.Flags().Bool("raw", false, "print the config file verbatim instead of the effective config")
	return cmd
}

func configExecute(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		path, findErr := config.Find(cwd)
		if findErr != nil {
			return findErr
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read config %q: %w", path, readErr)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return err
	}
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
