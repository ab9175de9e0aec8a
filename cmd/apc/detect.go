package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the mode that would be used and why",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("determine working directory: %w", err)
			}
			cfg, err := config.LoadOrDefault(cwd)
			if err != nil {
				return err
			}

			detection := detect.Detect(cfg.Detection, detect.Snapshot(os.Environ()), interactive())
			fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s\n", detection.Mode)
			fmt.Fprintf(cmd.OutOrStdout(), "Reason: %s\n", detection.Reason)
			if detection.Mode.Thorough() {
				fmt.Fprintln(cmd.OutOrStdout(), "Scheduling: parallel groups, full check set")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Scheduling: sequential, fail-fast")
			}
			return nil
		},
	}
}
