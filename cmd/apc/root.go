package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "apc",
		Short:         "apc runs pre-commit checks tuned to who is committing",
		Long:          "apc distinguishes human, agent, and CI commits and runs the check set configured for each: fast sequential checks for humans, thorough parallel checks for agents and CI.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newDetectCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newUninstallCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
