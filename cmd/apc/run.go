package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
	"github.com/AngeloGiacco/Agent-Precommit/internal/output"
	"github.com/AngeloGiacco/Agent-Precommit/internal/report"
	"github.com/AngeloGiacco/Agent-Precommit/internal/runner"
)

// errAlreadyReported signals a nonzero exit without an extra error line; the
// renderer already printed the failure details.
var errAlreadyReported = errors.New("one or more checks failed")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the checks for the detected (or given) mode",
		RunE:  runExecute,
	}
	cmd.Flags().String("mode", "", "override mode detection (human|agent|ci)")
	cmd.Flags().String("check", "", "run a single named check")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runExecute(cmd *cobra.Command, args []string) error {
	if os.Getenv("APC_SKIP") == "1" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Skipping checks (APC_SKIP=1)\n", color.CyanString("•"))
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return err
	}

	mode, err := selectMode(cmd, cfg)
	if err != nil {
		return err
	}

	repo, repoErr := gitrepo.Discover(cwd)
	if repoErr != nil {
		repo = nil
	}

	jsonFormat, err := isJSONFormat(cmd)
	if err != nil {
		return err
	}

	opts := runner.Options{
		Repo: repo,
		Diag: cmd.ErrOrStderr(),
	}
	if !jsonFormat {
		opts.Progress = cmd.ErrOrStderr()
	}
	r := runner.New(cfg, opts)

	var run *report.Run
	if name, _ := cmd.Flags().GetString("check"); name != "" {
		result, singleErr := r.RunSingle(cmd.Context(), name, mode)
		if singleErr != nil {
			return singleErr
		}
		run = &report.Run{Mode: mode, Checks: []report.CheckResult{result}, Duration: result.Output.Duration}
	} else {
		run, err = r.Run(cmd.Context(), mode)
		if err != nil {
			return err
		}
	}

	if jsonFormat {
		if err := output.NewJSON(cmd.OutOrStdout()).RenderRun(run, nil); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr())
		if err := output.NewPretty(cmd.ErrOrStderr()).RenderRun(run); err != nil {
			return err
		}
	}

	if !run.Success() {
		return errAlreadyReported
	}
	return nil
}

func selectMode(cmd *cobra.Command, cfg config.Config) (detect.Mode, error) {
	if override, _ := cmd.Flags().GetString("mode"); override != "" {
		return detect.ParseMode(override)
	}

	detection := detect.Detect(cfg.Detection, detect.Snapshot(os.Environ()), interactive())
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Mode: %s (%s)\n",
		color.CyanString("•"), color.New(color.Bold).Sprint(detection.Mode), detection.Reason)
	return detection.Mode, nil
}

func isJSONFormat(cmd *cobra.Command) (bool, error) {
	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(format) {
	case "", "pretty":
		return false, nil
	case "json":
		return true, nil
	default:
		return false, fmt.Errorf("unsupported format %q", format)
	}
}

// interactive reports whether stdin or stdout is a terminal. Either side
// being a TTY is enough: a human piping apc's output is still a human.
func interactive() bool {
	stdin := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	stdout := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return stdin || stdout
}
