// Package output renders run reports for humans and machines.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/report"
)

// TailLines bounds how much of a failed check's output is shown.
const TailLines = 20

// PrettyRenderer renders run results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderRun prints the run summary and, for failures, each failed check's
// combined output tailed to TailLines.
func (p *PrettyRenderer) RenderRun(run *report.Run) error {
	if run.Success() {
		_, err := fmt.Fprintf(p.out, "%s All checks passed (%d passed, %d skipped) in %s\n",
			color.New(color.FgGreen, color.Bold).Sprint("✓"),
			run.PassedCount(), run.SkippedCount(), run.Duration.Round(time.Millisecond))
		return err
	}

	if _, err := fmt.Fprintf(p.out, "%s %d check(s) failed\n",
		color.New(color.FgRed, color.Bold).Sprint("✗"), run.FailedCount()); err != nil {
		return err
	}

	for _, check := range run.FailedChecks() {
		if _, err := fmt.Fprintf(p.out, "\n  %s %s\n", color.RedString("Failed:"), check.Name); err != nil {
			return err
		}
		combined := check.Output.Combined()
		if combined == "" {
			continue
		}
		for _, line := range tail(combined, TailLines) {
			if _, err := fmt.Fprintf(p.out, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderChecks lists the named checks with their descriptions and
// enablement conditions.
func (p *PrettyRenderer) RenderChecks(cfg config.Config, names []string) error {
	for _, name := range names {
		check, ok := cfg.Checks[name]
		if !ok {
			if _, err := fmt.Fprintf(p.out, "  %s %s (literal command)\n", color.CyanString("•"), name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(p.out, "  %s %s — %s\n", color.CyanString("•"), name, check.Description); err != nil {
			return err
		}
		if cond := check.EnabledIf; cond != nil {
			var preds []string
			if cond.FileExists != "" {
				preds = append(preds, "file "+cond.FileExists)
			}
			if cond.DirExists != "" {
				preds = append(preds, "dir "+cond.DirExists)
			}
			if cond.CommandExists != "" {
				preds = append(preds, "command "+cond.CommandExists)
			}
			if len(preds) > 0 {
				if _, err := fmt.Fprintf(p.out, "      requires %s\n", strings.Join(preds, ", ")); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func tail(input string, maxLines int) []string {
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return lines
	}
	return lines[len(lines)-maxLines:]
}
