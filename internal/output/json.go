package output

import (
	"encoding/json"
	"io"

	"github.com/AngeloGiacco/Agent-Precommit/internal/report"
)

// Report is the machine-readable form of a run.
type Report struct {
	Mode     string        `json:"mode"`
	Checks   []CheckReport `json:"checks"`
	Summary  Summary       `json:"summary"`
	Warnings []string      `json:"warnings,omitempty"`
}

// CheckReport is one check's outcome.
type CheckReport struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	TimedOut   bool   `json:"timed_out"`
	DurationMS int64  `json:"duration_ms"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// Summary aggregates run counts.
type Summary struct {
	Passed     int   `json:"passed"`
	Failed     int   `json:"failed"`
	Skipped    int   `json:"skipped"`
	DurationMS int64 `json:"duration_ms"`
	Success    bool  `json:"success"`
}

// JSONRenderer writes reports as indented JSON.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSONRenderer writing to the provided writer.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// RenderRun encodes the run report.
func (j *JSONRenderer) RenderRun(run *report.Run, warnings []string) error {
	return j.render(BuildReport(run, warnings))
}

func (j *JSONRenderer) render(rep Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// BuildReport converts a run into its JSON form.
func BuildReport(run *report.Run, warnings []string) Report {
	checks := make([]CheckReport, 0, len(run.Checks))
	for _, c := range run.Checks {
		checks = append(checks, CheckReport{
			Name:       c.Name,
			Status:     status(c),
			ExitCode:   c.Output.ExitCode,
			Stdout:     c.Output.Stdout,
			Stderr:     c.Output.Stderr,
			TimedOut:   c.Output.TimedOut,
			DurationMS: c.Output.Duration.Milliseconds(),
			SkipReason: c.SkipReason,
		})
	}

	return Report{
		Mode:   run.Mode.String(),
		Checks: checks,
		Summary: Summary{
			Passed:     run.PassedCount(),
			Failed:     run.FailedCount(),
			Skipped:    run.SkippedCount(),
			DurationMS: run.Duration.Milliseconds(),
			Success:    run.Success(),
		},
		Warnings: warnings,
	}
}

func status(c report.CheckResult) string {
	switch {
	case c.Skipped:
		return "skipped"
	case c.Passed:
		return "passed"
	default:
		return "failed"
	}
}
