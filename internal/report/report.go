// Package report holds the structured results of a check run.
package report

import (
	"time"

	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/executor"
)

// CheckResult is the outcome of one named check.
type CheckResult struct {
	Name    string
	Passed  bool
	Output  executor.Output
	Skipped bool
	// SkipReason explains why a skipped check did not run.
	SkipReason string
}

// Skipped builds a result for a check whose enablement condition failed.
// Skipped checks never count as failures and carry a zero synthetic output.
func Skipped(name, reason string) CheckResult {
	return CheckResult{
		Name:       name,
		Passed:     true,
		Skipped:    true,
		SkipReason: reason,
	}
}

// Run aggregates one scheduling pass. Result order reflects execution and
// group order; within a parallel group it may differ from completion order.
type Run struct {
	Mode     detect.Mode
	Checks   []CheckResult
	Duration time.Duration
}

// Success reports whether every check passed. An empty run succeeds.
func (r *Run) Success() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// PassedCount counts checks that ran and passed. Skips are excluded.
func (r *Run) PassedCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed && !c.Skipped {
			n++
		}
	}
	return n
}

// FailedCount counts checks that failed.
func (r *Run) FailedCount() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// SkippedCount counts checks that were skipped.
func (r *Run) SkippedCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Skipped {
			n++
		}
	}
	return n
}

// FailedChecks returns the failed results in report order.
func (r *Run) FailedChecks() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}
