package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/executor"
)

func passed(name string) CheckResult {
	return CheckResult{Name: name, Passed: true}
}

func failed(name string) CheckResult {
	return CheckResult{Name: name, Output: executor.Output{ExitCode: 1, Stderr: "error"}}
}

func TestSkippedInvariant(t *testing.T) {
	result := Skipped("gated", "condition not met")
	assert.True(t, result.Passed, "skipped checks never count as failures")
	assert.True(t, result.Skipped)
	assert.Equal(t, "condition not met", result.SkipReason)
	assert.Equal(t, 0, result.Output.ExitCode)
	assert.False(t, result.Output.TimedOut)
	assert.Equal(t, time.Duration(0), result.Output.Duration)
}

func TestRunSuccessAllPassed(t *testing.T) {
	run := Run{Mode: detect.Human, Checks: []CheckResult{passed("a"), passed("b")}}
	assert.True(t, run.Success())
	assert.Equal(t, 2, run.PassedCount())
	assert.Equal(t, 0, run.FailedCount())
	assert.Equal(t, 0, run.SkippedCount())
}

func TestRunFailureCounts(t *testing.T) {
	run := Run{Mode: detect.Agent, Checks: []CheckResult{passed("a"), failed("b"), failed("c")}}
	assert.False(t, run.Success())
	assert.Equal(t, 1, run.PassedCount())
	assert.Equal(t, 2, run.FailedCount())
}

func TestRunSkippedExcludedFromPassedCount(t *testing.T) {
	run := Run{Checks: []CheckResult{passed("a"), Skipped("b", "condition not met")}}
	assert.True(t, run.Success())
	assert.Equal(t, 1, run.PassedCount())
	assert.Equal(t, 1, run.SkippedCount())
}

func TestEmptyRunSucceeds(t *testing.T) {
	run := Run{}
	assert.True(t, run.Success())
	assert.Equal(t, 0, run.PassedCount())
	assert.Equal(t, 0, run.FailedCount())
	assert.Equal(t, 0, run.SkippedCount())
	assert.Empty(t, run.FailedChecks())
}

func TestFailedChecksPreservesOrder(t *testing.T) {
	run := Run{Checks: []CheckResult{passed("p1"), failed("f1"), passed("p2"), failed("f2")}}
	got := run.FailedChecks()
	assert.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].Name)
	assert.Equal(t, "f2", got[1].Name)
}
