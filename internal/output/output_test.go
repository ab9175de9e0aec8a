package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/executor"
	"github.com/AngeloGiacco/Agent-Precommit/internal/report"
)

func init() {
	color.NoColor = true
}

func sampleRun() *report.Run {
	return &report.Run{
		Mode: detect.Agent,
		Checks: []report.CheckResult{
			{Name: "lint", Passed: true, Output: executor.Output{Duration: time.Second}},
			{Name: "test", Output: executor.Output{ExitCode: 2, Stdout: "ran 10 tests", Stderr: "2 failed"}},
			report.Skipped("build", "condition not met"),
		},
		Duration: 3 * time.Second,
	}
}

func TestPrettyRenderSuccess(t *testing.T) {
	var buf bytes.Buffer
	run := &report.Run{
		Mode:     detect.Human,
		Checks:   []report.CheckResult{{Name: "lint", Passed: true}},
		Duration: 120 * time.Millisecond,
	}
	require.NoError(t, NewPretty(&buf).RenderRun(run))
	assert.Contains(t, buf.String(), "All checks passed")
	assert.Contains(t, buf.String(), "1 passed")
}

func TestPrettyRenderFailure(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPretty(&buf).RenderRun(sampleRun()))
	out := buf.String()
	assert.Contains(t, out, "1 check(s) failed")
	assert.Contains(t, out, "Failed: test")
	assert.Contains(t, out, "ran 10 tests")
	assert.Contains(t, out, "2 failed")
	assert.NotContains(t, out, "Failed: lint")
}

func TestPrettyTailsLongOutput(t *testing.T) {
	var buf bytes.Buffer
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line"
	}
	run := &report.Run{
		Checks: []report.CheckResult{
			{Name: "noisy", Output: executor.Output{ExitCode: 1, Stdout: strings.Join(lines, "\n")}},
		},
	}
	require.NoError(t, NewPretty(&buf).RenderRun(run))
	assert.Equal(t, TailLines, strings.Count(buf.String(), "line"))
}

func TestRenderChecks(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	require.NoError(t, NewPretty(&buf).RenderChecks(cfg, []string{"pre-commit", "not-defined"}))
	out := buf.String()
	assert.Contains(t, out, "pre-commit")
	assert.Contains(t, out, "file .pre-commit-config.yaml")
	assert.Contains(t, out, "not-defined")
	assert.Contains(t, out, "literal command")
}

func TestBuildReport(t *testing.T) {
	rep := BuildReport(sampleRun(), []string{"heads up"})
	assert.Equal(t, "agent", rep.Mode)
	require.Len(t, rep.Checks, 3)
	assert.Equal(t, "passed", rep.Checks[0].Status)
	assert.Equal(t, "failed", rep.Checks[1].Status)
	assert.Equal(t, 2, rep.Checks[1].ExitCode)
	assert.Equal(t, "skipped", rep.Checks[2].Status)
	assert.Equal(t, "condition not met", rep.Checks[2].SkipReason)
	assert.Equal(t, 1, rep.Summary.Passed)
	assert.Equal(t, 1, rep.Summary.Failed)
	assert.Equal(t, 1, rep.Summary.Skipped)
	assert.False(t, rep.Summary.Success)
	assert.Equal(t, []string{"heads up"}, rep.Warnings)
}

func TestJSONRenderRun(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSON(&buf).RenderRun(sampleRun(), nil))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "agent", decoded.Mode)
	assert.Len(t, decoded.Checks, 3)
	assert.Equal(t, int64(3000), decoded.Summary.DurationMS)
}
