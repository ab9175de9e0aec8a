package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// goleak verifies every exit path reaps the child and joins the drain
// goroutines, including the timeout path.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExecuteSimpleCommand(t *testing.T) {
	out, err := Execute(context.Background(), "echo hello", Options{Capture: true})
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, 0, out.ExitCode)
	assert.False(t, out.TimedOut)
	assert.Contains(t, out.Stdout, "hello")
}

func TestExecuteFailingCommand(t *testing.T) {
	out, err := Execute(context.Background(), "exit 3", Options{Capture: true})
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, 3, out.ExitCode)
	assert.False(t, out.TimedOut)
}

func TestExecuteTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("timeout test uses POSIX sleep")
	}
	start := time.Now()
	out, err := Execute(context.Background(), "sleep 10", Options{
		Capture: true,
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, out.TimedOut)
	assert.Equal(t, TimeoutExitCode, out.ExitCode)
	assert.False(t, out.Success())
	assert.Empty(t, out.Stdout)
	assert.Less(t, time.Since(start), 5*time.Second, "child must be killed, not waited out")
}

func TestExecuteCapturesStderr(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stderr redirect uses POSIX shell syntax")
	}
	out, err := Execute(context.Background(), "echo oops >&2; exit 1", Options{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.ExitCode)
	assert.Contains(t, out.Stderr, "oops")
	assert.Empty(t, out.Stdout)
}

func TestExecuteWorkingDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pwd is POSIX")
	}
	dir := t.TempDir()
	out, err := Execute(context.Background(), "pwd", Options{Capture: true, Dir: dir})
	require.NoError(t, err)
	require.True(t, out.Success())

	got, evalErr := filepath.EvalSymlinks(strings.TrimSpace(out.Stdout))
	require.NoError(t, evalErr)
	want, evalErr := filepath.EvalSymlinks(dir)
	require.NoError(t, evalErr)
	assert.Equal(t, want, got)
}

func TestExecuteEnvOverrides(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("env expansion uses POSIX shell syntax")
	}
	out, err := Execute(context.Background(), "echo $APC_TEST_VAR", Options{
		Capture: true,
		Env:     []string{"APC_TEST_VAR=shadowed", "APC_TEST_VAR=value"},
	})
	require.NoError(t, err)
	assert.Equal(t, "value", strings.TrimSpace(out.Stdout), "later entries shadow earlier ones")
}

func TestExecuteInheritedOutput(t *testing.T) {
	var stdout, stderr strings.Builder
	out, err := Execute(context.Background(), "echo visible", Options{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Empty(t, out.Stdout, "nothing captured when not capturing")
	assert.Contains(t, stdout.String(), "visible")
}

func TestExecuteSpawnFailure(t *testing.T) {
	_, err := Execute(context.Background(), "echo hi", Options{Shell: "definitely-not-a-shell-12345"})
	require.Error(t, err)
}

func TestExecuteDuration(t *testing.T) {
	out, err := Execute(context.Background(), "echo timed", Options{Capture: true})
	require.NoError(t, err)
	assert.Greater(t, out.Duration, time.Duration(0))
}

func TestCommandExists(t *testing.T) {
	shell := "sh"
	if runtime.GOOS == "windows" {
		shell = "cmd"
	}
	assert.True(t, CommandExists(shell))
	assert.False(t, CommandExists("definitely_not_a_real_command_12345"))
}

func TestOutputSuccess(t *testing.T) {
	assert.True(t, Output{ExitCode: 0}.Success())
	assert.False(t, Output{ExitCode: 1}.Success())
	assert.False(t, Output{ExitCode: TimeoutExitCode, TimedOut: true}.Success())
	assert.False(t, Output{ExitCode: 0, TimedOut: true}.Success())
}

func TestOutputCombined(t *testing.T) {
	assert.Equal(t, "out", Output{Stdout: "out"}.Combined())
	assert.Equal(t, "err", Output{Stderr: "err"}.Combined())
	assert.Equal(t, "out\nerr", Output{Stdout: "out", Stderr: "err"}.Combined())
	assert.Equal(t, "", Output{}.Combined())
}

func TestExecuteEmptyCommand(t *testing.T) {
	// An empty command is handed to the shell as-is; the shell no-ops.
	out, err := Execute(context.Background(), "", Options{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
}

func TestExecuteDefaultTimeoutApplied(t *testing.T) {
	// Zero timeout means the 300s default, not an instant kill.
	out, err := Execute(context.Background(), "echo ok", Options{Capture: true})
	require.NoError(t, err)
	assert.False(t, out.TimedOut)
}

func TestExecuteMultilineOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("printf is POSIX")
	}
	out, err := Execute(context.Background(), `printf 'a\nb\nc\n'`, Options{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out.Stdout)
}

func TestExecuteNoStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("cat is POSIX")
	}
	// stdin is null, so reading from it terminates immediately instead of
	// hanging a hook invocation.
	out, err := Execute(context.Background(), "cat", Options{Capture: true, Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.False(t, out.TimedOut)
}

func TestExecuteCapturesOversizedLines(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("generator uses POSIX tools")
	}
	// A single line larger than any internal buffer: the drain must keep
	// reading so the child never blocks on a full pipe, and nothing after
	// the long line may be lost.
	start := time.Now()
	out, err := Execute(context.Background(),
		`head -c 2097152 /dev/zero | tr '\0' 'x'; echo; echo MARKER`,
		Options{Capture: true, Timeout: 30 * time.Second})
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.False(t, out.TimedOut)
	assert.Contains(t, out.Stdout, "MARKER")
	assert.GreaterOrEqual(t, len(out.Stdout), 2*1024*1024, "captured text must not be truncated")
	assert.Less(t, time.Since(start), 20*time.Second, "a long line must not stall the drain")
}

func TestExecutePreservesMissingTrailingNewline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("printf is POSIX")
	}
	out, err := Execute(context.Background(), `printf 'no-newline'`, Options{Capture: true})
	require.NoError(t, err)
	assert.Equal(t, "no-newline", out.Stdout, "capture must not synthesize a trailing newline")
}

func TestExecuteTimeoutReapsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("kill check uses POSIX tools")
	}
	marker := filepath.Join(t.TempDir(), "still-alive")
	out, err := Execute(context.Background(), "sleep 1 && touch "+marker, Options{
		Capture: true,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	require.True(t, out.TimedOut)

	// If the child survived the kill it would create the marker shortly.
	time.Sleep(1500 * time.Millisecond)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "timed-out child must be terminated")
}
