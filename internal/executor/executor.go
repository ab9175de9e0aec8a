// Package executor runs shell commands with a hard timeout and output capture.
//
// It knows nothing about checks or modes; it is a plain command runner. A
// failing command is a normal outcome, not an error: Execute only returns an
// error for operational problems such as being unable to spawn the shell.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 300 * time.Second

// TimeoutExitCode is the sentinel exit code for a command killed on timeout.
const TimeoutExitCode = 124

// Options configure a single command execution.
type Options struct {
	// Dir is the working directory for the command. Empty means inherit.
	Dir string
	// Timeout bounds the command's wall-clock runtime. Zero means DefaultTimeout.
	Timeout time.Duration
	// Env holds KEY=VALUE pairs appended to the parent environment.
	// Later entries shadow earlier ones.
	Env []string
	// Capture redirects stdout/stderr into the returned Output. When false
	// the command inherits Stdout/Stderr (or the parent's stdio) so live
	// output stays visible.
	Capture bool
	// Shell overrides the shell binary (default sh on Unix, cmd on Windows).
	Shell string
	// Stdout and Stderr are used when Capture is false. Nil means os.Stdout
	// and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Output is the result of one command execution.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Duration time.Duration
}

// Success reports whether the command exited cleanly within its time budget.
func (o Output) Success() bool {
	return o.ExitCode == 0 && !o.TimedOut
}

// Combined returns stdout and stderr joined with a newline, skipping
// whichever is empty.
func (o Output) Combined() string {
	switch {
	case o.Stderr == "":
		return o.Stdout
	case o.Stdout == "":
		return o.Stderr
	default:
		return o.Stdout + "\n" + o.Stderr
	}
}

type waitResult struct {
	exitCode int
	stdout   string
	stderr   string
	err      error
}

// Execute runs command through the platform shell and waits for it to finish
// or exceed its timeout. The command string is passed to the shell verbatim;
// it is never tokenized here. On timeout the child is killed and reaped
// before Execute returns, and the Output carries TimeoutExitCode with
// TimedOut set.
func Execute(ctx context.Context, command string, opts Options) (Output, error) {
	start := time.Now()

	shell, shellArg := shellCommand(opts.Shell)
	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Stdin = nil
	// Own process group so a timeout kill reaches the shell's descendants,
	// not just the shell. Otherwise grandchildren keep the output pipes
	// open and the drain goroutines never see EOF.
	setProcessGroup(cmd)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var stdoutPipe, stderrPipe io.ReadCloser
	if opts.Capture {
		var err error
		stdoutPipe, err = cmd.StdoutPipe()
		if err != nil {
			return Output{}, fmt.Errorf("open stdout pipe: %w", err)
		}
		stderrPipe, err = cmd.StderrPipe()
		if err != nil {
			return Output{}, fmt.Errorf("open stderr pipe: %w", err)
		}
	} else {
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
		if cmd.Stdout == nil {
			cmd.Stdout = os.Stdout
		}
		if cmd.Stderr == nil {
			cmd.Stderr = os.Stderr
		}
	}

	if err := cmd.Start(); err != nil {
		return Output{}, fmt.Errorf("spawn %s: %w", shell, err)
	}

	resc := make(chan waitResult, 1)
	go func() {
		var stdout, stderr string
		var readErr error
		if opts.Capture {
			outc := make(chan drainResult, 1)
			errc := make(chan drainResult, 1)
			go drain(stdoutPipe, outc)
			go drain(stderrPipe, errc)
			outRes := <-outc
			errRes := <-errc
			stdout, stderr = outRes.text, errRes.text
			readErr = outRes.err
			if readErr == nil {
				readErr = errRes.err
			}
		}
		waitError := cmd.Wait()
		opErr := waitErr(waitError)
		if opErr == nil && readErr != nil {
			opErr = fmt.Errorf("read command output: %w", readErr)
		}
		resc <- waitResult{exitCode: exitCode(waitError), stdout: stdout, stderr: stderr, err: opErr}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resc:
		if res.err != nil {
			return Output{}, res.err
		}
		return Output{
			ExitCode: res.exitCode,
			Stdout:   res.stdout,
			Stderr:   res.stderr,
			Duration: time.Since(start),
		}, nil
	case <-timer.C:
		terminate(cmd)
		// Reap the child; the drains finish once the pipes close. Output
		// already read before the kill is discarded.
		<-resc
		return Output{
			ExitCode: TimeoutExitCode,
			TimedOut: true,
			Duration: time.Since(start),
		}, nil
	}
}

// CommandExists reports whether name is discoverable on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func shellCommand(override string) (shell, arg string) {
	if runtime.GOOS == "windows" {
		if override != "" {
			return override, "/C"
		}
		return "cmd", "/C"
	}
	if override != "" {
		return override, "-c"
	}
	return "sh", "-c"
}

type drainResult struct {
	text string
	err  error
}

// drain copies the stream to completion, preserving the bytes exactly.
// There is no per-line size cap: stopping mid-stream would leave the child
// blocked on a full pipe, so captured text is never truncated.
func drain(r io.Reader, out chan<- drainResult) {
	var b strings.Builder
	_, err := io.Copy(&b, r)
	out <- drainResult{text: b.String(), err: err}
}

// exitCode maps the wait error to the command's exit status. A process
// killed by a signal reports no code; that maps to 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}

// waitErr filters out command failures: a nonzero exit is a normal outcome,
// anything else from Wait is operational.
func waitErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("wait for command: %w", err)
}
