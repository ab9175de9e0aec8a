// Package runner schedules and executes checks for a detected mode.
//
// Human mode runs its checks sequentially in declared order with fail-fast.
// Agent and CI modes run theirs in ordered parallel groups bounded by a
// weighted semaphore; groups never overlap, and fail-fast is evaluated
// against every result accumulated so far before the next group starts.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/AngeloGiacco/Agent-Precommit/internal/config"
	"github.com/AngeloGiacco/Agent-Precommit/internal/detect"
	"github.com/AngeloGiacco/Agent-Precommit/internal/executor"
	"github.com/AngeloGiacco/Agent-Precommit/internal/gitrepo"
	"github.com/AngeloGiacco/Agent-Precommit/internal/report"
)

// ErrCheckNotFound is returned by RunSingle for a name with no definition.
var ErrCheckNotFound = errors.New("check not found")

// SkipReason is recorded on checks whose enablement condition failed.
const SkipReason = "condition not met"

// Options configure a Runner.
type Options struct {
	// Repo anchors working directories and file/dir enablement predicates.
	// Nil means no repository: file/dir predicates are unsatisfied and
	// commands run in the process working directory.
	Repo *gitrepo.Repo
	// Progress receives one line per finished check. Nil discards.
	Progress io.Writer
	// Diag receives warnings such as unparseable timeouts. Nil discards.
	Diag io.Writer
	// Parallelism bounds concurrent checks within a group. Zero means the
	// number of CPUs, falling back to 4.
	Parallelism int
}

// Runner executes checks against a loaded configuration.
type Runner struct {
	cfg  config.Config
	opts Options

	mu sync.Mutex // serializes progress writes from parallel checks
}

// New creates a runner. The configuration is treated as read-only for the
// lifetime of the runner.
func New(cfg config.Config, opts Options) *Runner {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Diag == nil {
		opts.Diag = io.Discard
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = availableParallelism()
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run executes the mode's configured checks and returns the aggregate
// report. Command failures are recorded in the report; only operational
// errors (spawn failures, semaphore breakage) are returned, and then no
// partial report is produced.
func (r *Runner) Run(ctx context.Context, mode detect.Mode) (*report.Run, error) {
	start := time.Now()

	names := r.checksForMode(mode)
	if len(names) == 0 {
		return &report.Run{Mode: mode, Duration: time.Since(start)}, nil
	}

	checks := resolveChecks(names, r.cfg.Checks)

	var results []report.CheckResult
	var err error
	if mode.Thorough() {
		results, err = r.runParallelGroups(ctx, mode, checks)
	} else {
		results, err = r.runSequential(ctx, mode, checks)
	}
	if err != nil {
		return nil, err
	}

	return &report.Run{Mode: mode, Checks: results, Duration: time.Since(start)}, nil
}

// RunSingle executes one named check, bypassing scheduling. Unlike full
// runs, an undefined name is fatal here.
func (r *Runner) RunSingle(ctx context.Context, name string, mode detect.Mode) (report.CheckResult, error) {
	check, ok := r.cfg.Checks[name]
	if !ok {
		return report.CheckResult{}, fmt.Errorf("%w: %s", ErrCheckNotFound, name)
	}
	return r.runCheck(ctx, mode, resolved{name: name, check: check})
}

// resolved pairs a check name with its definition.
type resolved struct {
	name  string
	check config.CheckConfig
}

// resolveChecks maps names to definitions. An undefined name resolves to a
// synthetic check that runs the name as a literal shell command, so
// resolution never fails.
func resolveChecks(names []string, defs map[string]config.CheckConfig) []resolved {
	checks := make([]resolved, 0, len(names))
	for _, name := range names {
		check, ok := defs[name]
		if !ok {
			check = config.FromCommand(name)
		}
		checks = append(checks, resolved{name: name, check: check})
	}
	return checks
}

func (r *Runner) checksForMode(mode detect.Mode) []string {
	if mode.Thorough() {
		return r.cfg.Agent.Checks
	}
	return r.cfg.Human.Checks
}

func (r *Runner) failFast(mode detect.Mode) bool {
	if mode.Thorough() {
		return r.cfg.Agent.FailFast
	}
	return r.cfg.Human.FailFast
}

// runSequential executes checks one at a time in declared order. With
// fail-fast, checks after the first failure never run and are absent from
// the report entirely.
func (r *Runner) runSequential(ctx context.Context, mode detect.Mode, checks []resolved) ([]report.CheckResult, error) {
	results := make([]report.CheckResult, 0, len(checks))

	for _, rc := range checks {
		result, err := r.runCheck(ctx, mode, rc)
		if err != nil {
			return nil, err
		}

		failed := !result.Passed
		results = append(results, result)

		if failed && r.failFast(mode) {
			break
		}
	}

	return results, nil
}

// runParallelGroups executes checks stage by stage. Within a stage every
// check runs as its own task gated by a shared weighted semaphore; all
// tasks are awaited before the stage's outcome is considered. With
// fail-fast, any failure across the run so far stops later stages.
func (r *Runner) runParallelGroups(ctx context.Context, mode detect.Mode, checks []resolved) ([]report.CheckResult, error) {
	byName := make(map[string]resolved, len(checks))
	for _, rc := range checks {
		byName[rc.name] = rc
	}

	groups := r.cfg.Agent.ParallelGroups
	if len(groups) == 0 {
		all := make([]string, len(checks))
		for i, rc := range checks {
			all[i] = rc.name
		}
		groups = [][]string{all}
	}

	sem := semaphore.NewWeighted(int64(r.opts.Parallelism))
	var all []report.CheckResult

	for _, group := range groups {
		groupChecks := make([]resolved, 0, len(group))
		for _, name := range group {
			if rc, ok := byName[name]; ok {
				groupChecks = append(groupChecks, rc)
			}
		}
		if len(groupChecks) == 0 {
			continue
		}

		results := make([]report.CheckResult, len(groupChecks))
		g, gctx := errgroup.WithContext(ctx)

		for i, rc := range groupChecks {
			i, rc := i, rc
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return fmt.Errorf("acquire worker slot: %w", err)
				}
				defer sem.Release(1)

				result, err := r.runCheck(gctx, mode, rc)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		all = append(all, results...)

		if !r.failFast(mode) {
			continue
		}
		for _, result := range all {
			if !result.Passed {
				return all, nil
			}
		}
	}

	return all, nil
}

// runCheck evaluates enablement immediately before execution, so the
// filesystem state it observes is as fresh as possible.
func (r *Runner) runCheck(ctx context.Context, mode detect.Mode, rc resolved) (report.CheckResult, error) {
	if !r.enabled(rc.check) {
		r.progressf("%s %s (%s)\n", color.CyanString("-"), rc.name, SkipReason)
		return report.Skipped(rc.name, SkipReason), nil
	}

	opts := executor.Options{
		Timeout: r.timeoutFor(mode),
		Env:     envList(rc.check.Env),
		Capture: true,
	}
	if r.opts.Repo != nil {
		opts.Dir = r.opts.Repo.Root()
	}

	out, err := executor.Execute(ctx, rc.check.Run, opts)
	if err != nil {
		return report.CheckResult{}, fmt.Errorf("check %s: %w", rc.name, err)
	}

	switch {
	case out.Success():
		r.progressf("%s %s\n", color.GreenString("✓"), rc.name)
	case out.TimedOut:
		r.progressf("%s %s (timed out)\n", color.RedString("✗"), rc.name)
	default:
		r.progressf("%s %s\n", color.RedString("✗"), rc.name)
	}

	return report.CheckResult{
		Name:   rc.name,
		Passed: out.Success(),
		Output: out,
	}, nil
}

// enabled applies the check's enablement condition. Predicates are ANDed
// in file, dir, command order. Without a repository the file and dir
// predicates cannot be satisfied, which conservatively disables the check;
// command lookups still consult PATH.
func (r *Runner) enabled(check config.CheckConfig) bool {
	cond := check.EnabledIf
	if cond == nil {
		return true
	}

	if cond.FileExists != "" {
		if r.opts.Repo == nil || !r.opts.Repo.FileExists(cond.FileExists) {
			return false
		}
	}
	if cond.DirExists != "" {
		if r.opts.Repo == nil || !r.opts.Repo.DirExists(cond.DirExists) {
			return false
		}
	}
	if cond.CommandExists != "" {
		if !executor.CommandExists(cond.CommandExists) {
			return false
		}
	}

	return true
}

// timeoutFor parses the mode's timeout string. Unparseable values degrade
// to the executor default with a warning rather than aborting the run.
func (r *Runner) timeoutFor(mode detect.Mode) time.Duration {
	spec := r.cfg.Human.Timeout
	if mode.Thorough() {
		spec = r.cfg.Agent.Timeout
	}

	d, err := time.ParseDuration(spec)
	if err != nil || d <= 0 {
		r.progressMu(func() {
			fmt.Fprintf(r.opts.Diag, "warning: invalid timeout %q, using %s\n", spec, executor.DefaultTimeout)
		})
		return executor.DefaultTimeout
	}
	return d
}

func (r *Runner) progressf(format string, args ...any) {
	r.progressMu(func() {
		fmt.Fprintf(r.opts.Progress, format, args...)
	})
}

func (r *Runner) progressMu(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// envList flattens a check's env map into sorted KEY=VALUE pairs so
// execution is deterministic.
func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

func availableParallelism() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 4
}
