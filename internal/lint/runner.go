// runner.go implements the ordered, fail-fast fold over the configured
// targets, plus the default Executor that shells out to the analysis
// tool on the local machine.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/pshail/clipper/internal/model"
	"github.com/pshail/clipper/internal/workspace"
)

// Executor runs one analysis invocation with the target directory as the
// working directory and blocks until it finishes.
//
// The return values distinguish two failure classes:
//   - The tool ran and exited non-zero: (exitCode, nil). The fold treats
//     this as a lint failure and aborts the run.
//   - The tool could not be run at all (binary missing, daemon down):
//     (-1, err). The fold surfaces the error to the caller.
type Executor interface {
	Run(ctx context.Context, root string, target model.Target) (int, error)
}

// Runner drives a single lint run. It owns no resources; construct one
// per run.
type Runner struct {
	// Settings is the resolved workspace configuration (targets, command).
	Settings *workspace.Settings

	// Exec performs the per-target invocation.
	Exec Executor

	// KeepGoing disables the fail-fast abort: all targets run regardless
	// of earlier failures. The run still counts as failed if any target
	// did not pass.
	KeepGoing bool

	// Log receives verbose progress messages. May be nil.
	Log func(format string, args ...interface{})
}

// Run executes the analysis for every configured target in order and
// returns the aggregated report.
//
// The report always contains one result per configured target: targets
// that were never attempted because an earlier one aborted the run are
// recorded with OutcomeSkipped. A non-nil error is returned only when an
// invocation could not be performed at all; lint findings are not an
// error here — callers inspect the report.
func (r *Runner) Run(ctx context.Context, root string) (*model.RunReport, error) {
	report := &model.RunReport{
		Root:      root,
		Command:   r.Settings.CommandLine(),
		StartedAt: time.Now(),
		Results:   make([]model.TargetResult, 0, len(r.Settings.Targets)),
	}

	// runErr is set when an invocation cannot be performed (as opposed to
	// the tool running and failing). The loop keeps going only to mark the
	// remaining targets as skipped so the report stays complete.
	var runErr error
	aborted := false

	for _, target := range r.Settings.Targets {
		if aborted {
			report.Results = append(report.Results, model.TargetResult{
				Target:   target,
				Outcome:  model.OutcomeSkipped,
				ExitCode: -1,
				Detail:   "not attempted: an earlier target aborted the run",
			})
			continue
		}

		// The directory check is the moral equivalent of the cd step: a
		// target that cannot be entered aborts the run before the tool is
		// ever invoked for it.
		if !workspace.TargetExists(root, target) {
			report.Results = append(report.Results, model.TargetResult{
				Target:   target,
				Outcome:  model.OutcomeMissing,
				ExitCode: -1,
				Detail:   fmt.Sprintf("directory %s does not exist", target.AbsPath(root)),
			})
			if !r.KeepGoing {
				aborted = true
			}
			continue
		}

		r.logf("analyzing %s", target)
		start := time.Now()
		code, err := r.Exec.Run(ctx, root, target)
		elapsed := time.Since(start)

		if err != nil {
			report.Results = append(report.Results, model.TargetResult{
				Target:   target,
				Outcome:  model.OutcomeFailed,
				ExitCode: -1,
				Duration: elapsed,
				Detail:   err.Error(),
			})
			runErr = err
			aborted = true
			continue
		}

		if code != 0 {
			report.Results = append(report.Results, model.TargetResult{
				Target:   target,
				Outcome:  model.OutcomeFailed,
				ExitCode: code,
				Duration: elapsed,
				Detail:   fmt.Sprintf("analysis exited with status %d", code),
			})
			if !r.KeepGoing {
				aborted = true
			}
			continue
		}

		report.Results = append(report.Results, model.TargetResult{
			Target:   target,
			Outcome:  model.OutcomePassed,
			ExitCode: 0,
			Duration: elapsed,
		})
	}

	return report, runErr
}

// logf forwards to the Log hook when one is set.
func (r *Runner) logf(format string, args ...interface{}) {
	if r.Log != nil {
		r.Log(format, args...)
	}
}

// LocalExecutor runs the analysis tool as a child process on the local
// machine. The tool's stdout and stderr are passed through to the
// configured writers verbatim — clipper adds no framing of its own.
type LocalExecutor struct {
	// Command is the tool binary, resolved via PATH.
	Command string

	// Args are the fixed arguments passed on every invocation.
	Args []string

	// Stdout and Stderr receive the tool's output streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run invokes the tool with the target directory as working directory and
// blocks until it exits. See Executor for the return value contract.
func (e *LocalExecutor) Run(ctx context.Context, root string, target model.Target) (int, error) {
	// #nosec G204 — command and args come from validated configuration,
	// not request input
	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	cmd.Dir = target.AbsPath(root)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// A non-zero exit from the tool is a result, not an execution error.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return -1, model.WrapCLIError(model.ExitToolNotFound,
			fmt.Sprintf("%s not found on PATH — is the toolchain installed?", e.Command), err)
	}

	return -1, model.WrapCLIError(model.ExitGeneralError,
		fmt.Sprintf("failed to run %s in %s", e.Command, target.AbsPath(root)), err)
}
