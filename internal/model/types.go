// Package model defines the domain types for the clipper CLI.
//
// All entities in this package represent the core data structures passed
// between the workspace, lint, docker, and cli layers. They are transient
// representations constructed fresh on every invocation — there is no
// persistent state file on disk.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Target describes a single crate directory to be analyzed.
// Targets are always processed in the order they were configured;
// the order is part of the contract, not an implementation detail.
type Target struct {
	// RelPath is the crate directory path relative to the workspace root.
	// Always slash-separated as configured (e.g., "pkg/controller").
	RelPath string `json:"relPath" yaml:"relPath"`
}

// AbsPath resolves the target against the given workspace root, converting
// the configured slash-separated path to the host's separator.
func (t Target) AbsPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(t.RelPath))
}

// String returns the configured relative path. This method satisfies the
// fmt.Stringer interface for readable log and error output.
func (t Target) String() string {
	return t.RelPath
}

// ValidateTarget checks that a configured target path is usable as a
// root-relative crate directory. Absolute paths and parent-directory
// escapes are rejected so a config file cannot point the runner outside
// the workspace.
func ValidateTarget(t Target) error {
	if t.RelPath == "" {
		return fmt.Errorf("target path must not be empty")
	}
	if filepath.IsAbs(t.RelPath) || strings.HasPrefix(t.RelPath, "/") {
		return fmt.Errorf("target path %q must be relative to the workspace root", t.RelPath)
	}
	// Normalize before checking for escapes so "pkg/../../x" is caught too.
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(t.RelPath)))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("target path %q escapes the workspace root", t.RelPath)
	}
	return nil
}

// ValidateTargets checks a slice of targets for individual validity and
// for duplicates. Duplicate targets would run the same analysis twice,
// which is always a configuration mistake.
func ValidateTargets(targets []Target) error {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if err := ValidateTarget(t); err != nil {
			return err
		}
		key := filepath.ToSlash(filepath.Clean(filepath.FromSlash(t.RelPath)))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("target %q is listed more than once", t.RelPath)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// TargetOutcome represents the result state of a single target within a run.
// The state transitions are:
//
//	Pending → Passed | Failed | Missing
//	Pending → Skipped (when an earlier target aborted the run)
type TargetOutcome string

const (
	// OutcomePassed indicates the analysis tool exited zero for the target.
	OutcomePassed TargetOutcome = "passed"

	// OutcomeFailed indicates the analysis tool ran and exited non-zero.
	OutcomeFailed TargetOutcome = "failed"

	// OutcomeMissing indicates the target directory did not exist, so the
	// tool was never invoked for it.
	OutcomeMissing TargetOutcome = "missing"

	// OutcomeSkipped indicates the target was never attempted because an
	// earlier target aborted the run.
	OutcomeSkipped TargetOutcome = "skipped"
)

// String returns the string representation of TargetOutcome.
func (o TargetOutcome) String() string {
	return string(o)
}

// IsValid checks whether the TargetOutcome value is one of the
// predefined valid outcomes.
func (o TargetOutcome) IsValid() bool {
	switch o {
	case OutcomePassed, OutcomeFailed, OutcomeMissing, OutcomeSkipped:
		return true
	default:
		return false
	}
}

// TargetResult records what happened for one target during a run.
type TargetResult struct {
	// Target is the crate directory this result refers to.
	Target Target `json:"target" yaml:"target"`

	// Outcome is the terminal state the target reached.
	Outcome TargetOutcome `json:"outcome" yaml:"outcome"`

	// ExitCode is the analysis tool's exit status. Zero for passed targets,
	// non-zero for failed ones, and -1 when the tool was never invoked
	// (missing or skipped targets).
	ExitCode int `json:"exitCode" yaml:"exitCode"`

	// Duration is how long the tool invocation took. Zero when the tool
	// was never invoked.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Detail carries a human-readable note for non-passed outcomes
	// (e.g., "directory does not exist").
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// RunReport aggregates the results of a full lint run across all targets.
// It is the value serialized by `clipper lint --report` and by the
// --json output mode.
type RunReport struct {
	// Root is the absolute workspace root the targets were resolved against.
	Root string `json:"root" yaml:"root"`

	// Command is the analysis command line that was invoked per target,
	// recorded for report readers (e.g., "cargo clippy --all-targets").
	Command string `json:"command" yaml:"command"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`

	// Results holds one entry per configured target, in run order.
	// Targets after the first failure appear with OutcomeSkipped.
	Results []TargetResult `json:"results" yaml:"results"`
}

// Passed reports whether every target in the run passed. A run with any
// failed, missing, or skipped target did not pass.
func (r *RunReport) Passed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if res.Outcome != OutcomePassed {
			return false
		}
	}
	return true
}

// Counts returns the number of passed, failed, missing, and skipped
// targets, for summary lines.
func (r *RunReport) Counts() (passed, failed, missing, skipped int) {
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomePassed:
			passed++
		case OutcomeFailed:
			failed++
		case OutcomeMissing:
			missing++
		case OutcomeSkipped:
			skipped++
		}
	}
	return passed, failed, missing, skipped
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the clipper.jsonc config file exists but
	// could not be parsed or failed validation.
	ExitConfigError ExitCode = 2

	// ExitTargetMissing indicates a configured target directory does not
	// exist under the workspace root.
	ExitTargetMissing ExitCode = 3

	// ExitToolNotFound indicates the analysis tool binary could not be
	// resolved on PATH.
	ExitToolNotFound ExitCode = 4

	// ExitLintFailed indicates the analysis tool ran and reported findings
	// (exited non-zero) for at least one target.
	ExitLintFailed ExitCode = 5

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	// Only relevant when running with --docker.
	ExitDockerNotRunning ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
