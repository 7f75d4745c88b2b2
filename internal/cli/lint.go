// Package cli — lint.go implements the "clipper lint" command.
//
// The lint command is the core operation: it resolves the workspace root,
// loads the effective target list, and runs the analysis tool once per
// target, in order, stopping at the first failure. The tool's own output
// passes through verbatim; clipper appends only a per-target summary.
//
// Orchestration steps:
//  1. Resolve workspace root (--root flag or executable location)
//  2. Load clipper.jsonc settings (built-in defaults when absent)
//  3. Build the executor (local toolchain, or a container with --docker)
//  4. Fold over the targets, fail-fast unless --keep-going
//  5. Write the YAML report if --report was given
//  6. Print the summary (text or JSON) and map the result to an exit code
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pshail/clipper/internal/docker"
	"github.com/pshail/clipper/internal/lint"
	"github.com/pshail/clipper/internal/model"
	"github.com/pshail/clipper/internal/workspace"
)

// lintFlags holds the flag values for the lint command.
// These are bound to cobra flags in NewLintCommand.
type lintFlags struct {
	docker    bool   // --docker: run the tool inside a toolchain container
	image     string // --image: override the toolchain container image
	report    string // --report: write a YAML run report to this path
	keepGoing bool   // --keep-going: run all targets despite failures
}

// NewLintCommand creates the "lint" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run clippy across all workspace crates, stopping at the first failure",
		Long: `Run the analysis tool (cargo clippy --all-targets by default) in each
configured crate directory, strictly in order. The run aborts at the first
missing directory or non-zero tool exit; later crates are not attempted.

Examples:
  clipper lint
  clipper lint --keep-going
  clipper lint --docker --image rust:1.80
  clipper lint --report clippy-report.yaml`,

		// No positional arguments: the target list comes from clipper.jsonc
		// or the built-in defaults.
		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.docker, "docker", false,
		"Run the analysis tool inside a toolchain container")
	cmd.Flags().StringVar(&flags.image, "image", "",
		"Toolchain container image (default: from clipper.jsonc, or rust:1-slim)")
	cmd.Flags().StringVar(&flags.report, "report", "",
		"Write a YAML run report to the given path")
	cmd.Flags().BoolVar(&flags.keepGoing, "keep-going", false,
		"Run all targets even after a failure (exit status still reflects failures)")

	return cmd
}

// runLint is the main orchestration function for the lint command.
func runLint(ctx context.Context, flags *lintFlags) error {
	// Step 1: Resolve the workspace root.
	root, err := workspace.ResolveRoot(rootDir)
	if err != nil {
		return err
	}
	VerboseLog("Workspace root: %s", root)

	// Step 2: Load the effective settings. A missing config file means
	// the built-in target list and tool invocation.
	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return err
	}
	if settings.ConfigPath != "" {
		VerboseLog("Using config file: %s", settings.ConfigPath)
	}
	VerboseLog("Analysis command: %s", settings.CommandLine())

	// Step 3: Build the executor. Both variants pass the tool's output
	// through to our own streams verbatim.
	executor, cleanup, err := buildExecutor(ctx, flags, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	// Step 4: Run the fold.
	runner := &lint.Runner{
		Settings:  settings,
		Exec:      executor,
		KeepGoing: flags.keepGoing,
		Log:       VerboseLog,
	}
	report, runErr := runner.Run(ctx, root)

	// Step 5: Write the report file if requested. The report is written
	// even for failed runs — that is when CI wants it most.
	if flags.report != "" {
		if writeErr := lint.WriteReport(flags.report, report); writeErr != nil {
			return writeErr
		}
		VerboseLog("Wrote run report to %s", flags.report)
	}

	// Step 6: Print the summary and map the outcome to an exit code.
	if IsJSONOutput() {
		if err := printJSONReport(report); err != nil {
			return err
		}
	} else {
		printTextReport(report)
	}

	// An execution error (tool or daemon unavailable) outranks the lint
	// outcome: it already carries its own exit code.
	if runErr != nil {
		return runErr
	}

	return reportError(report)
}

// buildExecutor constructs the per-target executor for the run, plus a
// cleanup function releasing whatever the executor needs (the Docker
// client). The cleanup function is never nil.
func buildExecutor(ctx context.Context, flags *lintFlags, settings *workspace.Settings) (lint.Executor, func(), error) {
	if !flags.docker {
		return &lint.LocalExecutor{
			Command: settings.Command,
			Args:    settings.Args,
			Stdout:  os.Stdout,
			Stderr:  os.Stderr,
		}, func() {}, nil
	}

	cli, err := docker.NewClient()
	if err != nil {
		return nil, func() {}, err
	}

	// Fail before the first target if the daemon is unreachable, instead
	// of surfacing a connection error mid-run.
	if err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, func() {}, err
	}

	image := settings.DockerImage
	if flags.image != "" {
		image = flags.image
	}
	VerboseLog("Toolchain image: %s", image)

	return &docker.ContainerExecutor{
		Client:  cli,
		Image:   image,
		Command: settings.Command,
		Args:    settings.Args,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     VerboseLog,
	}, func() { _ = cli.Close() }, nil
}

// reportError translates a completed run report into the command's return
// value: nil for a clean run, a CLIError otherwise. The first non-passed
// target decides the exit code, matching the fail-fast semantics (with
// --keep-going the first failure in run order still decides).
func reportError(report *model.RunReport) error {
	for _, res := range report.Results {
		switch res.Outcome {
		case model.OutcomeMissing:
			return model.NewCLIError(model.ExitTargetMissing,
				fmt.Sprintf("target %s: %s", res.Target, res.Detail))
		case model.OutcomeFailed:
			return model.NewCLIError(model.ExitLintFailed,
				fmt.Sprintf("target %s: %s", res.Target, res.Detail))
		}
	}
	return nil
}

// printTextReport writes the human-readable per-target summary and a
// totals line to stdout.
func printTextReport(report *model.RunReport) {
	fmt.Println()
	for _, res := range report.Results {
		fmt.Println(FormatResultLine(res))
	}

	passed, failed, missing, skipped := report.Counts()
	fmt.Printf("\n%s\n", FormatCounts(passed, failed, missing, skipped))
}

// printJSONReport writes the full run report as indented JSON to stdout.
func printJSONReport(report *model.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode run report", err)
	}
	fmt.Println(string(data))
	return nil
}

// FormatResultLine renders one target result as a fixed-width summary
// line, e.g. "ok       pkg/controller (12.3s)".
func FormatResultLine(res model.TargetResult) string {
	status := "?"
	switch res.Outcome {
	case model.OutcomePassed:
		status = "ok"
	case model.OutcomeFailed:
		status = "FAIL"
	case model.OutcomeMissing:
		status = "MISSING"
	case model.OutcomeSkipped:
		status = "skipped"
	}

	line := fmt.Sprintf("%-8s %s", status, res.Target)
	if res.Duration > 0 {
		line += fmt.Sprintf(" (%s)", res.Duration.Round(100*time.Millisecond))
	}
	return line
}

// FormatCounts renders the totals line, e.g.
// "6 passed" or "2 passed, 1 missing, 3 skipped".
// Zero-valued categories are omitted.
func FormatCounts(passed, failed, missing, skipped int) string {
	parts := []string{fmt.Sprintf("%d passed", passed)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", missing))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}

	line := parts[0]
	for _, p := range parts[1:] {
		line += ", " + p
	}
	return line
}
