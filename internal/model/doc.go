// Package model defines the domain types and value objects for the
// clipper CLI.
//
// This package contains pure data structures with no external dependencies.
// Targets, results, and run reports are transient values built per
// invocation — clipper keeps no persistent state between runs.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
