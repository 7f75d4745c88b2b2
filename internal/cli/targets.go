// Package cli — targets.go implements the "clipper targets" command.
//
// The targets command shows the effective target list in run order,
// along with whether each directory exists under the workspace root and
// whether it looks like a crate (has a Cargo.toml). It is a read-only
// inspection command — nothing is invoked.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pshail/clipper/internal/model"
	"github.com/pshail/clipper/internal/workspace"
)

// targetsEntry is the per-target row rendered by the targets command.
type targetsEntry struct {
	// Path is the target's root-relative path.
	Path string `json:"path"`

	// Exists reports whether the directory is present under the root.
	Exists bool `json:"exists"`

	// Crate reports whether the directory contains a Cargo.toml.
	Crate bool `json:"crate"`
}

// NewTargetsCommand creates the "targets" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "Show the configured targets in run order",
		Long: `Show the effective target list (from clipper.jsonc or the built-in
defaults), in the order they will be analyzed, with existence and crate
status for each directory.

Examples:
  clipper targets
  clipper targets --json
  clipper targets --root /path/to/workspace`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets()
		},
	}
}

// runTargets is the main logic function for the targets command.
func runTargets() error {
	root, err := workspace.ResolveRoot(rootDir)
	if err != nil {
		return err
	}

	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return err
	}

	entries := buildTargetsEntries(root, settings.Targets)

	if IsJSONOutput() {
		data, err := json.MarshalIndent(map[string]interface{}{
			"root":    root,
			"targets": entries,
		}, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode targets", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Workspace root: %s\n", root)
	if settings.ConfigPath != "" {
		fmt.Printf("Config file:    %s\n", settings.ConfigPath)
	}
	fmt.Println()
	for i, e := range entries {
		fmt.Printf("%2d. %s\n", i+1, FormatTargetsLine(e))
	}

	return nil
}

// buildTargetsEntries resolves the display status of each target against
// the root. Pure apart from the filesystem probes, so tests can drive it
// with a t.TempDir() fixture.
func buildTargetsEntries(root string, targets []model.Target) []targetsEntry {
	entries := make([]targetsEntry, 0, len(targets))
	for _, t := range targets {
		entries = append(entries, targetsEntry{
			Path:   t.RelPath,
			Exists: workspace.TargetExists(root, t),
			Crate:  workspace.IsCrate(root, t),
		})
	}
	return entries
}

// FormatTargetsLine renders one targets-command row, e.g.
// "pkg/controller" or "pkg/kube-rs (missing)" or "tools (no Cargo.toml)".
func FormatTargetsLine(e targetsEntry) string {
	switch {
	case !e.Exists:
		return e.Path + " (missing)"
	case !e.Crate:
		return e.Path + " (no Cargo.toml)"
	default:
		return e.Path
	}
}
