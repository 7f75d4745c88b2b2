// Package cli — doctor.go implements the "clipper doctor" command.
//
// The doctor command is an environment preflight: it checks that the
// pieces a lint run depends on are actually available before a user
// burns minutes waiting for cargo to fail halfway through the target
// list. Checks that only matter for optional features (the Docker
// daemon) are reported but do not fail the command unless requested.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/pshail/clipper/internal/docker"
	"github.com/pshail/clipper/internal/model"
	"github.com/pshail/clipper/internal/workspace"
)

// doctorFlags holds the flag values for the doctor command.
type doctorFlags struct {
	// checkDocker promotes the Docker daemon check from informational to
	// required, for users who intend to run `lint --docker`.
	checkDocker bool
}

// doctorCheck is one preflight check result.
type doctorCheck struct {
	// Name identifies the check (e.g., "cargo").
	Name string `json:"name"`

	// OK reports whether the check passed.
	OK bool `json:"ok"`

	// Required marks checks whose failure fails the whole command.
	Required bool `json:"required"`

	// Detail is a human-readable result line (path found, error text).
	Detail string `json:"detail"`
}

// NewDoctorCommand creates the "doctor" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewDoctorCommand() *cobra.Command {
	flags := &doctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment can run a lint pass",
		Long: `Check the environment a lint run depends on: the workspace root and its
target directories, the analysis tool on PATH, and (informationally) the
Docker daemon for --docker runs.

Examples:
  clipper doctor
  clipper doctor --docker`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.checkDocker, "docker", false,
		"Treat Docker daemon reachability as a required check")

	return cmd
}

// runDoctor executes all preflight checks and reports them.
func runDoctor(ctx context.Context, flags *doctorFlags) error {
	root, err := workspace.ResolveRoot(rootDir)
	if err != nil {
		return err
	}

	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return err
	}

	var checks []doctorCheck

	// Workspace root and targets.
	checks = append(checks, checkTargets(root, settings))

	// Analysis tool on PATH. With --docker the tool comes from the image,
	// so the local binary is informational only.
	toolCheck := checkTool(settings.Command)
	toolCheck.Required = !flags.checkDocker
	checks = append(checks, toolCheck)

	// Docker daemon. Informational unless --docker was given.
	dockerCheck := checkDocker(ctx)
	dockerCheck.Required = flags.checkDocker
	checks = append(checks, dockerCheck)

	if IsJSONOutput() {
		data, err := json.MarshalIndent(map[string]interface{}{
			"root":   root,
			"checks": checks,
		}, "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode doctor checks", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("Workspace root: %s\n\n", root)
		for _, c := range checks {
			fmt.Println(FormatCheckLine(c))
		}
	}

	return doctorError(checks)
}

// checkTargets verifies every configured target directory exists under
// the root. One aggregate check rather than six rows — the targets
// command already provides the per-directory view.
func checkTargets(root string, settings *workspace.Settings) doctorCheck {
	missing := 0
	for _, t := range settings.Targets {
		if !workspace.TargetExists(root, t) {
			missing++
		}
	}

	if missing > 0 {
		return doctorCheck{
			Name:     "targets",
			OK:       false,
			Required: true,
			Detail:   fmt.Sprintf("%d of %d target directories missing (see `clipper targets`)", missing, len(settings.Targets)),
		}
	}
	return doctorCheck{
		Name:     "targets",
		OK:       true,
		Required: true,
		Detail:   fmt.Sprintf("all %d target directories present", len(settings.Targets)),
	}
}

// checkTool verifies the analysis tool binary resolves on PATH.
func checkTool(command string) doctorCheck {
	path, err := exec.LookPath(command)
	if err != nil {
		return doctorCheck{
			Name:   command,
			OK:     false,
			Detail: fmt.Sprintf("%s not found on PATH", command),
		}
	}
	return doctorCheck{
		Name:   command,
		OK:     true,
		Detail: path,
	}
}

// checkDocker verifies the Docker daemon is reachable.
func checkDocker(ctx context.Context) doctorCheck {
	cli, err := docker.NewClient()
	if err != nil {
		return doctorCheck{Name: "docker", OK: false, Detail: err.Error()}
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return doctorCheck{Name: "docker", OK: false, Detail: err.Error()}
	}
	return doctorCheck{Name: "docker", OK: true, Detail: "daemon reachable"}
}

// doctorError maps the check results to the command's return value: the
// first failed required check decides. Tool-missing and daemon-down get
// their specific exit codes; other required failures are general errors.
func doctorError(checks []doctorCheck) error {
	for _, c := range checks {
		if c.OK || !c.Required {
			continue
		}
		switch c.Name {
		case "docker":
			return model.NewCLIError(model.ExitDockerNotRunning, c.Detail)
		case "targets":
			return model.NewCLIError(model.ExitTargetMissing, c.Detail)
		default:
			return model.NewCLIError(model.ExitToolNotFound, c.Detail)
		}
	}
	return nil
}

// FormatCheckLine renders one doctor row, e.g.
// "ok   cargo: /usr/bin/cargo" or "warn docker: daemon not reachable".
// Failed optional checks render as warnings rather than failures.
func FormatCheckLine(c doctorCheck) string {
	status := "ok"
	if !c.OK {
		status = "warn"
		if c.Required {
			status = "FAIL"
		}
	}
	return fmt.Sprintf("%-5s %s: %s", status, c.Name, c.Detail)
}
