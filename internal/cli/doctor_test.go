// Package cli — doctor_test.go contains unit tests for the doctor
// command's individual checks and result mapping.
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pshail/clipper/internal/model"
	"github.com/pshail/clipper/internal/workspace"
)

// TestCheckTool verifies PATH resolution for the analysis tool using a
// fake binary in a scratch PATH.
func TestCheckTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake-executable PATH fixture is unix-only")
	}

	binDir := t.TempDir()
	fakeCargo := filepath.Join(binDir, "cargo")
	require.NoError(t, os.WriteFile(fakeCargo, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", binDir)

	found := checkTool("cargo")
	assert.True(t, found.OK)
	assert.Equal(t, fakeCargo, found.Detail)

	missing := checkTool("clippy-driver-nonexistent")
	assert.False(t, missing.OK)
	assert.Contains(t, missing.Detail, "not found on PATH")
}

// TestCheckTargets verifies the aggregate target check against partial
// and complete workspace fixtures.
func TestCheckTargets(t *testing.T) {
	root := t.TempDir()
	settings := &workspace.Settings{Targets: []model.Target{
		{RelPath: "pkg/controller"},
		{RelPath: "pkg/kube-rs"},
	}}

	// Only one of the two targets exists.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "controller"), 0o755))

	check := checkTargets(root, settings)
	assert.False(t, check.OK)
	assert.True(t, check.Required)
	assert.Contains(t, check.Detail, "1 of 2")

	// Create the second target; the check should now pass.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "kube-rs"), 0o755))

	check = checkTargets(root, settings)
	assert.True(t, check.OK)
	assert.Contains(t, check.Detail, "all 2")
}

// TestDoctorError verifies that only failed required checks fail the
// command, and that each check maps to its specific exit code.
func TestDoctorError(t *testing.T) {
	tests := []struct {
		name     string
		checks   []doctorCheck
		wantCode model.ExitCode
		wantErr  bool
	}{
		{
			name: "all ok",
			checks: []doctorCheck{
				{Name: "targets", OK: true, Required: true},
				{Name: "cargo", OK: true, Required: true},
				{Name: "docker", OK: true},
			},
			wantErr: false,
		},
		{
			name: "optional docker failure is not an error",
			checks: []doctorCheck{
				{Name: "targets", OK: true, Required: true},
				{Name: "cargo", OK: true, Required: true},
				{Name: "docker", OK: false},
			},
			wantErr: false,
		},
		{
			name: "required docker failure",
			checks: []doctorCheck{
				{Name: "targets", OK: true, Required: true},
				{Name: "docker", OK: false, Required: true, Detail: "daemon unreachable"},
			},
			wantErr:  true,
			wantCode: model.ExitDockerNotRunning,
		},
		{
			name: "missing targets",
			checks: []doctorCheck{
				{Name: "targets", OK: false, Required: true, Detail: "2 of 6 target directories missing"},
			},
			wantErr:  true,
			wantCode: model.ExitTargetMissing,
		},
		{
			name: "missing tool",
			checks: []doctorCheck{
				{Name: "targets", OK: true, Required: true},
				{Name: "cargo", OK: false, Required: true, Detail: "cargo not found on PATH"},
			},
			wantErr:  true,
			wantCode: model.ExitToolNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := doctorError(tt.checks)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, tt.wantCode, cliErr.Code)
		})
	}
}

// TestFormatCheckLine verifies the ok/warn/FAIL renderings.
func TestFormatCheckLine(t *testing.T) {
	assert.Equal(t, "ok    cargo: /usr/bin/cargo",
		FormatCheckLine(doctorCheck{Name: "cargo", OK: true, Detail: "/usr/bin/cargo"}))
	assert.Equal(t, "warn  docker: daemon unreachable",
		FormatCheckLine(doctorCheck{Name: "docker", OK: false, Detail: "daemon unreachable"}))
	assert.Equal(t, "FAIL  targets: 2 of 6 target directories missing",
		FormatCheckLine(doctorCheck{Name: "targets", OK: false, Required: true, Detail: "2 of 6 target directories missing"}))
}
