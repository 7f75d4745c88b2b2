package lint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pshail/clipper/internal/model"
)

// TestWriteReport verifies the report file is created, is valid YAML,
// and carries the per-target outcomes a CI consumer would read back.
func TestWriteReport(t *testing.T) {
	report := &model.RunReport{
		Root:      "/repo",
		Command:   "cargo clippy --all-targets",
		StartedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Results: []model.TargetResult{
			{Target: model.Target{RelPath: "pkg/controller"}, Outcome: model.OutcomePassed, ExitCode: 0, Duration: 3 * time.Second},
			{Target: model.Target{RelPath: "pkg/kube-rs"}, Outcome: model.OutcomeFailed, ExitCode: 101, Detail: "analysis exited with status 101"},
			{Target: model.Target{RelPath: "pkg/kube-runtime-abi"}, Outcome: model.OutcomeSkipped, ExitCode: -1},
		},
	}

	path := filepath.Join(t.TempDir(), "clippy-report.yaml")
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded model.RunReport
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, "/repo", decoded.Root)
	assert.Equal(t, "cargo clippy --all-targets", decoded.Command)
	require.Len(t, decoded.Results, 3)
	assert.Equal(t, model.OutcomeFailed, decoded.Results[1].Outcome)
	assert.Equal(t, 101, decoded.Results[1].ExitCode)
	assert.Equal(t, "pkg/kube-runtime-abi", decoded.Results[2].Target.RelPath)
}

// TestWriteReportReplacesExisting verifies an existing report file is
// overwritten, not appended to.
func TestWriteReportReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stale: true\nstale: true\n"), 0o644))

	report := &model.RunReport{Root: "/repo", Command: "cargo clippy --all-targets"}
	require.NoError(t, WriteReport(path, report))

	var decoded model.RunReport
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "/repo", decoded.Root)
}

// TestWriteReportBadPath verifies a write failure surfaces as a CLIError
// rather than a panic or silent success.
func TestWriteReportBadPath(t *testing.T) {
	report := &model.RunReport{Root: "/repo"}

	err := WriteReport(filepath.Join(t.TempDir(), "no-such-dir", "report.yaml"), report)
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitGeneralError, cliErr.Code)
}
