package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pshail/clipper/internal/model"
)

// writeConfig writes a config file with the given name into root.
func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
}

// TestLoadSettingsDefaults verifies that a workspace without a config
// file yields the built-in defaults.
func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultTargets(), settings.Targets)
	assert.Equal(t, "cargo", settings.Command)
	assert.Equal(t, []string{"clippy", "--all-targets"}, settings.Args)
	assert.Equal(t, "rust:1-slim", settings.DockerImage)
	assert.Empty(t, settings.ConfigPath)
	assert.Equal(t, "cargo clippy --all-targets", settings.CommandLine())
}

// TestLoadSettingsJSONCWithComments verifies the JSONC format: comments
// and trailing commas must parse, and configured values override the
// defaults.
func TestLoadSettingsJSONCWithComments(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "clipper.jsonc", `{
  // Lint only the core crates on this branch.
  "targets": [
    "pkg/controller",
    "pkg/kube-rs", // trailing comma below is fine in JSONC
  ],
  "docker": {
    "image": "rust:1.80",
  },
}`)

	settings, err := LoadSettings(root)
	require.NoError(t, err)

	assert.Equal(t, []model.Target{
		{RelPath: "pkg/controller"},
		{RelPath: "pkg/kube-rs"},
	}, settings.Targets)
	assert.Equal(t, "rust:1.80", settings.DockerImage)
	assert.Equal(t, filepath.Join(root, "clipper.jsonc"), settings.ConfigPath)

	// Unset fields keep their defaults.
	assert.Equal(t, "cargo", settings.Command)
	assert.Equal(t, []string{"clippy", "--all-targets"}, settings.Args)
}

// TestLoadSettingsCommandOverride verifies command and args are replaced
// wholesale when configured.
func TestLoadSettingsCommandOverride(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "clipper.jsonc", `{
  "command": "cargo",
  "args": ["clippy", "--all-targets", "--", "-D", "warnings"]
}`)

	settings, err := LoadSettings(root)
	require.NoError(t, err)
	assert.Equal(t, "cargo clippy --all-targets -- -D warnings", settings.CommandLine())
}

// TestLoadSettingsPrefersJSONC verifies clipper.jsonc wins when both
// spellings exist.
func TestLoadSettingsPrefersJSONC(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "clipper.jsonc", `{"targets": ["pkg/controller"]}`)
	writeConfig(t, root, "clipper.json", `{"targets": ["pkg/kube-rs"]}`)

	settings, err := LoadSettings(root)
	require.NoError(t, err)
	require.Len(t, settings.Targets, 1)
	assert.Equal(t, "pkg/controller", settings.Targets[0].RelPath)
}

// TestLoadSettingsInvalid covers the rejection cases: broken syntax and
// target lists that validation must refuse. A present-but-broken config
// is an error, never a silent fallback to the defaults.
func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed json",
			content: `{"targets": [`,
		},
		{
			name:    "absolute target path",
			content: `{"targets": ["/etc"]}`,
		},
		{
			name:    "target escapes the root",
			content: `{"targets": ["../outside"]}`,
		},
		{
			name:    "duplicate target",
			content: `{"targets": ["pkg/controller", "pkg/controller"]}`,
		},
		{
			name:    "empty target entry",
			content: `{"targets": [""]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, "clipper.jsonc", tt.content)

			_, err := LoadSettings(root)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitConfigError, cliErr.Code)
		})
	}
}
