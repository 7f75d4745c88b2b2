package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pshail/clipper/internal/model"
)

// TestDefaultTargetsOrder pins the built-in target list: both the
// membership and the order are part of the tool's contract, so any
// change here must be deliberate.
func TestDefaultTargetsOrder(t *testing.T) {
	targets := DefaultTargets()

	want := []model.Target{
		{RelPath: "pkg/controller"},
		{RelPath: "pkg/kube-rs"},
		{RelPath: "pkg/kube-runtime-abi"},
		{RelPath: "pkg/wasm-delay-queue"},
		{RelPath: "controllers/ring-rust-controller"},
		{RelPath: "controllers/simple-rust-controller"},
	}
	assert.Equal(t, want, targets)
}

// TestDefaultTargetsIsACopy verifies callers can mutate the returned
// slice without corrupting the defaults for later callers.
func TestDefaultTargetsIsACopy(t *testing.T) {
	first := DefaultTargets()
	first[0].RelPath = "mutated"

	assert.Equal(t, "pkg/controller", DefaultTargets()[0].RelPath)
}

// TestResolveRootOverride verifies --root takes precedence over
// executable-based detection and is made absolute.
func TestResolveRootOverride(t *testing.T) {
	dir := t.TempDir()

	root, err := ResolveRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	// A relative override resolves against the current directory.
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, err = ResolveRoot(".")
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
}

// TestResolveRootFromExecutable verifies the default derivation: the
// parent of the directory containing the running binary. The test binary
// is as good an anchor as the installed clipper binary for this.
func TestResolveRootFromExecutable(t *testing.T) {
	exe, err := os.Executable()
	require.NoError(t, err)
	real, err := filepath.EvalSymlinks(exe)
	require.NoError(t, err)

	root, err := ResolveRoot("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(filepath.Dir(real)), root)
	assert.True(t, filepath.IsAbs(root))
}

// TestTargetExists covers the directory/file/absent cases.
func TestTargetExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "controller"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "kube-rs"), []byte("a file"), 0o644))

	assert.True(t, TargetExists(root, model.Target{RelPath: "pkg/controller"}))
	assert.False(t, TargetExists(root, model.Target{RelPath: "pkg/kube-rs"}),
		"a regular file is not a usable target directory")
	assert.False(t, TargetExists(root, model.Target{RelPath: "pkg/missing"}))
}

// TestIsCrate verifies Cargo.toml detection, including the degenerate
// case where Cargo.toml is a directory.
func TestIsCrate(t *testing.T) {
	root := t.TempDir()

	crate := filepath.Join(root, "pkg", "controller")
	require.NoError(t, os.MkdirAll(crate, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(crate, "Cargo.toml"), []byte("[package]\n"), 0o644))

	bare := filepath.Join(root, "pkg", "kube-rs")
	require.NoError(t, os.MkdirAll(bare, 0o755))

	weird := filepath.Join(root, "pkg", "weird")
	require.NoError(t, os.MkdirAll(filepath.Join(weird, "Cargo.toml"), 0o755))

	assert.True(t, IsCrate(root, model.Target{RelPath: "pkg/controller"}))
	assert.False(t, IsCrate(root, model.Target{RelPath: "pkg/kube-rs"}))
	assert.False(t, IsCrate(root, model.Target{RelPath: "pkg/weird"}))
}
