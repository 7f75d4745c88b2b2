// root.go handles workspace root resolution and the built-in target list.
//
// Root resolution is deliberately simple: clipper is repository tooling,
// not a general-purpose linter, so the root is derived from where the
// binary itself lives rather than from the caller's working directory.
// This keeps behavior identical no matter which directory the user runs
// the command from.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pshail/clipper/internal/model"
)

// DefaultTargets returns the built-in ordered list of crate directories.
// The order is significant: targets are analyzed strictly in this sequence
// and the run aborts at the first failure, so the cheap core crates come
// before the controller crates that depend on them.
//
// Callers receive a fresh slice on every call so they can append or
// filter without affecting other callers.
func DefaultTargets() []model.Target {
	return []model.Target{
		{RelPath: "pkg/controller"},
		{RelPath: "pkg/kube-rs"},
		{RelPath: "pkg/kube-runtime-abi"},
		{RelPath: "pkg/wasm-delay-queue"},
		{RelPath: "controllers/ring-rust-controller"},
		{RelPath: "controllers/simple-rust-controller"},
	}
}

// ResolveRoot determines the workspace root directory.
//
// When override is non-empty (the --root flag), it is used directly after
// being made absolute. Otherwise the root is the parent of the directory
// containing the running executable: a binary installed at
// /repo/tools/clipper resolves to /repo.
//
// Symlinks on the executable path are resolved first so that a binary
// reached through ~/bin symlinks still resolves to its real install
// location, not the symlink farm.
func ResolveRoot(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to resolve --root %q", override), err)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			"failed to locate the clipper executable", err)
	}

	// Resolve symlinks so the root derives from the real install location.
	real, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to resolve executable path %q", exe), err)
	}

	return filepath.Dir(filepath.Dir(real)), nil
}

// TargetExists reports whether the target resolves to an existing
// directory under the given root. A path that exists but is a regular
// file counts as missing, since the analysis tool needs a directory to
// run in.
func TargetExists(root string, t model.Target) bool {
	info, err := os.Stat(t.AbsPath(root))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsCrate reports whether the target directory contains a Cargo.toml
// manifest. Used by the targets command for display only — the lint run
// itself relies on the analysis tool's own manifest discovery.
func IsCrate(root string, t model.Target) bool {
	info, err := os.Stat(filepath.Join(t.AbsPath(root), "Cargo.toml"))
	if err != nil {
		return false
	}
	return !info.IsDir()
}
