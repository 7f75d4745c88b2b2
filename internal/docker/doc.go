// Package docker provides the containerized execution path for clipper.
//
// When `lint --docker` is used, each analysis invocation runs inside a
// Rust toolchain container instead of the local shell: the workspace root
// is bind-mounted at /workspace, the container's working directory is set
// to the target crate, and the container's exit status stands in for the
// local tool's exit status.
//
// The package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Daemon reachability checks for the doctor command
//   - One-shot container runs: create, start, stream logs, wait, remove
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
