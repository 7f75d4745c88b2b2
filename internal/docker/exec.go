// exec.go implements the containerized analysis executor.
//
// Each invocation is a one-shot container: created from the configured
// toolchain image, bind-mounted over the workspace root, run to
// completion with its logs streamed through, then removed. The
// container's exit status is returned as the tool's exit status, which
// keeps the fail-fast semantics identical to local execution.
package docker

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/pshail/clipper/internal/model"
)

// workspaceMount is where the workspace root is bind-mounted inside the
// toolchain container. Target working directories are resolved under it.
const workspaceMount = "/workspace"

// Labels applied to every container clipper creates, so stray containers
// from interrupted runs can be identified and cleaned up by hand.
const (
	// LabelManagedBy marks a container as created by clipper.
	LabelManagedBy = "clipper.managed-by"

	// ManagedByValue is the value stored under LabelManagedBy.
	ManagedByValue = "clipper"

	// LabelTarget records which crate directory the container analyzed.
	LabelTarget = "clipper.target"
)

// ContainerExecutor satisfies lint.Executor by running the analysis tool
// inside a toolchain container.
type ContainerExecutor struct {
	// Client is the Docker client to use. The executor does not close it.
	Client *Client

	// Image is the toolchain image (e.g., "rust:1-slim"). Pulled on demand
	// when not present locally.
	Image string

	// Command and Args form the command line run inside the container.
	Command string
	Args    []string

	// Stdout and Stderr receive the demultiplexed container log streams.
	Stdout io.Writer
	Stderr io.Writer

	// Log receives verbose progress messages (image pulls, container ids).
	// May be nil.
	Log func(format string, args ...interface{})
}

// Run creates, runs, and removes one analysis container for the target.
// It blocks until the container exits and returns its exit status.
func (e *ContainerExecutor) Run(ctx context.Context, root string, target model.Target) (int, error) {
	cli := e.Client.Inner()

	config := &container.Config{
		Image: e.Image,
		Cmd:   append([]string{e.Command}, e.Args...),
		// The working directory inside the container mirrors the target's
		// position in the workspace. path.Join (not filepath) because
		// container paths are always slash-separated regardless of host OS.
		WorkingDir: path.Join(workspaceMount, target.RelPath),
		Labels: map[string]string{
			LabelManagedBy: ManagedByValue,
			LabelTarget:    target.RelPath,
		},
	}

	hostConfig := &container.HostConfig{
		// Read-write: cargo writes the target/ build directory inside the
		// crate, same as a local run would.
		Binds: []string{root + ":" + workspaceMount},
	}

	created, err := cli.ContainerCreate(ctx, config, hostConfig, nil, nil, "")
	if errdefs.IsNotFound(err) {
		// Image not present locally — pull it once and retry the create.
		if pullErr := e.pullImage(ctx); pullErr != nil {
			return -1, pullErr
		}
		created, err = cli.ContainerCreate(ctx, config, hostConfig, nil, nil, "")
	}
	if err != nil {
		return -1, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create analysis container for %s", target), err)
	}

	id := created.ID
	e.logf("created container %.12s for %s", id, target)

	// Remove the container on every exit path. Force covers the case where
	// the run was cancelled while the container was still running.
	defer func() {
		_ = cli.ContainerRemove(context.WithoutCancel(ctx), id,
			container.RemoveOptions{Force: true})
	}()

	if err := cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return -1, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start analysis container for %s", target), err)
	}

	// Follow the log stream until the container exits. Docker multiplexes
	// stdout and stderr over one connection; stdcopy demultiplexes them
	// back onto our two writers.
	logs, err := cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return -1, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to attach to analysis container for %s", target), err)
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(e.Stdout, e.Stderr, logs); err != nil {
		return -1, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to stream analysis output for %s", target), err)
	}

	// The log stream closing does not guarantee the exit status is
	// recorded yet; ContainerWait is the authoritative source.
	statusCh, errCh := cli.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return -1, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("analysis container for %s failed: %s", target, status.Error.Message))
		}
		return int(status.StatusCode), nil
	case err := <-errCh:
		return -1, model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to wait for analysis container for %s", target), err)
	}
}

// pullImage pulls the toolchain image. The pull progress stream must be
// drained for the pull to actually complete; it is discarded rather than
// rendered because clipper's output contract is the tool's diagnostics,
// not Docker progress bars.
func (e *ContainerExecutor) pullImage(ctx context.Context) error {
	e.logf("pulling toolchain image %s", e.Image)

	reader, err := e.Client.Inner().ImagePull(ctx, e.Image, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull toolchain image %s", e.Image), err)
	}
	defer reader.Close()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return model.WrapCLIError(model.ExitDockerNotRunning,
			fmt.Sprintf("toolchain image pull interrupted for %s", e.Image), err)
	}
	return nil
}

// logf forwards to the Log hook when one is set.
func (e *ContainerExecutor) logf(format string, args ...interface{}) {
	if e.Log != nil {
		e.Log(format, args...)
	}
}
