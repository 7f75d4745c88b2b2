// Package lint implements the sequential analysis run over the configured
// workspace targets.
//
// The run is a synchronous fold over an ordered target list: each target
// directory is checked for existence, the analysis tool is invoked with
// that directory as its working directory, and the run aborts at the
// first failure. There is no parallelism and no retry — the tool's own
// diagnostics pass through verbatim and its exit status decides whether
// the run continues.
//
// The actual invocation is abstracted behind the Executor interface so
// that the same fold drives both local (os/exec) and containerized
// (internal/docker) execution, and so tests can record invocations with
// a fake.
package lint
