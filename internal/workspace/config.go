// config.go loads the optional clipper.jsonc configuration file.
//
// The file format is JSONC (JSON with Comments), the same format family
// used by devcontainer.json and VS Code settings, so comments and
// trailing commas are allowed. Comments are stripped with
// github.com/tidwall/jsonc before parsing with encoding/json.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/pshail/clipper/internal/model"
)

// Config file names probed at the workspace root, in preference order.
// The .jsonc spelling is canonical; plain .json is accepted for tooling
// that refuses to write the .jsonc extension.
var configFileNames = []string{"clipper.jsonc", "clipper.json"}

// Default analysis command. One invocation per target, run with the
// target directory as working directory.
const (
	defaultCommand = "cargo"
)

// defaultArgs returns the default analysis tool arguments.
// --all-targets asks clippy to analyze every build target of the crate
// (lib, bins, tests, benches, examples), not just the default ones.
func defaultArgs() []string {
	return []string{"clippy", "--all-targets"}
}

// defaultDockerImage is the toolchain image used by `lint --docker` when
// the config file does not pin one. The official rust image ships clippy
// in its default rustup profile.
const defaultDockerImage = "rust:1-slim"

// rawConfig mirrors the JSON structure of clipper.jsonc. Only the fields
// clipper understands are declared; unknown fields are silently ignored
// so configs can carry editor metadata.
type rawConfig struct {
	// Targets overrides the built-in crate list. Order is preserved and
	// significant. An empty or omitted array keeps the defaults.
	Targets []string `json:"targets,omitempty"`

	// Command overrides the analysis tool binary (default: cargo).
	Command string `json:"command,omitempty"`

	// Args overrides the analysis tool arguments
	// (default: clippy --all-targets).
	Args []string `json:"args,omitempty"`

	// Docker holds settings for containerized runs.
	Docker *rawDockerConfig `json:"docker,omitempty"`
}

// rawDockerConfig holds the docker-specific settings of clipper.jsonc.
type rawDockerConfig struct {
	// Image is the toolchain image for `lint --docker`.
	Image string `json:"image,omitempty"`
}

// Settings is the resolved, validated configuration for a run. All fields
// are populated — defaults have already been applied.
type Settings struct {
	// Targets is the ordered crate list to analyze.
	Targets []model.Target

	// Command is the analysis tool binary.
	Command string

	// Args are the arguments passed to the analysis tool.
	Args []string

	// DockerImage is the toolchain image for containerized runs.
	DockerImage string

	// ConfigPath is the config file the settings came from, or empty when
	// the built-in defaults are in effect.
	ConfigPath string
}

// CommandLine returns the full analysis command as a display string,
// e.g. "cargo clippy --all-targets".
func (s *Settings) CommandLine() string {
	line := s.Command
	for _, a := range s.Args {
		line += " " + a
	}
	return line
}

// DefaultSettings returns the built-in configuration used when no config
// file exists at the workspace root.
func DefaultSettings() *Settings {
	return &Settings{
		Targets:     DefaultTargets(),
		Command:     defaultCommand,
		Args:        defaultArgs(),
		DockerImage: defaultDockerImage,
	}
}

// LoadSettings resolves the effective configuration for the given
// workspace root. A missing config file is not an error — the defaults
// apply. A config file that exists but cannot be parsed or validated is
// an error with ExitConfigError, because silently falling back to the
// defaults would run a different target list than the user configured.
func LoadSettings(root string) (*Settings, error) {
	path, found := findConfigFile(root)
	if !found {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var raw rawConfig
	// jsonc.ToJSON strips comments and trailing commas in place, producing
	// strict JSON for the standard decoder.
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	settings, err := resolve(&raw)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid config file %s", path), err)
	}
	settings.ConfigPath = path

	return settings, nil
}

// findConfigFile probes the known config file names at the workspace root
// and returns the first one that exists as a regular file.
func findConfigFile(root string) (string, bool) {
	for _, name := range configFileNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// resolve merges a parsed rawConfig over the defaults and validates the
// result.
func resolve(raw *rawConfig) (*Settings, error) {
	settings := DefaultSettings()

	if len(raw.Targets) > 0 {
		targets := make([]model.Target, 0, len(raw.Targets))
		for _, rel := range raw.Targets {
			targets = append(targets, model.Target{RelPath: rel})
		}
		if err := model.ValidateTargets(targets); err != nil {
			return nil, err
		}
		settings.Targets = targets
	}

	if raw.Command != "" {
		settings.Command = raw.Command
	}

	// Args are replaced wholesale, not appended: a config that sets args
	// owns the full tool invocation. Setting args without a command keeps
	// the default cargo binary.
	if len(raw.Args) > 0 {
		settings.Args = append([]string(nil), raw.Args...)
	}

	if raw.Docker != nil && raw.Docker.Image != "" {
		settings.DockerImage = raw.Docker.Image
	}

	return settings, nil
}
