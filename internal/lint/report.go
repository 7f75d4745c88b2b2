// report.go serializes run reports for CI consumption.
//
// The report file is YAML: it is diffed and eyeballed in CI logs more
// often than it is machine-parsed, and YAML keeps the per-target entries
// readable. The same RunReport struct also carries json tags for the
// CLI's --json output mode.
package lint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pshail/clipper/internal/model"
)

// reportFileMode keeps report files world-readable; they carry no
// secrets, only target paths and exit statuses.
const reportFileMode = 0o644

// WriteReport marshals the report to YAML and writes it to path,
// replacing any existing file.
func WriteReport(path string, report *model.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			"failed to serialize run report", err)
	}

	if err := os.WriteFile(path, data, reportFileMode); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write run report to %s", path), err)
	}

	return nil
}
