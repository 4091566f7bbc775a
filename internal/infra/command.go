package infra

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// RealCommandRunner executes real system commands.
type RealCommandRunner struct{}

// CombinedOutput runs a command to completion and returns stdout and stderr.
func (r *RealCommandRunner) CombinedOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

var _ domain.CommandRunner = (*RealCommandRunner)(nil)

// commandFailure attaches the tool's diagnostic output to a failed invocation.
func commandFailure(step string, output []byte, err error) error {
	diag := strings.TrimSpace(string(output))
	if diag == "" {
		return fmt.Errorf("failed to %s: %w", step, err)
	}
	return fmt.Errorf("failed to %s: %w: %s", step, err, diag)
}
