// Package infra implements infrastructure concerns (process, filesystem, installers).
package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// ProcessLauncherImpl implements domain.ProcessLauncher using os/exec.
type ProcessLauncherImpl struct {
	stdout io.Writer
	stderr io.Writer
}

// NewProcessLauncher creates a launcher whose child inherits stdout and
// stderr only where they are terminals. Stdin is always the null device.
func NewProcessLauncher() domain.ProcessLauncher {
	var stdout, stderr io.Writer
	if IsTerminal(os.Stdout) {
		stdout = os.Stdout
	}
	if IsTerminal(os.Stderr) {
		stderr = os.Stderr
	}
	return NewProcessLauncherWithStreams(stdout, stderr)
}

// NewProcessLauncherWithStreams creates a launcher with explicit child output
// streams. A nil writer discards that stream.
func NewProcessLauncherWithStreams(stdout, stderr io.Writer) *ProcessLauncherImpl {
	return &ProcessLauncherImpl{stdout: stdout, stderr: stderr}
}

// Launch starts path with args and waits for it to terminate. A child killed
// by a signal yields domain.MissingExitCode, not an error.
func (pl *ProcessLauncherImpl) Launch(ctx context.Context, path string, args []string) (domain.ExitStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.ExitStatus{}, fmt.Errorf("%w: %w", domain.ErrSpawn, err)
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = nil
	cmd.Stdout = pl.stdout
	cmd.Stderr = pl.stderr

	if err := cmd.Start(); err != nil {
		return domain.ExitStatus{}, fmt.Errorf("%w %s: %w", domain.ErrSpawn, path, err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return domain.ExitStatus{}, fmt.Errorf("%w: %w", domain.ErrWait, err)
	}

	return exitStatusOf(cmd.ProcessState), nil
}

func exitStatusOf(state *os.ProcessState) domain.ExitStatus {
	if state == nil {
		return domain.MissingExitCode()
	}
	// ExitCode is -1 when the process was terminated by a signal.
	code := state.ExitCode()
	if code == -1 {
		return domain.MissingExitCode()
	}
	return domain.ExitedWith(code)
}

// Ensure ProcessLauncherImpl implements domain.ProcessLauncher.
var _ domain.ProcessLauncher = (*ProcessLauncherImpl)(nil)
