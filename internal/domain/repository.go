package domain

import (
	"context"
	"time"
)

// ProcessLauncher spawns the target binary and waits for it.
// Implementation: os/exec with tty-gated stdio.
type ProcessLauncher interface {
	// Launch starts path with args and blocks until it exits.
	// Errors wrap ErrSpawn or ErrWait; a signalled child is not an error.
	Launch(ctx context.Context, path string, args []string) (ExitStatus, error)
}

// FileSystemManager handles filesystem operations on the profile directory.
type FileSystemManager interface {
	// Exists checks if a path exists.
	Exists(path string) bool

	// Delete removes a file or directory recursively. Removing a path that
	// does not exist is an error.
	Delete(path string) error

	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error
}

// UpdateInstaller installs the latest predownloaded update found under
// <profileDir>/temp/update. Implementations: MSIX (Windows), DMG (macOS).
type UpdateInstaller interface {
	// InstallLatestPredownloadedUpdate returns an *UpdateError on failure.
	InstallLatestPredownloadedUpdate(profileDir string) error
}

// ProfileActions performs the filesystem and update side effects requested by
// the child's exit code.
type ProfileActions interface {
	// DeleteProfile removes the profile directory recursively.
	DeleteProfile(profileDir string) error

	// RenameProfile moves the profile directory to <profileDir>.<unix-ts of now>
	// and returns the new path.
	RenameProfile(profileDir string, now time.Time) (string, error)

	// InstallUpdate delegates to the platform UpdateInstaller.
	InstallUpdate(profileDir string) error
}

// CommandRunner abstracts external tool execution for testing.
type CommandRunner interface {
	// CombinedOutput runs name with args and returns stdout and stderr combined.
	CombinedOutput(name string, args ...string) ([]byte, error)
}

// MountTable reports active filesystem mounts.
type MountTable interface {
	// IsMounted checks if path is currently a mount point.
	IsMounted(path string) (bool, error)
}

// Progress shows activity while a long external operation runs.
type Progress interface {
	Start(message string)
	Stop()
}
