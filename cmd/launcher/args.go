package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

const targetBinFlag = "--launcher-target-bin"

// launcherOptions are the flags the launcher consumes itself. Everything in
// childArgs is forwarded to the target binary on every launch.
type launcherOptions struct {
	help           bool
	version        bool
	targetOverride string
	childArgs      []string
}

// parseLauncherArgs picks out launcher flags. Unknown flags are left for the
// child, so cobra's flag parsing is disabled for the root command.
func parseLauncherArgs(args []string, allowPathOverride bool) launcherOptions {
	var opts launcherOptions
	for _, arg := range args {
		switch arg {
		case "--launcher-help", "-h", "--help":
			opts.help = true
		case "--launcher-version", "--version":
			opts.version = true
		}
	}

	child := append([]string(nil), args...)
	if allowPathOverride {
		for i, arg := range child {
			if arg == targetBinFlag && i+1 < len(child) {
				opts.targetOverride = child[i+1]
				child = append(child[:i], child[i+2:]...)
				break
			}
		}
	}
	opts.childArgs = child
	return opts
}

// binaryName is the file name of the application binary next to the launcher.
func binaryName(goos string) string {
	if goos == "windows" {
		return "ThreemaDesktop.exe"
	}
	return "ThreemaDesktop"
}

// resolveTargetPath returns the binary to supervise. Relative overrides are
// resolved against the launcher's directory.
func resolveTargetPath(launcherExe, override, goos string) string {
	name := override
	if name == "" {
		name = binaryName(goos)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(launcherExe), name)
}

// checkTarget ensures the target exists and is a regular file.
func checkTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: target path %s not found: %w", domain.ErrConfiguration, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: target path %s is not a file", domain.ErrConfiguration, path)
	}
	return nil
}
