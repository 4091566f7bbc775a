package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

const (
	rootDirectoryName = "ThreemaDesktop"
	profileFlagPrefix = "--threema-profile="
	defaultProfile    = "default"
)

// HomeDirFunc returns the user's home directory (os.UserHomeDir).
type HomeDirFunc func() (string, error)

// AppDataBaseDir returns the OS-conventional application data directory:
//
//   - Linux / BSD: $XDG_DATA_HOME or ~/.local/share
//   - macOS: ~/Library/Application Support
//   - Windows: %APPDATA%
//   - Other: ~
func AppDataBaseDir(goos string, cfg Config, home HomeDirFunc) (string, error) {
	switch goos {
	case "linux", "freebsd", "dragonfly", "netbsd", "openbsd", "solaris":
		if xdg := strings.TrimSpace(cfg.XDGDataHome); xdg != "" {
			return xdg, nil
		}
		h, err := homeDir(home)
		if err != nil {
			return "", err
		}
		return filepath.Join(h, ".local", "share"), nil
	case "darwin":
		h, err := homeDir(home)
		if err != nil {
			return "", err
		}
		return filepath.Join(h, "Library", "Application Support"), nil
	case "windows":
		if strings.TrimSpace(cfg.AppData) == "" {
			return "", fmt.Errorf("%w: %%APPDATA%% is not set", domain.ErrConfiguration)
		}
		return cfg.AppData, nil
	default:
		return homeDir(home)
	}
}

// ProfileRootDir returns the directory holding all profiles. Unknown
// operating systems get a hidden directory in the home directory.
func ProfileRootDir(goos, baseDir string) string {
	switch goos {
	case "linux", "freebsd", "dragonfly", "netbsd", "openbsd", "solaris", "darwin", "windows":
		return filepath.Join(baseDir, rootDirectoryName)
	default:
		return filepath.Join(baseDir, "."+rootDirectoryName)
	}
}

// ProfileName returns the value of the first --threema-profile=<name>
// argument, or "default".
func ProfileName(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, profileFlagPrefix) {
			return strings.TrimPrefix(arg, profileFlagPrefix)
		}
	}
	return defaultProfile
}

// ProfileDirectory returns <rootDir>/<flavor>-<profile>.
func ProfileDirectory(rootDir string, flavor domain.BuildFlavor, args []string) string {
	return filepath.Join(rootDir, fmt.Sprintf("%s-%s", flavor, ProfileName(args)))
}

// AppendToPath appends suffix to the last path element, keeping the parent.
func AppendToPath(p, suffix string) string {
	return filepath.Clean(p) + suffix
}

func homeDir(home HomeDirFunc) (string, error) {
	h, err := home()
	if err != nil {
		return "", fmt.Errorf("%w: could not determine user home directory: %w", domain.ErrConfiguration, err)
	}
	return h, nil
}
