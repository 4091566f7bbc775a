package infra

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SandboxAwarePath maps path below appDataRoot to the same relative location
// below sandboxRoot. MSIX packaged apps see a virtualized %APPDATA%; files
// written there really live in the package's LocalCache\Roaming folder.
func SandboxAwarePath(path, appDataRoot, sandboxRoot string) (string, error) {
	rel, err := filepath.Rel(appDataRoot, path)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", path, appDataRoot, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is not inside %s", path, appDataRoot)
	}
	return filepath.Join(sandboxRoot, rel), nil
}
