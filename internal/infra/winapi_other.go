//go:build !windows

package infra

import (
	"errors"
	"os"
)

var errNotPackaged = errors.New("package identity is only available on windows")

type win32Platform struct{}

// NewWindowsPlatform returns a WindowsPlatform that reports no sandbox.
func NewWindowsPlatform() WindowsPlatform {
	return win32Platform{}
}

func (win32Platform) SandboxAppDataDir() (string, error) {
	return "", errNotPackaged
}

func (win32Platform) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (win32Platform) RegisterRestart() error {
	return errors.New("application restart registration is only available on windows")
}
