//go:build windows

package infra

import (
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	appModelErrorNoPackage  = 15700
	errorInsufficientBuffer = 122
)

var (
	modkernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procGetCurrentPackageFamilyName = modkernel32.NewProc("GetCurrentPackageFamilyName")
	procRegisterApplicationRestart  = modkernel32.NewProc("RegisterApplicationRestart")
)

// errNotPackaged is returned when the process has no package identity.
var errNotPackaged = errors.New("process has no package identity")

type win32Platform struct{}

// NewWindowsPlatform returns the Win32 backed WindowsPlatform.
func NewWindowsPlatform() WindowsPlatform {
	return win32Platform{}
}

// SandboxAppDataDir returns %LOCALAPPDATA%\Packages\<family>\LocalCache\Roaming.
func (win32Platform) SandboxAppDataDir() (string, error) {
	family, err := currentPackageFamilyName()
	if err != nil {
		return "", err
	}

	local, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppData, 0)
	if err != nil {
		return "", fmt.Errorf("failed to get local app data folder: %w", err)
	}

	return filepath.Join(local, "Packages", family, "LocalCache", "Roaming"), nil
}

func (win32Platform) PathExists(path string) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	return err == nil && attrs != windows.INVALID_FILE_ATTRIBUTES
}

// RegisterRestart calls RegisterApplicationRestart(NULL, 0): always restart.
func (win32Platform) RegisterRestart() error {
	if err := procRegisterApplicationRestart.Find(); err != nil {
		return err
	}
	hr, _, _ := procRegisterApplicationRestart.Call(0, 0)
	if hr != 0 {
		return fmt.Errorf("RegisterApplicationRestart returned HRESULT 0x%08x", uint32(hr))
	}
	return nil
}

func currentPackageFamilyName() (string, error) {
	if err := procGetCurrentPackageFamilyName.Find(); err != nil {
		return "", err
	}

	var length uint32
	r, _, _ := procGetCurrentPackageFamilyName.Call(uintptr(unsafe.Pointer(&length)), 0)
	switch r {
	case appModelErrorNoPackage:
		return "", errNotPackaged
	case errorInsufficientBuffer:
	default:
		return "", fmt.Errorf("GetCurrentPackageFamilyName failed: %w", windows.Errno(r))
	}

	buf := make([]uint16, length)
	r, _, _ = procGetCurrentPackageFamilyName.Call(uintptr(unsafe.Pointer(&length)), uintptr(unsafe.Pointer(&buf[0])))
	if r != 0 {
		return "", fmt.Errorf("GetCurrentPackageFamilyName failed: %w", windows.Errno(r))
	}
	return windows.UTF16ToString(buf), nil
}
