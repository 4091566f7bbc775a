package infra

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// NewPlatformInstaller selects the update installer for goos.
func NewPlatformInstaller(goos string, flavor domain.BuildFlavor, appDataDir string, logger *zap.Logger, progress domain.Progress) domain.UpdateInstaller {
	switch goos {
	case "windows":
		return NewMSIXInstaller(appDataDir, logger, progress)
	case "darwin":
		return NewDMGInstaller(flavor.AppName(), logger, progress)
	default:
		return &UnsupportedInstaller{goos: goos}
	}
}

// UnsupportedInstaller is used on platforms without automatic updates.
type UnsupportedInstaller struct {
	goos string
}

func (u *UnsupportedInstaller) InstallLatestPredownloadedUpdate(string) error {
	return domain.NewUpdateError(domain.ErrUpdateInstall, fmt.Errorf("automatic updates are not supported on %s", u.goos))
}

var _ domain.UpdateInstaller = (*UnsupportedInstaller)(nil)
