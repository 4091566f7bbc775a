package infra

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// WindowsPlatform wraps the Win32 calls the MSIX installer depends on.
type WindowsPlatform interface {
	// SandboxAppDataDir returns the real location of the package's virtualized
	// %APPDATA%, or an error when the process is not running packaged.
	SandboxAppDataDir() (string, error)

	// PathExists queries file attributes at the OS level, bypassing sandbox
	// virtualization.
	PathExists(path string) bool

	// RegisterRestart asks Windows to restart the app after it is shut down
	// for the package update.
	RegisterRestart() error
}

const powershellExe = "powershell.exe"

// MSIXInstaller installs predownloaded MSIX packages on Windows.
type MSIXInstaller struct {
	appDataDir string
	platform   WindowsPlatform
	runner     domain.CommandRunner
	logger     *zap.Logger
	progress   domain.Progress
}

// NewMSIXInstaller creates an installer for the given %APPDATA% root.
func NewMSIXInstaller(appDataDir string, logger *zap.Logger, progress domain.Progress) *MSIXInstaller {
	return NewMSIXInstallerWithDeps(appDataDir, NewWindowsPlatform(), &RealCommandRunner{}, logger, progress)
}

// NewMSIXInstallerWithDeps creates an installer with injectable dependencies (for testing).
func NewMSIXInstallerWithDeps(appDataDir string, platform WindowsPlatform, runner domain.CommandRunner, logger *zap.Logger, progress domain.Progress) *MSIXInstaller {
	if progress == nil {
		progress = NoopProgress{}
	}
	return &MSIXInstaller{
		appDataDir: appDataDir,
		platform:   platform,
		runner:     runner,
		logger:     logger,
		progress:   progress,
	}
}

// InstallLatestPredownloadedUpdate validates the newest MSIX in
// <profileDir>/temp/update and registers it with the package manager.
// The running app is shut down by Windows and restarted afterwards.
func (m *MSIXInstaller) InstallLatestPredownloadedUpdate(profileDir string) error {
	pair, err := LocateUpdateArtifacts(UpdateDir(profileDir), MSIXExtension)
	if err != nil {
		return err
	}

	pair = m.preferSandboxPaths(pair)
	m.log("Absolute MSIX installer path", zap.String("path", pair.Payload))
	m.log("Absolute checksum file path", zap.String("path", pair.Checksum))

	if err := ValidateFileHash(pair.Payload, pair.Checksum, ChecksumOptions{AllowUTF16: true}); err != nil {
		return domain.NewUpdateError(domain.ErrUpdateValidation, err)
	}
	m.log("MSIX checksum validation successful")

	if err := m.platform.RegisterRestart(); err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, fmt.Errorf("failed to register application restart: %w", err))
	}

	m.log("Requesting install of package")
	m.progress.Start("Installing update")
	out, err := m.runner.CombinedOutput(powershellExe, addAppxPackageArgs(pair.Payload)...)
	m.progress.Stop()
	if err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, commandFailure("register MSIX package", out, err))
	}

	return nil
}

// preferSandboxPaths switches to the sandbox-private copies of the artifacts
// when both really exist there. Outside a package the pair is kept as is.
func (m *MSIXInstaller) preferSandboxPaths(pair domain.UpdateArtifactPair) domain.UpdateArtifactPair {
	sandboxRoot, err := m.platform.SandboxAppDataDir()
	if err != nil {
		m.log("Not running sandboxed", zap.Error(err))
		return pair
	}

	payload, err := SandboxAwarePath(pair.Payload, m.appDataDir, sandboxRoot)
	if err != nil {
		m.log("Update files are outside the app data directory, keeping visible paths", zap.Error(err))
		return pair
	}
	checksum, err := SandboxAwarePath(pair.Checksum, m.appDataDir, sandboxRoot)
	if err != nil {
		m.log("Update files are outside the app data directory, keeping visible paths", zap.Error(err))
		return pair
	}

	m.log("Checking sandbox-aware MSIX path", zap.String("path", payload))
	m.log("Checking sandbox-aware checksum path", zap.String("path", checksum))

	if m.platform.PathExists(payload) && m.platform.PathExists(checksum) {
		m.log("Update files are inside the sandbox, using sandbox paths")
		return domain.UpdateArtifactPair{Payload: payload, Checksum: checksum}
	}
	return pair
}

// addAppxPackageArgs builds a PowerShell invocation that blocks until the
// deployment finishes.
func addAppxPackageArgs(msixPath string) []string {
	quoted := "'" + strings.ReplaceAll(msixPath, "'", "''") + "'"
	return []string{
		"-NoProfile",
		"-NonInteractive",
		"-ExecutionPolicy", "Bypass",
		"-Command",
		"Add-AppxPackage -Path " + quoted + " -ForceApplicationShutdown",
	}
}

func (m *MSIXInstaller) log(msg string, fields ...zap.Field) {
	if m.logger != nil {
		m.logger.Info(msg, fields...)
	}
}

var _ domain.UpdateInstaller = (*MSIXInstaller)(nil)
