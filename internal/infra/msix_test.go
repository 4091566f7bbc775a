package infra

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

func newTestMSIXInstaller(appData string, platform *mockWindowsPlatform, runner *mockCommandRunner) (*MSIXInstaller, *recordingProgress) {
	progress := &recordingProgress{}
	return NewMSIXInstallerWithDeps(appData, platform, runner, zap.NewNop(), progress), progress
}

// TestMSIXInstaller_InstallsValidatedPackage verifies the happy path registers restart then the package
func TestMSIXInstaller_InstallsValidatedPackage(t *testing.T) {
	appData := t.TempDir()
	profile := filepath.Join(appData, "ThreemaDesktop", "consumer-live-default")
	payload, _ := writeUpdate(t, profile, "update-1.2.0.msix")

	platform := &mockWindowsPlatform{sandboxErr: errNotPackaged}
	runner := newMockCommandRunner()
	installer, progress := newTestMSIXInstaller(appData, platform, runner)

	require.NoError(t, installer.InstallLatestPredownloadedUpdate(profile))

	assert.True(t, platform.restartCalled)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, powershellExe, runner.calls[0].name)
	assert.Equal(t, addAppxPackageArgs(payload), runner.calls[0].args)
	assert.Equal(t, []string{"Installing update"}, progress.started)
	assert.Equal(t, 1, progress.stopped)
}

// TestMSIXInstaller_PrefersSandboxPaths verifies remapped files are used when they really exist
func TestMSIXInstaller_PrefersSandboxPaths(t *testing.T) {
	appData := t.TempDir()
	sandbox := t.TempDir()
	profile := filepath.Join(appData, "ThreemaDesktop", "work-live-default")
	rel := filepath.Join("ThreemaDesktop", "work-live-default")

	// Visible copy is corrupt; the real sandbox copy is valid.
	visiblePayload, _ := writeUpdate(t, profile, "update.msix")
	require.NoError(t, os.WriteFile(visiblePayload, []byte("corrupt"), 0644))
	realPayload, realChecksum := writeUpdate(t, filepath.Join(sandbox, rel), "update.msix")

	platform := &mockWindowsPlatform{
		sandboxRoot: sandbox,
		existing:    map[string]bool{realPayload: true, realChecksum: true},
	}
	runner := newMockCommandRunner()
	installer, _ := newTestMSIXInstaller(appData, platform, runner)

	require.NoError(t, installer.InstallLatestPredownloadedUpdate(profile))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, addAppxPackageArgs(realPayload), runner.calls[0].args)
}

// TestMSIXInstaller_KeepsVisiblePathsWhenSandboxCopyMissing verifies the OS existence check gates remapping
func TestMSIXInstaller_KeepsVisiblePathsWhenSandboxCopyMissing(t *testing.T) {
	appData := t.TempDir()
	profile := filepath.Join(appData, "ThreemaDesktop", "work-live-default")
	payload, _ := writeUpdate(t, profile, "update.msix")

	// Only the payload exists in the sandbox; both are required.
	sandbox := t.TempDir()
	sandboxPayload, err := SandboxAwarePath(payload, appData, sandbox)
	require.NoError(t, err)

	platform := &mockWindowsPlatform{
		sandboxRoot: sandbox,
		existing:    map[string]bool{sandboxPayload: true},
	}
	runner := newMockCommandRunner()
	installer, _ := newTestMSIXInstaller(appData, platform, runner)

	require.NoError(t, installer.InstallLatestPredownloadedUpdate(profile))
	assert.Equal(t, addAppxPackageArgs(payload), runner.calls[0].args)
}

// TestMSIXInstaller_LogsProfileOutsideAppData verifies the sandbox decision is logged when remapping is impossible
func TestMSIXInstaller_LogsProfileOutsideAppData(t *testing.T) {
	appData := t.TempDir()
	profile := filepath.Join(t.TempDir(), "ThreemaDesktop", "consumer-live-default")
	payload, _ := writeUpdate(t, profile, "update.msix")

	platform := &mockWindowsPlatform{sandboxRoot: t.TempDir()}
	runner := newMockCommandRunner()
	core, logs := observer.New(zap.InfoLevel)
	installer := NewMSIXInstallerWithDeps(appData, platform, runner, zap.New(core), nil)

	require.NoError(t, installer.InstallLatestPredownloadedUpdate(profile))

	assert.Equal(t, addAppxPackageArgs(payload), runner.calls[0].args)
	assert.Equal(t, 1, logs.FilterMessage("Update files are outside the app data directory, keeping visible paths").Len())
}

// TestMSIXInstaller_ValidationFailureDoesNotInstall verifies a bad checksum short-circuits
func TestMSIXInstaller_ValidationFailureDoesNotInstall(t *testing.T) {
	appData := t.TempDir()
	profile := filepath.Join(appData, "p")
	payload, _ := writeUpdate(t, profile, "update.msix")
	require.NoError(t, os.WriteFile(payload, []byte("tampered"), 0644))

	platform := &mockWindowsPlatform{sandboxErr: errNotPackaged}
	runner := newMockCommandRunner()
	installer, _ := newTestMSIXInstaller(appData, platform, runner)

	err := installer.InstallLatestPredownloadedUpdate(profile)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpdateValidation)
	assert.ErrorIs(t, err, ErrHashMismatch)
	assert.False(t, platform.restartCalled)
	assert.Empty(t, runner.calls)
}

func TestMSIXInstaller_NotFound(t *testing.T) {
	installer, _ := newTestMSIXInstaller(t.TempDir(), &mockWindowsPlatform{}, newMockCommandRunner())

	err := installer.InstallLatestPredownloadedUpdate(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrUpdateNotFound)
}

func TestMSIXInstaller_InstallFailures(t *testing.T) {
	t.Run("restart registration", func(t *testing.T) {
		appData := t.TempDir()
		profile := filepath.Join(appData, "p")
		writeUpdate(t, profile, "update.msix")

		platform := &mockWindowsPlatform{sandboxErr: errNotPackaged, restartErr: errors.New("denied")}
		runner := newMockCommandRunner()
		installer, _ := newTestMSIXInstaller(appData, platform, runner)

		err := installer.InstallLatestPredownloadedUpdate(profile)
		assert.ErrorIs(t, err, domain.ErrUpdateInstall)
		assert.Empty(t, runner.calls)
	})

	t.Run("package registration", func(t *testing.T) {
		appData := t.TempDir()
		profile := filepath.Join(appData, "p")
		writeUpdate(t, profile, "update.msix")

		runner := newMockCommandRunner()
		runner.failOn[powershellExe+" -NoProfile"] = errToolFailed
		runner.output[powershellExe+" -NoProfile"] = []byte("Deployment failed with HRESULT: 0x80073CF3\r\n")
		installer, progress := newTestMSIXInstaller(appData, &mockWindowsPlatform{sandboxErr: errNotPackaged}, runner)

		err := installer.InstallLatestPredownloadedUpdate(profile)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpdateInstall)
		assert.ErrorIs(t, err, errToolFailed)
		assert.Contains(t, err.Error(), "0x80073CF3")
		assert.Equal(t, 1, progress.stopped)
	})
}

func TestAddAppxPackageArgs_QuotesPath(t *testing.T) {
	args := addAppxPackageArgs(`C:\Users\o'brien\update.msix`)

	assert.Equal(t, "-Command", args[len(args)-2])
	assert.Equal(t, `Add-AppxPackage -Path 'C:\Users\o''brien\update.msix' -ForceApplicationShutdown`, args[len(args)-1])
}
