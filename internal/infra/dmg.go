package infra

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// installDirDepth is the number of parents between the launcher binary and
// the directory holding the app bundle: exe, MacOS, Contents, <App>.app.
const installDirDepth = 4

var errNoInstallDir = errors.New("the current install directory could not be found")

// DMGInstaller installs predownloaded disk images on macOS.
type DMGInstaller struct {
	appName    string
	executable func() (string, error)
	runner     domain.CommandRunner
	fs         domain.FileSystemManager
	mounts     domain.MountTable
	logger     *zap.Logger
	progress   domain.Progress
}

// NewDMGInstaller creates an installer for the bundle "<appName>.app".
func NewDMGInstaller(appName string, logger *zap.Logger, progress domain.Progress) *DMGInstaller {
	return NewDMGInstallerWithDeps(appName, os.Executable, &RealCommandRunner{}, NewFileSystemManager(), NewMountTable(), logger, progress)
}

// NewDMGInstallerWithDeps creates an installer with injectable dependencies (for testing).
func NewDMGInstallerWithDeps(
	appName string,
	executable func() (string, error),
	runner domain.CommandRunner,
	fs domain.FileSystemManager,
	mounts domain.MountTable,
	logger *zap.Logger,
	progress domain.Progress,
) *DMGInstaller {
	if progress == nil {
		progress = NoopProgress{}
	}
	return &DMGInstaller{
		appName:    appName,
		executable: executable,
		runner:     runner,
		fs:         fs,
		mounts:     mounts,
		logger:     logger,
		progress:   progress,
	}
}

// InstallLatestPredownloadedUpdate validates the newest DMG in
// <profileDir>/temp/update, mounts it and replaces the installed bundle.
// If removing or copying the bundle fails the image stays mounted; the next
// attempt detaches it before mounting again.
func (d *DMGInstaller) InstallLatestPredownloadedUpdate(profileDir string) error {
	pair, err := LocateUpdateArtifacts(UpdateDir(profileDir), DMGExtension)
	if err != nil {
		return err
	}
	d.log("Absolute DMG image path", zap.String("path", pair.Payload))
	d.log("Absolute checksum file path", zap.String("path", pair.Checksum))

	exe, err := d.executable()
	if err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, fmt.Errorf("failed to get launcher executable: %w", err))
	}
	installDir, err := InstallDir(exe)
	if err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, err)
	}

	mountPoint := filepath.Join(profileDir, "temp", d.appName)
	bundle := d.appName + ".app"
	srcApp := filepath.Join(mountPoint, bundle)
	dstApp := filepath.Join(installDir, bundle)
	d.log("Absolute source app path", zap.String("path", srcApp))
	d.log("Absolute destination app path", zap.String("path", dstApp))

	if err := ValidateFileHash(pair.Payload, pair.Checksum, ChecksumOptions{}); err != nil {
		return domain.NewUpdateError(domain.ErrUpdateValidation, err)
	}
	d.log("DMG checksum validation successful")

	d.recoverStaleMount(mountPoint)

	d.progress.Start("Installing update")
	err = d.replaceBundle(pair.Payload, mountPoint, srcApp, dstApp, installDir)
	d.progress.Stop()
	if err != nil {
		return err
	}

	d.log("Update installed", zap.String("app", dstApp))
	return nil
}

// replaceBundle mounts the image and swaps the installed bundle for the one
// inside it. A bundle missing from the install directory fails the install.
func (d *DMGInstaller) replaceBundle(image, mountPoint, srcApp, dstApp, installDir string) error {
	if err := d.run("mount disk image", "hdiutil", "attach", image, "-mountpoint", mountPoint, "-nobrowse", "-quiet"); err != nil {
		return err
	}

	if err := d.fs.Delete(dstApp); err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, fmt.Errorf("failed to remove %s: %w", dstApp, err))
	}

	if err := d.run("copy application bundle", "cp", "-a", srcApp, installDir); err != nil {
		return err
	}

	return d.run("unmount disk image", "hdiutil", "detach", mountPoint, "-quiet", "-force")
}

// recoverStaleMount detaches an image left behind by an earlier failed
// install. Failures are logged; a mount that really is stuck makes the
// following attach fail instead.
func (d *DMGInstaller) recoverStaleMount(mountPoint string) {
	mounted, err := d.mounts.IsMounted(mountPoint)
	if err != nil {
		d.warn("Failed to read mount table", zap.Error(err))
	}
	if !mounted && !d.fs.Exists(mountPoint) {
		return
	}

	d.log("Previous image looks still mounted, unmounting", zap.String("mountpoint", mountPoint))
	out, err := d.runner.CombinedOutput("hdiutil", "detach", mountPoint, "-quiet", "-force")
	if err != nil {
		d.warn("Failed to unmount stale image", zap.Error(commandFailure("unmount stale image", out, err)))
	}
}

func (d *DMGInstaller) run(step, name string, args ...string) error {
	out, err := d.runner.CombinedOutput(name, args...)
	if err != nil {
		return domain.NewUpdateError(domain.ErrUpdateInstall, commandFailure(step, out, err))
	}
	return nil
}

// InstallDir walks up from the launcher executable to the directory holding
// the app bundle, e.g. "/Applications/Threema Beta.app/Contents/MacOS/x" -> "/Applications".
func InstallDir(exe string) (string, error) {
	dir := filepath.Clean(exe)
	for i := 0; i < installDirDepth; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w from %s", errNoInstallDir, exe)
		}
		dir = parent
	}
	return dir, nil
}

func (d *DMGInstaller) log(msg string, fields ...zap.Field) {
	if d.logger != nil {
		d.logger.Info(msg, fields...)
	}
}

func (d *DMGInstaller) warn(msg string, fields ...zap.Field) {
	if d.logger != nil {
		d.logger.Warn(msg, fields...)
	}
}

var _ domain.UpdateInstaller = (*DMGInstaller)(nil)
