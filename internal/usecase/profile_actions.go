// Package usecase contains the side effects the child can request.
package usecase

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/config"
	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// ProfileActionsImpl implements domain.ProfileActions.
type ProfileActionsImpl struct {
	fsManager domain.FileSystemManager
	installer domain.UpdateInstaller
	logger    *zap.Logger
}

// NewProfileActions creates the profile action handler.
func NewProfileActions(fs domain.FileSystemManager, installer domain.UpdateInstaller, logger *zap.Logger) domain.ProfileActions {
	return &ProfileActionsImpl{
		fsManager: fs,
		installer: installer,
		logger:    logger,
	}
}

// DeleteProfile removes the profile directory recursively.
func (p *ProfileActionsImpl) DeleteProfile(profileDir string) error {
	p.log("Removing profile directory", zap.String("path", profileDir))

	if err := p.fsManager.Delete(profileDir); err != nil {
		return &domain.ProfileActionError{Op: "delete", Path: profileDir, Err: err}
	}
	return nil
}

// RenameProfile moves the profile directory aside as <profileDir>.<unix seconds>.
func (p *ProfileActionsImpl) RenameProfile(profileDir string, now time.Time) (string, error) {
	renamed := config.AppendToPath(profileDir, "."+strconv.FormatInt(now.Unix(), 10))
	p.log("Moving profile directory",
		zap.String("from", profileDir),
		zap.String("to", renamed))

	if err := p.fsManager.Rename(profileDir, renamed); err != nil {
		return "", &domain.ProfileActionError{Op: "rename", Path: profileDir, Err: err}
	}
	return renamed, nil
}

// InstallUpdate installs the predownloaded update for this profile.
func (p *ProfileActionsImpl) InstallUpdate(profileDir string) error {
	p.log("Installing update", zap.String("profile", profileDir))
	return p.installer.InstallLatestPredownloadedUpdate(profileDir)
}

func (p *ProfileActionsImpl) log(msg string, fields ...zap.Field) {
	if p.logger != nil {
		p.logger.Info(msg, fields...)
	}
}

// Ensure ProfileActionsImpl implements domain.ProfileActions.
var _ domain.ProfileActions = (*ProfileActionsImpl)(nil)
