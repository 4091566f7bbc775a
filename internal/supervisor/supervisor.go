// Package supervisor runs the target binary and acts on its exit codes.
package supervisor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/domain"
	"github.com/threema-ch/desktop-launcher/internal/policy"
)

// Config holds the per-run supervisor settings.
type Config struct {
	TargetPath     string        // Binary to launch
	Args           []string      // Forwarded unchanged on every launch
	ProfileDir     string        // Deleted or renamed on request
	ErrorExitDelay time.Duration // Pause before exiting on a reported error
}

// Supervisor launches the child until it exits with a terminal code.
type Supervisor struct {
	config   Config
	launcher domain.ProcessLauncher
	actions  domain.ProfileActions
	logger   *zap.Logger
	now      func() time.Time
	sleep    func(time.Duration)
}

// New creates a supervisor using the wall clock.
func New(config Config, launcher domain.ProcessLauncher, actions domain.ProfileActions, logger *zap.Logger) *Supervisor {
	return NewWithClock(config, launcher, actions, logger, time.Now, time.Sleep)
}

// NewWithClock creates a supervisor with an injectable clock (for testing).
func NewWithClock(
	config Config,
	launcher domain.ProcessLauncher,
	actions domain.ProfileActions,
	logger *zap.Logger,
	now func() time.Time,
	sleep func(time.Duration),
) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		config:   config,
		launcher: launcher,
		actions:  actions,
		logger:   logger,
		now:      now,
		sleep:    sleep,
	}
}

// Run supervises the child and returns the exit code for this process.
func (s *Supervisor) Run(ctx context.Context) int {
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Error("supervisor stopped", zap.Error(err))
			return domain.ExitCodeLauncherError
		}

		started := s.now().UTC()
		s.logger.Info("Current timestamp (UTC)", zap.Time("now", started))
		s.logger.Info("------")

		status, err := s.launcher.Launch(ctx, s.config.TargetPath, s.config.Args)
		if err != nil {
			// Spawn and wait failures exit immediately.
			s.logger.Error("failed to run target binary", zap.Error(err))
			return domain.ExitCodeLauncherError
		}
		s.logger.Info("Target binary exited", zap.Stringer("status", status))

		switch action := policy.ActionFor(status); action {
		case domain.ActionExit:
			return domain.ExitCodeExit

		case domain.ActionRestart:
			s.logger.Info("------")
			s.logger.Info("Restarting")

		case domain.ActionDeleteProfile:
			s.logger.Info("------")
			if err := s.actions.DeleteProfile(s.config.ProfileDir); err != nil {
				return s.fail("failed to remove profile directory", err, domain.ExitCodeLauncherError)
			}
			s.logger.Info("Restarting")

		case domain.ActionRenameProfile:
			s.logger.Info("------")
			if _, err := s.actions.RenameProfile(s.config.ProfileDir, s.now().UTC()); err != nil {
				return s.fail("failed to rename profile directory", err, domain.ExitCodeLauncherError)
			}
			s.logger.Info("Restarting")

		case domain.ActionInstallUpdate:
			s.logger.Info("------")
			if err := s.actions.InstallUpdate(s.config.ProfileDir); err != nil {
				return s.fail("failed to install update", err, domain.ExitCodeLauncherError)
			}
			s.logger.Info("Update installed, exiting")
			return domain.ExitCodeExit

		case domain.ActionMissingExitCode:
			return s.fail("missing exit code", nil, domain.ExitCodeLauncherError)

		case domain.ActionPassThrough:
			return s.fail("unexpected exit code", nil, status.Code, zap.Int("code", status.Code))

		default:
			return s.fail("unhandled action", nil, domain.ExitCodeLauncherError, zap.Stringer("action", action))
		}
	}
}

// fail reports an error and waits so it stays readable in the terminal.
func (s *Supervisor) fail(msg string, err error, code int, fields ...zap.Field) int {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Error(msg, fields...)
	s.sleep(s.config.ErrorExitDelay)
	return code
}
