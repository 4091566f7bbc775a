// Package main is the entry point of the Threema Desktop launcher.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threema-ch/desktop-launcher/internal/config"
	"github.com/threema-ch/desktop-launcher/internal/domain"
	"github.com/threema-ch/desktop-launcher/internal/infra"
	"github.com/threema-ch/desktop-launcher/internal/logging"
	"github.com/threema-ch/desktop-launcher/internal/supervisor"
	"github.com/threema-ch/desktop-launcher/internal/usecase"
)

var (
	// Build info (set via ldflags)
	BuildFlavor       = ""
	Version           = "0.0.0"
	Commit            = "dev"
	BuildTime         = "unknown"
	AllowPathOverride = "false"
)

// stopSignals end the supervision loop. SIGTERM keeps its default action and
// terminates the launcher right away.
var stopSignals = []os.Signal{os.Interrupt}

// exitError carries the process exit code out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(domain.ExitCodeLauncherError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ThreemaDesktopLauncher [args...]",
	Short: "Launches and supervises Threema Desktop",
	Long: `Starts the Threema Desktop binary next to this launcher and restarts it,
resets its profile or installs a predownloaded update when the application
asks for it through its exit code.`,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE:               runLauncher,
}

func init() {
	// The launcher is started from Explorer on Windows.
	cobra.MousetrapHelpText = ""
}

func runLauncher(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	stdoutTTY := infra.IsTerminal(os.Stdout)
	stderrTTY := infra.IsTerminal(os.Stderr)
	logger := createLogger(stdoutTTY, stderrTTY)
	defer func() { _ = logger.Sync() }()

	flavor, err := domain.ParseBuildFlavor(BuildFlavor)
	if err != nil {
		return fatal(logger, err)
	}

	allowOverride := AllowPathOverride == "true"
	opts := parseLauncherArgs(args, allowOverride)

	if stdoutTTY {
		fmt.Fprint(out, renderBanner(flavor, Version))
	}
	if opts.help {
		fmt.Fprint(out, renderUsage(cmd.CalledAs(), allowOverride))
		return nil
	}
	if opts.version {
		fmt.Fprint(out, renderVersion(flavor))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fatal(logger, err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fatal(logger, fmt.Errorf("%w: could not determine current executable: %w", domain.ErrConfiguration, err))
	}
	target := resolveTargetPath(exe, opts.targetOverride, runtime.GOOS)
	logger.Info("Launching Threema Desktop", zap.String("target", target))
	if err := checkTarget(target); err != nil {
		return fatal(logger, err)
	}

	baseDir, err := config.AppDataBaseDir(runtime.GOOS, cfg, os.UserHomeDir)
	if err != nil {
		return fatal(logger, err)
	}
	profileDir := config.ProfileDirectory(config.ProfileRootDir(runtime.GOOS, baseDir), flavor, opts.childArgs)
	logger.Info("Profile directory", zap.String("path", profileDir))

	progress := infra.NewProgress(os.Stdout, stdoutTTY)
	installer := infra.NewPlatformInstaller(runtime.GOOS, flavor, baseDir, logger, progress)
	actions := usecase.NewProfileActions(infra.NewFileSystemManager(), installer, logger)

	sup := supervisor.New(
		supervisor.Config{
			TargetPath:     target,
			Args:           opts.childArgs,
			ProfileDir:     profileDir,
			ErrorExitDelay: cfg.ErrorExitDelay,
		},
		infra.NewProcessLauncher(),
		actions,
		logger,
	)

	// Interrupts reach the child too; stop restarting once it is gone.
	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()

	if code := sup.Run(ctx); code != domain.ExitCodeExit {
		return &exitError{code: code}
	}
	return nil
}

// fatal reports a startup error. Nothing has been spawned yet.
func fatal(logger *zap.Logger, err error) error {
	logger.Error("launcher error", zap.Error(err))
	return &exitError{code: domain.ExitCodeLauncherError, err: err}
}

func createLogger(stdoutTTY, stderrTTY bool) *zap.Logger {
	opts := logging.Options{Color: stdoutTTY || stderrTTY}
	if stdoutTTY {
		opts.Info = os.Stdout
	}
	if stderrTTY {
		opts.Error = os.Stderr
	}
	return logging.New(opts)
}
