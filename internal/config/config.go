// Package config resolves runtime configuration and the profile directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// DefaultErrorExitDelay keeps an error visible in the terminal before exiting.
const DefaultErrorExitDelay = 2 * time.Second

const (
	keyXDGDataHome    = "xdg_data_home"
	keyAppData        = "appdata"
	keyErrorExitDelay = "error_exit_delay"
)

// Config holds values read from the environment at startup.
type Config struct {
	XDGDataHome    string
	AppData        string
	ErrorExitDelay time.Duration
}

// Load reads the launcher configuration from the environment.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault(keyErrorExitDelay, DefaultErrorExitDelay.String())

	bindings := map[string]string{
		keyXDGDataHome:    "XDG_DATA_HOME",
		keyAppData:        "APPDATA",
		keyErrorExitDelay: "THREEMA_LAUNCHER_ERROR_EXIT_DELAY",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	delay, err := time.ParseDuration(strings.TrimSpace(v.GetString(keyErrorExitDelay)))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid THREEMA_LAUNCHER_ERROR_EXIT_DELAY: %w", domain.ErrConfiguration, err)
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("%w: THREEMA_LAUNCHER_ERROR_EXIT_DELAY must not be negative", domain.ErrConfiguration)
	}

	return Config{
		XDGDataHome:    v.GetString(keyXDGDataHome),
		AppData:        v.GetString(keyAppData),
		ErrorExitDelay: delay,
	}, nil
}
