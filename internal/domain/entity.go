// Package domain contains core launcher entities and interfaces.
// This is the innermost layer - no external dependencies.
package domain

import (
	"fmt"
	"strings"
)

// BuildFlavor combines product line and environment. Fixed at build time.
type BuildFlavor string

const (
	FlavorConsumerSandbox BuildFlavor = "consumer-sandbox"
	FlavorConsumerLive    BuildFlavor = "consumer-live"
	FlavorWorkSandbox     BuildFlavor = "work-sandbox"
	FlavorWorkLive        BuildFlavor = "work-live"
	FlavorWorkOnPrem      BuildFlavor = "work-onprem"
)

// BuildFlavors lists every valid build flavor.
var BuildFlavors = []BuildFlavor{
	FlavorConsumerSandbox,
	FlavorConsumerLive,
	FlavorWorkSandbox,
	FlavorWorkLive,
	FlavorWorkOnPrem,
}

// ParseBuildFlavor validates a flavor baked in at build time.
func ParseBuildFlavor(s string) (BuildFlavor, error) {
	for _, f := range BuildFlavors {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: invalid build flavor %q (set BuildFlavor via -ldflags when building)", ErrConfiguration, s)
}

// IsWork reports whether the flavor belongs to the Threema Work product line.
func (f BuildFlavor) IsWork() bool {
	return strings.HasPrefix(string(f), "work-")
}

// AppName returns the bundle name used for packaging, e.g. "Threema Green Beta".
func (f BuildFlavor) AppName() string {
	name := "Threema"
	switch f {
	case FlavorConsumerLive:
	case FlavorConsumerSandbox:
		name += " Green"
	case FlavorWorkLive:
		name += " Work"
	case FlavorWorkSandbox:
		name += " Blue"
	case FlavorWorkOnPrem:
		name += " OnPrem"
	}
	return name + " Beta"
}

// ExitCode values exchanged with the child binary.
const (
	ExitCodeExit                    = 0
	ExitCodeRestart                 = 8
	ExitCodeDeleteProfileAndRestart = 9
	ExitCodeRenameProfileAndRestart = 10
	ExitCodeInstallUpdateAndRestart = 11
	ExitCodeLauncherError           = 20
)

// ExitStatus is the outcome of one child run. HasCode is false when the child
// was terminated by a signal and no exit code exists.
type ExitStatus struct {
	Code    int
	HasCode bool
}

// ExitedWith returns a status carrying an exit code.
func ExitedWith(code int) ExitStatus {
	return ExitStatus{Code: code, HasCode: true}
}

// MissingExitCode returns a status for a signalled child.
func MissingExitCode() ExitStatus {
	return ExitStatus{}
}

func (s ExitStatus) String() string {
	if !s.HasCode {
		return "no exit code"
	}
	return fmt.Sprintf("exit code %d", s.Code)
}

// Action is what the supervisor does after the child exited.
type Action int

const (
	ActionExit Action = iota
	ActionRestart
	ActionDeleteProfile
	ActionRenameProfile
	ActionInstallUpdate
	ActionPassThrough
	ActionMissingExitCode
)

func (a Action) String() string {
	switch a {
	case ActionExit:
		return "exit"
	case ActionRestart:
		return "restart"
	case ActionDeleteProfile:
		return "delete-profile"
	case ActionRenameProfile:
		return "rename-profile"
	case ActionInstallUpdate:
		return "install-update"
	case ActionPassThrough:
		return "pass-through"
	case ActionMissingExitCode:
		return "missing-exit-code"
	default:
		return "unknown"
	}
}

// UpdateArtifactPair is a predownloaded update payload and its checksum file.
type UpdateArtifactPair struct {
	Payload  string
	Checksum string
}
