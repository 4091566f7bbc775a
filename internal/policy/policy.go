// Package policy maps the child's exit status to the supervisor action.
// The exit code is the only channel the child has to request a restart,
// a profile reset, or an update install.
package policy

import (
	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// ActionFor returns the action for an exit status. Unknown codes pass through.
func ActionFor(status domain.ExitStatus) domain.Action {
	if !status.HasCode {
		return domain.ActionMissingExitCode
	}

	switch status.Code {
	case domain.ExitCodeExit:
		return domain.ActionExit
	case domain.ExitCodeRestart:
		return domain.ActionRestart
	case domain.ExitCodeDeleteProfileAndRestart:
		return domain.ActionDeleteProfile
	case domain.ExitCodeRenameProfileAndRestart:
		return domain.ActionRenameProfile
	case domain.ExitCodeInstallUpdateAndRestart:
		return domain.ActionInstallUpdate
	default:
		return domain.ActionPassThrough
	}
}

// Relaunches reports whether the supervisor starts the child again after a
// successful action.
func Relaunches(action domain.Action) bool {
	switch action {
	case domain.ActionRestart, domain.ActionDeleteProfile, domain.ActionRenameProfile:
		return true
	case domain.ActionExit, domain.ActionInstallUpdate, domain.ActionPassThrough, domain.ActionMissingExitCode:
		return false
	default:
		return false
	}
}
