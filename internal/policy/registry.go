package policy

import (
	"fmt"
	"strings"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// Entry documents one exit code of the child contract.
type Entry struct {
	Code        int
	Action      domain.Action
	Description string
}

// Entries returns the exit code contract in ascending code order.
func Entries() []Entry {
	return []Entry{
		{domain.ExitCodeExit, domain.ActionExit, "exit normally"},
		{domain.ExitCodeRestart, domain.ActionRestart, "restart the application"},
		{domain.ExitCodeDeleteProfileAndRestart, domain.ActionDeleteProfile, "delete the profile directory and restart"},
		{domain.ExitCodeRenameProfileAndRestart, domain.ActionRenameProfile, "rename the profile directory and restart"},
		{domain.ExitCodeInstallUpdateAndRestart, domain.ActionInstallUpdate, "install the predownloaded update"},
	}
}

// Describe renders the contract for help output.
func Describe() string {
	var sb strings.Builder
	for _, e := range Entries() {
		fmt.Fprintf(&sb, "  %2d  %s\n", e.Code, e.Description)
	}
	fmt.Fprintf(&sb, "  %2d  launcher error\n", domain.ExitCodeLauncherError)
	sb.WriteString("  any other code is passed through unchanged\n")
	return sb.String()
}
