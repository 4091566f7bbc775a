package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/threema-ch/desktop-launcher/internal/domain"
	"github.com/threema-ch/desktop-launcher/internal/policy"
)

var bannerLines = []string{
	" _____ _                         ",
	"|_   _| |_ ___ ___ ___ _____ ___ ",
	"  | | |   |  _| -_| -_|     | .'|",
	"  |_| |_|_|_| |___|___|_|_|_|__,|",
}

// renderBanner returns the logo in the product color followed by the
// launcher version line.
func renderBanner(flavor domain.BuildFlavor, version string) string {
	color := lipgloss.Color("42") // green
	if flavor.IsWork() {
		color = lipgloss.Color("39") // blue
	}
	logoStyle := lipgloss.NewStyle().Foreground(color)

	var sb strings.Builder
	for _, line := range bannerLines {
		sb.WriteString(logoStyle.Render(line))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Desktop launcher v%s (%s)\n", version, flavor))
	return sb.String()
}

// renderUsage returns the usage line and the exit code contract.
func renderUsage(launcherPath string, allowPathOverride bool) string {
	usageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196"))

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214"))

	flags := "[--launcher-help] [--launcher-version]"
	if allowPathOverride {
		flags += " [" + targetBinFlag + " <path>]"
	}

	var sb strings.Builder
	sb.WriteString(usageStyle.Render(fmt.Sprintf("Usage: %s %s [args...]", launcherPath, flags)))
	sb.WriteString("\n\n")
	sb.WriteString("Arguments not listed above are passed to the application unchanged.\n")
	sb.WriteString("--threema-profile=<name> also selects the profile directory.\n\n")
	sb.WriteString(labelStyle.Render("Application exit codes:"))
	sb.WriteString("\n")
	sb.WriteString(policy.Describe())
	return sb.String()
}

func renderVersion(flavor domain.BuildFlavor) string {
	return fmt.Sprintf("Desktop launcher v%s (%s, commit: %s, built: %s)\n", Version, flavor, Commit, BuildTime)
}
