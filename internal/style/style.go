// Package style provides consistent terminal styling for pakeforge command
// output.
package style

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Success is green for completed actions.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))

	// Warning is orange for non-fatal problems.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// Error is red for failures.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Info is blue for neutral highlights.
	Info = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	// Dim is gray for secondary detail.
	Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	// Bold is used for names and headings.
	Bold = lipgloss.NewStyle().Bold(true)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
	ArrowPrefix   = Info.Render("→")
)

// PrintWarning prints a warning line to stderr.
func PrintWarning(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningPrefix, fmt.Sprintf(format, args...))
}
