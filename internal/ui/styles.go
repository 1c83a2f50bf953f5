// Package ui provides terminal detection and the semantic styles shared by
// report-style command output (doctor, builds).
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Icons used by report output.
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✖"
	TreeLast = "└─ "
)

var (
	PassStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7CD67C"})
	WarnStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#F2B45C"})
	FailStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F07178"})
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"})
	CategoryStyle = lipgloss.NewStyle().Bold(true)
)

func RenderPass(s string) string  { return PassStyle.Render(s) }
func RenderWarn(s string) string  { return WarnStyle.Render(s) }
func RenderFail(s string) string  { return FailStyle.Render(s) }
func RenderMuted(s string) string { return MutedStyle.Render(s) }

func RenderPassIcon() string { return PassStyle.Render(IconPass) }
func RenderWarnIcon() string { return WarnStyle.Render(IconWarn) }
func RenderFailIcon() string { return FailStyle.Render(IconFail) }

// RenderCategory renders a report section header.
func RenderCategory(name string) string {
	return CategoryStyle.Render(strings.ToUpper(name))
}

// RenderSeparator renders a horizontal rule for report footers.
func RenderSeparator() string {
	return MutedStyle.Render(strings.Repeat("─", 42))
}
