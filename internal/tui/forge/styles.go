package forge

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorAccent  = lipgloss.Color("39")  // blue
	colorSuccess = lipgloss.Color("76")  // green
	colorWarning = lipgloss.Color("214") // orange
	colorError   = lipgloss.Color("196") // bright red
	colorMuted   = lipgloss.Color("242") // gray
	colorWhite   = lipgloss.Color("15")

	colorSelectedBg = lipgloss.Color("236")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorSelectedBg).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(12)

	focusedLabelStyle = labelStyle.
				Foreground(colorAccent).
				Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	focusedButtonStyle = buttonStyle.
				Background(colorAccent).
				Bold(true)

	disabledButtonStyle = buttonStyle.
				Foreground(colorMuted).
				Background(lipgloss.Color("235"))

	logBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	busyStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			Padding(1, 3)

	modalSuccessStyle = modalStyle.BorderForeground(colorSuccess)
	modalErrorStyle   = modalStyle.BorderForeground(colorError)
	modalInfoStyle    = modalStyle.BorderForeground(colorAccent)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			Padding(1, 2)
)
