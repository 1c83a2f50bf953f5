package forge

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/steveyegge/pakeforge/internal/session"
)

// formHeight is the number of lines the form occupies above the log.
const formHeight = 11

// View renders the model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.notice != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderNotice())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.pane {
	case PaneHistory:
		b.WriteString(m.renderHistory())
	case PaneBuilds:
		b.WriteString(m.renderBuilds())
	default:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(logBoxStyle.Width(m.log.Width).Render(m.log.View()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, paneCount)
	for p := PaneForm; p < paneCount; p++ {
		label := fmt.Sprintf("F%d %s", int(p)+1, p)
		if p == m.pane {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("Pake Forge")+"  ", strings.Join(tabs, " "))
}

func (m *Model) renderForm() string {
	f := &m.form
	var b strings.Builder

	for i := 0; i < textFieldCount; i++ {
		b.WriteString(renderLabel(fieldLabels[i], f.focus == i))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString(renderLabel("", false))
	b.WriteString(hintStyle.Render("Icon accepts a local path or URL; width/height blank to use builder defaults"))
	b.WriteString("\n")

	b.WriteString(renderLabel("", false))
	b.WriteString(renderCheckbox("Fullscreen", f.fullscreen, f.focus == fieldFullscreen))
	b.WriteString("\n")
	b.WriteString(renderLabel("", false))
	b.WriteString(renderCheckbox("Hide Title Bar", f.hideTitleBar, f.focus == fieldHideTitleBar))
	b.WriteString("\n\n")

	b.WriteString(renderLabel("", false))
	b.WriteString(m.renderButton("Build App", buttonBuild))
	b.WriteString("  ")
	b.WriteString(m.renderButton("Install Dependencies", buttonInstall))
	return b.String()
}

func renderLabel(text string, focused bool) string {
	if focused {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func renderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	s := box + " " + label
	if focused {
		return focusedLabelStyle.UnsetWidth().Render(s)
	}
	return s
}

// renderButton draws a form button; both are disabled while an action runs.
func (m *Model) renderButton(label string, pos int) string {
	switch {
	case m.busy:
		return disabledButtonStyle.Render(label)
	case m.form.focus == pos:
		return focusedButtonStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

func (m *Model) renderHistory() string {
	if len(m.records) == 0 {
		return emptyStyle.Render("No builds yet. Successful builds are listed here.")
	}
	return m.historyTable.View()
}

func (m *Model) renderBuilds() string {
	if len(m.artifacts) == 0 {
		return emptyStyle.Render("No packaged apps found under " + m.opts.ProjectDir)
	}
	return m.buildsTable.View()
}

func (m *Model) renderStatus() string {
	if m.busy {
		return m.spinner.View() + " " + busyStyle.Render("Working...") + statusStyle.Render(" (buttons disabled)")
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return statusStyle.Render("Ready")
}

func (m *Model) renderNotice() string {
	n := m.notice
	style := modalInfoStyle
	switch n.Level {
	case session.LevelSuccess:
		style = modalSuccessStyle
	case session.LevelError, session.LevelWarning:
		style = modalErrorStyle
	}
	body := titleStyle.Render(n.Title) + "\n\n" + n.Message + "\n\n" + hintStyle.Render("esc to dismiss")
	return style.Width(min(max(len(n.Message)+8, 30), max(m.width-4, 30))).Render(body)
}
