package forge

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/pake"
)

// Focus positions in the form, in tab order.
const (
	fieldURL = iota
	fieldName
	fieldIcon
	fieldIdentifier
	fieldWidth
	fieldHeight
	fieldFullscreen
	fieldHideTitleBar
	buttonBuild
	buttonInstall
	focusCount
)

const textFieldCount = fieldHeight + 1

var fieldLabels = [textFieldCount]string{
	fieldURL:        "URL",
	fieldName:       "App Name",
	fieldIcon:       "Icon",
	fieldIdentifier: "Identifier",
	fieldWidth:      "Width",
	fieldHeight:     "Height",
}

// form holds the build inputs.
type form struct {
	inputs       [textFieldCount]textinput.Model
	fullscreen   bool
	hideTitleBar bool
	focus        int
	defaults     pake.BuildRequest
}

func newForm(defaults pake.BuildRequest) form {
	f := form{defaults: defaults}
	placeholders := [textFieldCount]string{
		fieldURL:        "https://weread.qq.com",
		fieldName:       "WeRead",
		fieldIcon:       "path or URL (" + strings.Join(pake.IconExtensions, " ") + ")",
		fieldIdentifier: "com.example.app (optional)",
		fieldWidth:      strconv.Itoa(pake.DefaultWidth),
		fieldHeight:     strconv.Itoa(pake.DefaultHeight),
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 2048
		ti.Width = 50
		f.inputs[i] = ti
	}
	f.inputs[fieldWidth].CharLimit = 5
	f.inputs[fieldHeight].CharLimit = 5
	f.inputs[fieldWidth].Width = 8
	f.inputs[fieldHeight].Width = 8
	f.resetOptions()
	f.setFocus(fieldURL)
	return f
}

// resetOptions restores the fields a history record does not carry.
func (f *form) resetOptions() {
	f.inputs[fieldIcon].SetValue("")
	f.inputs[fieldWidth].SetValue(dimensionText(f.defaults.Width))
	f.inputs[fieldHeight].SetValue(dimensionText(f.defaults.Height))
	f.fullscreen = f.defaults.Fullscreen
	f.hideTitleBar = f.defaults.HideTitleBar
}

func dimensionText(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (f *form) setFocus(i int) tea.Cmd {
	f.focus = (i + focusCount) % focusCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *form) onTextField() bool { return f.focus < textFieldCount }

// toggle flips the focused checkbox. It reports whether one was focused.
func (f *form) toggle() bool {
	switch f.focus {
	case fieldFullscreen:
		f.fullscreen = !f.fullscreen
	case fieldHideTitleBar:
		f.hideTitleBar = !f.hideTitleBar
	default:
		return false
	}
	return true
}

// update forwards a message to the focused text input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if !f.onTextField() {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// request converts the form into a build request. Dimension text that is
// not a positive integer is a validation error.
func (f *form) request() (pake.BuildRequest, error) {
	width, err := pake.ParseDimension("width", f.inputs[fieldWidth].Value())
	if err != nil {
		return pake.BuildRequest{}, err
	}
	height, err := pake.ParseDimension("height", f.inputs[fieldHeight].Value())
	if err != nil {
		return pake.BuildRequest{}, err
	}
	req := pake.BuildRequest{
		URL:          f.inputs[fieldURL].Value(),
		Name:         f.inputs[fieldName].Value(),
		Icon:         f.inputs[fieldIcon].Value(),
		Identifier:   f.inputs[fieldIdentifier].Value(),
		Width:        width,
		Height:       height,
		Fullscreen:   f.fullscreen,
		HideTitleBar: f.hideTitleBar,
	}.Normalized()
	return req, req.Validate()
}

// load fills the form from a history record. The record has no icon,
// dimensions or window flags, so those go back to their defaults.
func (f *form) load(r history.Record) {
	f.resetOptions()
	f.inputs[fieldURL].SetValue(r.URL)
	f.inputs[fieldName].SetValue(r.Name)
	id := r.Identifier
	if id == history.DefaultIdentifier {
		id = ""
	}
	f.inputs[fieldIdentifier].SetValue(id)
}
