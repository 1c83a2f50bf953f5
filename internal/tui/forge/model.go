// Package forge implements the interactive terminal front end: a build form,
// a live log, the build history, and the list of packaged artifacts.
package forge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/steveyegge/pakeforge/internal/discovery"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/session"
)

// maxLogLines bounds the log buffer; older lines are dropped.
const maxLogLines = 5000

// Pane selects the main view.
type Pane int

const (
	PaneForm Pane = iota
	PaneHistory
	PaneBuilds
	paneCount
)

func (p Pane) String() string {
	switch p {
	case PaneHistory:
		return "History"
	case PaneBuilds:
		return "Builds"
	default:
		return "Build"
	}
}

// Actions is the part of the session controller the UI drives.
type Actions interface {
	InstallDependencies() (*session.Task, error)
	BuildApp(req pake.BuildRequest) (*session.Task, error)
}

// Options configures a Model.
type Options struct {
	Actions    Actions
	Store      history.Store
	ProjectDir string
	Patterns   []discovery.Pattern
	// Defaults seeds the form's dimensions and toggles.
	Defaults pake.BuildRequest
	// Open opens a file or folder with the desktop's default handler.
	Open func(path string) error
	// Changes signals when artifacts may have changed. May be nil.
	Changes <-chan struct{}
}

// Model is the bubbletea model for the forge TUI.
type Model struct {
	// Dimensions
	width  int
	height int

	opts Options
	pane Pane
	form form

	// Log
	lines []string
	log   viewport.Model

	// Session state, mirrored from sink messages
	busy    bool
	taskID  string
	notice  *session.Notification
	status  string
	spinner spinner.Model

	// History
	records      []history.Record
	historyTable table.Model

	// Builds
	artifacts   []discovery.Artifact
	buildsTable table.Model

	keys     KeyMap
	help     help.Model
	showHelp bool
}

// New creates a forge model.
func New(opts Options) *Model {
	if opts.Patterns == nil {
		opts.Patterns = discovery.DefaultPatterns
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	h := help.New()
	h.ShowAll = false

	return &Model{
		opts:         opts,
		form:         newForm(opts.Defaults),
		log:          viewport.New(0, 0),
		spinner:      sp,
		historyTable: newTable(historyColumns(80)),
		buildsTable:  newTable(buildsColumns(80)),
		keys:         DefaultKeyMap(),
		help:         h,
	}
}

func newTable(cols []table.Column) table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(colorAccent)
	s.Selected = s.Selected.Foreground(colorWhite).Background(colorSelectedBg)
	t.SetStyles(s)
	return t
}

func historyColumns(width int) []table.Column {
	rest := max(width-4-20-19-8, 20)
	return []table.Column{
		{Title: "Name", Width: 20},
		{Title: "URL", Width: rest * 2 / 3},
		{Title: "Identifier", Width: rest / 3},
		{Title: "Date", Width: 19},
	}
}

func buildsColumns(width int) []table.Column {
	rest := max(width-4-20-10-16-8, 20)
	return []table.Column{
		{Title: "File", Width: rest},
		{Title: "Kind", Width: 20},
		{Title: "Size", Width: 10},
		{Title: "Modified", Width: 16},
	}
}

// Init loads history and artifacts and starts watching for new builds.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Pake Forge"),
		m.loadHistory(),
		m.scanArtifacts(),
		m.waitForChanges(),
		textinput.Blink,
	)
}

// Pane returns the active pane.
func (m *Model) Pane() Pane { return m.pane }

// Busy reports whether an install or build is running.
func (m *Model) Busy() bool { return m.busy }

// LogLines returns the current log contents.
func (m *Model) LogLines() []string { return m.lines }

// Notice returns the notification being shown, if any.
func (m *Model) Notice() *session.Notification { return m.notice }

func (m *Model) loadHistory() tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historyMsg{records: store.Load()}
	}
}

func (m *Model) scanArtifacts() tea.Cmd {
	dir, patterns := m.opts.ProjectDir, m.opts.Patterns
	return func() tea.Msg {
		return artifactsMsg(discovery.ScanArtifacts(dir, patterns))
	}
}

// waitForChanges blocks on the watcher channel and re-arms after each signal.
func (m *Model) waitForChanges() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return artifactsChangedMsg{}
	}
}

func (m *Model) startBuild() tea.Cmd {
	if m.busy {
		m.status = "An action is already running"
		return nil
	}
	req, err := m.form.request()
	if err != nil {
		m.showError(err)
		return nil
	}
	m.busy = true
	actions := m.opts.Actions
	return func() tea.Msg {
		task, err := actions.BuildApp(req)
		if err != nil {
			return actionErrMsg{err: err}
		}
		return startedMsg{task: task}
	}
}

func (m *Model) startInstall() tea.Cmd {
	if m.busy {
		m.status = "An action is already running"
		return nil
	}
	m.busy = true
	actions := m.opts.Actions
	return func() tea.Msg {
		task, err := actions.InstallDependencies()
		if err != nil {
			return actionErrMsg{err: err}
		}
		return startedMsg{task: task}
	}
}

func (m *Model) removeRecord(r history.Record) tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		if _, err := store.Remove(r.Name, r.URL); err != nil {
			return historyMsg{records: store.Load(), err: err}
		}
		return historyMsg{records: store.Load()}
	}
}

func (m *Model) open(path string) tea.Cmd {
	opener := m.opts.Open
	if opener == nil {
		return nil
	}
	return func() tea.Msg {
		return openedMsg{path: path, err: opener(path)}
	}
}

func (m *Model) showError(err error) {
	msg := err.Error()
	var verr *pake.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Message
		if verr.Field == "width" || verr.Field == "height" {
			msg = strings.ToUpper(verr.Field[:1]) + verr.Field[1:] + ": " + verr.Message
		}
	}
	m.notice = &session.Notification{Level: session.LevelError, Title: "Error", Message: msg}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case clearLogMsg:
		m.lines = nil
		m.refreshLog()

	case logLineMsg:
		m.appendLine(string(msg))

	case busyMsg:
		m.busy = bool(msg)
		if m.busy {
			m.status = ""
			cmds = append(cmds, m.spinner.Tick)
		}

	case notifyMsg:
		n := session.Notification(msg)
		m.notice = &n

	case finishedMsg:
		res := session.Result(msg)
		m.status = fmt.Sprintf("%s finished in %s", res.Action, res.Duration.Round(10*time.Millisecond))
		if res.Action == session.ActionBuild {
			cmds = append(cmds, m.loadHistory(), m.scanArtifacts())
		}

	case startedMsg:
		m.taskID = msg.task.ID

	case actionErrMsg:
		if errors.Is(msg.err, session.ErrBusy) {
			m.status = "An action is already running"
		} else {
			m.busy = false
			m.showError(msg.err)
		}

	case historyMsg:
		m.records = msg.records
		m.historyTable.SetRows(historyRows(m.records))
		if msg.err != nil {
			m.status = "History: " + msg.err.Error()
		}

	case artifactsMsg:
		m.artifacts = msg
		m.buildsTable.SetRows(buildRows(m.artifacts))

	case artifactsChangedMsg:
		cmds = append(cmds, m.scanArtifacts(), m.waitForChanges())

	case openedMsg:
		if msg.err != nil {
			m.showError(fmt.Errorf("opening %s: %w", filepath.Base(msg.path), msg.err))
		} else {
			m.status = "Opened " + msg.path
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.pane == PaneForm {
			cmds = append(cmds, m.form.update(msg))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}

	// A notification is modal until dismissed.
	if m.notice != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return nil
	case key.Matches(msg, m.keys.FormPane):
		return m.setPane(PaneForm)
	case key.Matches(msg, m.keys.HistoryPane):
		return m.setPane(PaneHistory)
	case key.Matches(msg, m.keys.BuildsPane):
		return m.setPane(PaneBuilds)
	case key.Matches(msg, m.keys.NextPane):
		return m.setPane((m.pane + 1) % paneCount)
	case key.Matches(msg, m.keys.Build):
		return m.startBuild()
	case key.Matches(msg, m.keys.Install):
		return m.startInstall()
	}

	switch m.pane {
	case PaneHistory:
		return m.handleHistoryKey(msg)
	case PaneBuilds:
		return m.handleBuildsKey(msg)
	default:
		return m.handleFormKey(msg)
	}
}

func (m *Model) setPane(p Pane) tea.Cmd {
	m.pane = p
	if p == PaneForm {
		return m.form.setFocus(m.form.focus)
	}
	for i := range m.form.inputs {
		m.form.inputs[i].Blur()
	}
	return nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m.form.next()
	case key.Matches(msg, m.keys.PrevField):
		return m.form.prev()
	case key.Matches(msg, m.keys.LogUp), key.Matches(msg, m.keys.LogDown):
		var cmd tea.Cmd
		m.log, cmd = m.log.Update(msg)
		return cmd
	case key.Matches(msg, m.keys.Submit):
		switch m.form.focus {
		case buttonBuild:
			return m.startBuild()
		case buttonInstall:
			return m.startInstall()
		case fieldFullscreen, fieldHideTitleBar:
			m.form.toggle()
			return nil
		default:
			return m.form.next()
		}
	case key.Matches(msg, m.keys.Toggle) && !m.form.onTextField():
		m.form.toggle()
		return nil
	}
	return m.form.update(msg)
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Load):
		if r, ok := m.selectedRecord(); ok {
			m.form.load(r)
			m.status = fmt.Sprintf("Loaded %s from history", r.Name)
			return m.setPane(PaneForm)
		}
		return nil
	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.selectedRecord(); ok {
			return m.removeRecord(r)
		}
		return nil
	case key.Matches(msg, m.keys.Rescan):
		return m.loadHistory()
	}
	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	return cmd
}

func (m *Model) handleBuildsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Load):
		if a, ok := m.selectedArtifact(); ok {
			return m.open(a.Path)
		}
		return nil
	case key.Matches(msg, m.keys.Reveal):
		if a, ok := m.selectedArtifact(); ok {
			return m.open(filepath.Dir(a.Path))
		}
		return nil
	case key.Matches(msg, m.keys.Rescan):
		return m.scanArtifacts()
	}
	var cmd tea.Cmd
	m.buildsTable, cmd = m.buildsTable.Update(msg)
	return cmd
}

func (m *Model) selectedRecord() (history.Record, bool) {
	i := m.historyTable.Cursor()
	if i < 0 || i >= len(m.records) {
		return history.Record{}, false
	}
	return m.records[i], true
}

func (m *Model) selectedArtifact() (discovery.Artifact, bool) {
	i := m.buildsTable.Cursor()
	if i < 0 || i >= len(m.artifacts) {
		return discovery.Artifact{}, false
	}
	return m.artifacts[i], true
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if over := len(m.lines) - maxLogLines; over > 0 {
		m.lines = append([]string(nil), m.lines[over:]...)
	}
	m.refreshLog()
}

// refreshLog re-renders the log, following the tail unless the user has
// scrolled up.
func (m *Model) refreshLog() {
	follow := m.log.AtBottom()
	m.log.SetContent(strings.Join(m.lines, "\n"))
	if follow {
		m.log.GotoBottom()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	// Header, form rows, buttons, status and help take the rest.
	logHeight := max(height-formHeight-8, 3)
	m.log.Width = max(width-2, 10)
	m.log.Height = logHeight
	m.refreshLog()

	tableHeight := max(height-6, 3)
	m.historyTable.SetColumns(historyColumns(width))
	m.historyTable.SetHeight(tableHeight)
	m.buildsTable.SetColumns(buildsColumns(width))
	m.buildsTable.SetHeight(tableHeight)

	for i := range m.form.inputs {
		if i != fieldWidth && i != fieldHeight {
			m.form.inputs[i].Width = max(width-20, 20)
		}
	}
}

func historyRows(records []history.Record) []table.Row {
	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row{r.Name, r.URL, r.Identifier, r.Date}
	}
	return rows
}

func buildRows(artifacts []discovery.Artifact) []table.Row {
	rows := make([]table.Row, len(artifacts))
	for i, a := range artifacts {
		rows[i] = table.Row{a.Name(), a.Kind, humanize.Bytes(uint64(a.Size)), humanize.Time(a.ModTime)}
	}
	return rows
}
