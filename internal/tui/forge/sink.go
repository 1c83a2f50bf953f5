package forge

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/steveyegge/pakeforge/internal/session"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Sink forwards session events into the bubbletea event loop. All UI state
// changes happen in Model.Update.
type Sink struct {
	to Sender
}

var _ session.Sink = (*Sink)(nil)

// NewSink returns a sink that sends to p.
func NewSink(p Sender) *Sink {
	return &Sink{to: p}
}

func (s *Sink) Clear()                        { s.to.Send(clearLogMsg{}) }
func (s *Sink) Line(text string)              { s.to.Send(logLineMsg(text)) }
func (s *Sink) Busy(busy bool)                { s.to.Send(busyMsg(busy)) }
func (s *Sink) Notify(n session.Notification) { s.to.Send(notifyMsg(n)) }
func (s *Sink) Finished(r session.Result)     { s.to.Send(finishedMsg(r)) }
