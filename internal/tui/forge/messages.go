package forge

import (
	"github.com/steveyegge/pakeforge/internal/discovery"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/session"
)

// Messages sent by the session sink from the worker goroutine.
type (
	clearLogMsg struct{}
	logLineMsg  string
	busyMsg     bool
	notifyMsg   session.Notification
	finishedMsg session.Result
)

// startedMsg reports that an action was accepted by the controller.
type startedMsg struct {
	task *session.Task
}

// actionErrMsg reports that an action was refused.
type actionErrMsg struct {
	err error
}

// historyMsg carries a freshly loaded ledger.
type historyMsg struct {
	records []history.Record
	err     error
}

// artifactsMsg carries the result of a builds scan.
type artifactsMsg []discovery.Artifact

// artifactsChangedMsg fires when a bundle directory changes on disk.
type artifactsChangedMsg struct{}

// openedMsg reports the result of opening an artifact.
type openedMsg struct {
	path string
	err  error
}
