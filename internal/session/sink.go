package session

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a user-facing message shown once per action.
type Notification struct {
	Level   Level
	Title   string
	Message string
}

// Sink receives session events. Implementations must be safe to call from
// the worker goroutine; UI sinks hand events to their own event loop.
type Sink interface {
	// Clear empties the log at the start of an action.
	Clear()
	// Line appends one log line.
	Line(text string)
	// Busy toggles whether actions may be triggered.
	Busy(busy bool)
	// Notify shows the outcome of an action.
	Notify(n Notification)
	// Finished delivers the final result after the busy flag is released.
	Finished(r Result)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Clear()              {}
func (NopSink) Line(string)         {}
func (NopSink) Busy(bool)           {}
func (NopSink) Notify(Notification) {}
func (NopSink) Finished(Result)     {}
