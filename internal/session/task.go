package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/steveyegge/pakeforge/internal/history"
)

// Action is the kind of work a task performs.
type Action string

const (
	ActionInstall Action = "install"
	ActionBuild   Action = "build"
)

// State tracks a task through its life.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Result is the outcome of a finished task.
type Result struct {
	TaskID   string
	Action   Action
	Success  bool
	ExitCode int
	Err      error
	// Record is the saved history entry for a successful build.
	Record   *history.Record
	Duration time.Duration
}

// Task is a running or finished action.
type Task struct {
	ID     string
	Action Action

	state  atomic.Int32
	done   chan struct{}
	once   sync.Once
	result Result
}

func newTask(action Action) *Task {
	t := &Task{
		ID:     uuid.NewString(),
		Action: action,
		done:   make(chan struct{}),
	}
	t.setState(StateRunning)
	return t
}

// Done is closed when the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes and returns its result.
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

// State reports the task's current state.
func (t *Task) State() State { return State(t.state.Load()) }

func (t *Task) setState(s State) { t.state.Store(int32(s)) }

func (t *Task) finish(r Result) {
	t.once.Do(func() {
		t.result = r
		t.setState(StateCompleted)
		close(t.done)
	})
}
