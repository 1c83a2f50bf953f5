// Package session runs install and build actions one at a time and reports
// their progress to a Sink.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/logging"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/runner"
)

// Options configures a Controller.
type Options struct {
	Runner    runner.Runner
	Store     history.Store
	Toolchain pake.Toolchain
	// DepsMarker is the path whose absence means dependencies are missing.
	DepsMarker string
	// EntryScript is the builder CLI path checked before an app build.
	EntryScript  string
	Precondition config.Precondition
	Log          logrus.FieldLogger
	Sink         Sink
	// Now defaults to time.Now.
	Now func() time.Time
	// Context is cancelled when the application shuts down; running
	// processes are killed. Defaults to context.Background.
	Context context.Context
}

// Controller owns the busy flag shared by install and build.
type Controller struct {
	runner       runner.Runner
	store        history.Store
	tools        pake.Toolchain
	depsMarker   string
	entryScript  string
	precondition config.Precondition
	log          logrus.FieldLogger
	now          func() time.Time
	ctx          context.Context

	busy    atomic.Bool
	state   atomic.Int32
	current atomic.Pointer[Task]

	sinkMu sync.RWMutex
	sink   Sink
}

// New returns a controller. Runner and Store are required.
func New(opts Options) *Controller {
	c := &Controller{
		runner:       opts.Runner,
		store:        opts.Store,
		tools:        opts.Toolchain,
		depsMarker:   opts.DepsMarker,
		entryScript:  opts.EntryScript,
		precondition: opts.Precondition,
		log:          opts.Log,
		now:          opts.Now,
		ctx:          opts.Context,
		sink:         opts.Sink,
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.sink == nil {
		c.sink = NopSink{}
	}
	if c.precondition == "" {
		c.precondition = config.PreconditionStrict
	}
	return c
}

// NewFromConfig wires a controller for the project described by cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config, r runner.Runner, store history.Store, log logrus.FieldLogger, sink Sink) *Controller {
	return New(Options{
		Runner: r,
		Store:  store,
		Toolchain: pake.Toolchain{
			PackageManager: cfg.PackageManager,
			Runtime:        cfg.Runtime,
			EntryScript:    cfg.EntryScript,
			BuildScript:    cfg.BuildScript,
		},
		DepsMarker:   cfg.DepsMarkerPath(),
		EntryScript:  cfg.EntryScriptPath(),
		Precondition: cfg.Precondition,
		Log:          log,
		Sink:         sink,
		Context:      ctx,
	})
}

// SetSink replaces the event sink. It takes effect for the next action.
func (c *Controller) SetSink(s Sink) {
	if s == nil {
		s = NopSink{}
	}
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	c.sink = s
}

func (c *Controller) currentSink() Sink {
	c.sinkMu.RLock()
	defer c.sinkMu.RUnlock()
	return c.sink
}

// Busy reports whether an action is running.
func (c *Controller) Busy() bool { return c.busy.Load() }

// Wait blocks until the most recently started action has finished. It
// returns at once when nothing was started.
func (c *Controller) Wait() {
	if t := c.current.Load(); t != nil {
		<-t.Done()
	}
}

// State reports the controller's state: Idle, Validating or Running.
func (c *Controller) State() State { return State(c.state.Load()) }

// InstallDependencies runs `<pm> install` in the background.
func (c *Controller) InstallDependencies() (*Task, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return c.start(ActionInstall, c.runInstall), nil
}

// BuildApp validates req and builds it in the background. Invalid requests
// are rejected before the busy flag is touched or anything runs.
func (c *Controller) BuildApp(req pake.BuildRequest) (*Task, error) {
	if c.state.CompareAndSwap(int32(StateIdle), int32(StateValidating)) {
		defer c.state.CompareAndSwap(int32(StateValidating), int32(StateIdle))
	}
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return c.start(ActionBuild, func(s Sink, log logrus.FieldLogger) Result {
		return c.runBuild(s, log, req)
	}), nil
}

type work func(s Sink, log logrus.FieldLogger) Result

// start runs w on its own goroutine. The caller holds the busy flag; it is
// released in the deferred cleanup whatever w does.
func (c *Controller) start(action Action, w work) *Task {
	t := newTask(action)
	c.current.Store(t)
	s := c.currentSink()
	log := c.log.WithFields(logrus.Fields{"session": t.ID, "action": string(action)})

	c.state.Store(int32(StateRunning))
	s.Clear()
	s.Busy(true)

	go func() {
		began := c.now()
		var res Result
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("internal error: %v", r)
				log.WithField("panic", r).Error("action panicked")
				res = Result{Success: false, ExitCode: -1, Err: err}
			}
			res.TaskID = t.ID
			res.Action = action
			res.Duration = c.now().Sub(began)

			c.notify(s, log, res)

			c.state.Store(int32(StateIdle))
			c.busy.Store(false)
			s.Busy(false)
			s.Finished(res)
			t.finish(res)
		}()
		res = w(s, log)
	}()
	return t
}

func (c *Controller) runInstall(s Sink, log logrus.FieldLogger) Result {
	c.line(s, log, fmt.Sprintf("Installing dependencies with %s...", c.tools.PackageManager))

	out, err := c.run(s, log, c.tools.InstallCommand())
	if err != nil {
		return failed(err)
	}
	if !out.Success() {
		return Result{ExitCode: out.ExitCode, Err: &ProcessFailure{Step: "Installation", ExitCode: out.ExitCode}}
	}
	return Result{Success: true}
}

func (c *Controller) runBuild(s Sink, log logrus.FieldLogger, req pake.BuildRequest) Result {
	if !exists(c.depsMarker) {
		if c.precondition == config.PreconditionStrict {
			err := &PreconditionError{Path: c.depsMarker}
			return Result{ExitCode: -1, Err: err}
		}
		c.line(s, log, fmt.Sprintf("Warning: %s not found; building anyway.", c.depsMarker))
	}

	if !exists(c.entryScript) {
		c.line(s, log, fmt.Sprintf("%s not found. Running '%s run %s' first...",
			c.tools.EntryScript, c.tools.PackageManager, c.tools.BuildScript))
		out, err := c.run(s, log, c.tools.CLIBuildCommand())
		if err != nil {
			return failed(err)
		}
		if !out.Success() {
			c.line(s, log, "Failed to build CLI.")
			return Result{ExitCode: out.ExitCode, Err: &ProcessFailure{Step: "CLI build", ExitCode: out.ExitCode}}
		}
	}

	argv := c.tools.AppBuildCommand(req)
	c.line(s, log, "Running command: "+pake.Display(argv))

	out, err := c.run(s, log, argv)
	if err != nil {
		return failed(err)
	}
	if !out.Success() {
		return Result{ExitCode: out.ExitCode, Err: &ProcessFailure{Step: "Build", ExitCode: out.ExitCode}}
	}

	rec := history.NewRecord(req.Name, req.URL, req.Identifier, c.now())
	res := Result{Success: true, Record: &rec}
	if err := c.store.Save(rec); err != nil {
		perr := &PersistenceError{Op: "save", Err: err}
		log.WithError(perr).Error("saving build record")
		s.Line("Warning: " + perr.Error())
		res.Record = nil
	}
	return res
}

// run executes argv, relaying every line to the sink and the log file.
func (c *Controller) run(s Sink, log logrus.FieldLogger, argv []string) (runner.Outcome, error) {
	out, err := c.runner.Run(c.ctx, argv, func(line string) {
		log.Debug(line)
		s.Line(line)
	})
	if err != nil {
		return out, err
	}
	log.WithField("exit_code", out.ExitCode).Infof("%s exited", pake.Display(argv))
	return out, nil
}

func (c *Controller) line(s Sink, log logrus.FieldLogger, text string) {
	log.Info(text)
	s.Line(text)
}

// notify emits the single outcome notification and final log line.
func (c *Controller) notify(s Sink, log logrus.FieldLogger, res Result) {
	if res.Success {
		msg := "Dependencies installed successfully!"
		if res.Action == ActionBuild {
			msg = "Build completed successfully!"
		}
		c.line(s, log, msg)
		s.Notify(Notification{Level: LevelSuccess, Title: "Success", Message: msg})
		return
	}

	msg := describe(res)
	c.line(s, log, msg)
	s.Notify(Notification{Level: LevelError, Title: "Error", Message: msg})
}

func describe(res Result) string {
	var (
		launchErr *runner.LaunchError
		procErr   *ProcessFailure
		preErr    *PreconditionError
	)
	switch {
	case errors.As(res.Err, &preErr):
		return "Error: " + preErr.Error()
	case errors.As(res.Err, &procErr):
		return procErr.Error()
	case errors.As(res.Err, &launchErr):
		return fmt.Sprintf("An error occurred: could not start %s: %v", launchErr.Command, launchErr.Err)
	case res.Err != nil:
		return "An error occurred: " + res.Err.Error()
	default:
		return "An error occurred"
	}
}

func failed(err error) Result {
	return Result{ExitCode: -1, Err: err}
}

func exists(path string) bool {
	if path == "" {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}
