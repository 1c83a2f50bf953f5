package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/runner"
	"github.com/steveyegge/pakeforge/internal/session"
	"github.com/steveyegge/pakeforge/internal/style"
)

// consoleSink prints session events for the headless commands. Process
// output and outcome lines go to out; failure notifications are repeated on
// errOut so they survive a redirected stdout.
type consoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func newConsoleSink(out, errOut io.Writer) *consoleSink {
	return &consoleSink{out: out, errOut: errOut}
}

func (s *consoleSink) Clear()                  {}
func (s *consoleSink) Busy(bool)               {}
func (s *consoleSink) Finished(session.Result) {}

func (s *consoleSink) Line(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, text)
}

func (s *consoleSink) Notify(n session.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch n.Level {
	case session.LevelError:
		fmt.Fprintf(s.errOut, "%s %s\n", style.ErrorPrefix, n.Message)
	case session.LevelWarning:
		fmt.Fprintf(s.errOut, "%s %s\n", style.WarningPrefix, n.Message)
	}
}

// runHeadless starts one action on a fresh controller and blocks until it
// finishes. Interrupts cancel the context, which kills the child process.
func runHeadless(cmd *cobra.Command, p *project, start func(*session.Controller) (*session.Task, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := newConsoleSink(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctrl := session.NewFromConfig(ctx, p.cfg, p.newRunner(), p.store, p.log, sink)

	task, err := start(ctrl)
	if err != nil {
		return codedError(err)
	}
	res := task.Wait()
	if !res.Success {
		// The sink already reported the failure.
		cmd.SilenceErrors = true
		if ctx.Err() != nil {
			return exitcode.Wrap(exitcode.ErrProcess, "interrupted", context.Cause(ctx))
		}
		return codedError(res.Err)
	}
	if res.Action == session.ActionBuild && res.Record == nil {
		return exitcode.New(exitcode.ErrPersistence, "build succeeded but was not recorded in history")
	}
	return nil
}

// codedError maps session errors onto exit codes.
func codedError(err error) error {
	var (
		verr *pake.ValidationError
		perr *session.PreconditionError
		lerr *runner.LaunchError
		ferr *session.ProcessFailure
		serr *session.PersistenceError
	)
	switch {
	case err == nil:
		return exitcode.New(exitcode.ErrInternal, "action failed without an error")
	case errors.Is(err, session.ErrBusy):
		return exitcode.Wrap(exitcode.ErrBusy, "cannot start", err)
	case errors.As(err, &verr):
		return exitcode.Wrap(exitcode.ErrValidation, "invalid build request", err)
	case errors.As(err, &perr):
		return exitcode.Wrap(exitcode.ErrPrecondition, "not ready to build", err)
	case errors.As(err, &lerr):
		return exitcode.Wrap(exitcode.ErrLaunch, "could not start command", err)
	case errors.As(err, &ferr):
		return exitcode.Wrap(exitcode.ErrProcess, "command failed", err)
	case errors.As(err, &serr):
		return exitcode.Wrap(exitcode.ErrPersistence, "history", err)
	default:
		return exitcode.Wrap(exitcode.ErrInternal, "unexpected failure", err)
	}
}
