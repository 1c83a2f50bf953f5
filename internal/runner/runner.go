// Package runner starts external commands and streams their combined
// output line by line.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// MaxLineBytes bounds a single output line. Longer lines are cut at this
// size and relayed with TruncatedMarker; the lines after them still arrive.
const MaxLineBytes = 1 << 20

// TruncatedMarker is appended to lines cut at MaxLineBytes.
const TruncatedMarker = " …[truncated]"

const killGrace = 2 * time.Second

// Outcome is the result of a process that ran to completion.
type Outcome struct {
	ExitCode int
	// TimedOut is reserved; processes have no timeout and this is always false.
	TimedOut bool
}

// Success reports whether the process exited with status 0.
func (o Outcome) Success() bool { return o.ExitCode == 0 && !o.TimedOut }

// LaunchError means the command could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Runner runs a command and delivers each output line to onLine.
type Runner interface {
	Run(ctx context.Context, argv []string, onLine func(string)) (Outcome, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

var _ Runner = (*Exec)(nil)

// Run starts argv and blocks until the process has exited and every line
// has been handed to onLine. stdout and stderr are merged in arrival order.
// A non-zero exit is reported in Outcome with a nil error. Cancelling ctx
// kills the process.
func (e *Exec) Run(ctx context.Context, argv []string, onLine func(string)) (Outcome, error) {
	if len(argv) == 0 {
		return Outcome{}, &LaunchError{Command: "", Err: errors.New("empty command")}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // G204: argv is assembled from config
	cmd.Dir = e.Dir
	// Children that inherit the pipe must not hold Wait open after a kill.
	cmd.WaitDelay = killGrace
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	pr, pw := io.Pipe()
	// Same comparable writer for both streams: exec serializes the writes.
	cmd.Stdout = pw
	cmd.Stderr = pw

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanLines(pr, onLine)
	}()

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		<-done
		return Outcome{}, &LaunchError{Command: argv[0], Err: err}
	}

	waitErr := cmd.Wait()
	_ = pw.Close()
	<-done

	if waitErr == nil {
		return Outcome{ExitCode: 0}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return Outcome{ExitCode: exitErr.ExitCode()}, nil
	}
	if errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		return Outcome{ExitCode: cmd.ProcessState.ExitCode()}, nil
	}
	return Outcome{ExitCode: -1}, fmt.Errorf("waiting for %s: %w", argv[0], waitErr)
}

func scanLines(r io.Reader, onLine func(string)) {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	truncated := false

	emit := func() {
		text := strings.TrimRight(string(line), " \t\r")
		if truncated {
			text += TruncatedMarker
		}
		if onLine != nil {
			onLine(text)
		}
		line = line[:0]
		truncated = false
	}

	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			// Output that ended without a newline.
			if len(line) > 0 || truncated {
				emit()
			}
			// Keep the writer unblocked if reading stopped early.
			_, _ = io.Copy(io.Discard, r)
			return
		}
		if !truncated {
			if room := MaxLineBytes - len(line); len(chunk) > room {
				line = append(line, chunk[:room]...)
				truncated = true
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			emit()
		}
	}
}
