package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *lineRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func TestRun_RelaysLinesInOrder(t *testing.T) {
	skipOnWindows(t)
	rec := &lineRecorder{}
	e := &Exec{}

	out, err := e.Run(context.Background(), []string{"sh", "-c", "echo a; echo b; echo c"}, rec.add)
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.True(t, out.Success())
	assert.Equal(t, []string{"a", "b", "c"}, rec.get())
}

func TestRun_MergesStderr(t *testing.T) {
	skipOnWindows(t)
	rec := &lineRecorder{}
	e := &Exec{}

	_, err := e.Run(context.Background(), []string{"sh", "-c", "echo out; sleep 0.05; echo err 1>&2; sleep 0.05; echo out2"}, rec.add)
	require.NoError(t, err)
	assert.Equal(t, []string{"out", "err", "out2"}, rec.get())
}

func TestRun_TrimsTrailingWhitespace(t *testing.T) {
	skipOnWindows(t)
	rec := &lineRecorder{}
	e := &Exec{}

	_, err := e.Run(context.Background(), []string{"sh", "-c", `printf 'done   \r\n'`}, rec.add)
	require.NoError(t, err)
	assert.Equal(t, []string{"done"}, rec.get())
}

func TestRun_NonZeroExit(t *testing.T) {
	skipOnWindows(t)
	e := &Exec{}

	out, err := e.Run(context.Background(), []string{"sh", "-c", "echo failing; exit 3"}, nil)
	require.NoError(t, err, "non-zero exit is an outcome, not an error")
	assert.Equal(t, 3, out.ExitCode)
	assert.False(t, out.Success())
	assert.False(t, out.TimedOut)
}

func TestRun_LaunchError(t *testing.T) {
	e := &Exec{}

	_, err := e.Run(context.Background(), []string{"pakeforge-definitely-not-a-binary"}, nil)
	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "pakeforge-definitely-not-a-binary", launchErr.Command)
}

func TestRun_EmptyArgv(t *testing.T) {
	_, err := (&Exec{}).Run(context.Background(), nil, nil)
	var launchErr *LaunchError
	assert.True(t, errors.As(err, &launchErr))
}

func TestRun_WorkingDirAndEnv(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	rec := &lineRecorder{}
	e := &Exec{Dir: dir, Env: []string{"PAKEFORGE_TEST_VALUE=xyz"}}

	_, err := e.Run(context.Background(), []string{"sh", "-c", "pwd; echo $PAKEFORGE_TEST_VALUE"}, rec.add)
	require.NoError(t, err)
	lines := rec.get()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], strings.TrimPrefix(dir, "/private")))
	assert.Equal(t, "xyz", lines[1])
}

func TestRun_OversizedLineKeepsStreaming(t *testing.T) {
	skipOnWindows(t)
	e := &Exec{}

	script := "echo before; head -c 2000000 /dev/zero | tr '\\0' x; echo; echo after; exit 3"
	var lines []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		out, err := e.Run(context.Background(), []string{"sh", "-c", script}, func(line string) {
			lines = append(lines, line)
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, out.ExitCode)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after an oversized line")
	}

	require.Len(t, lines, 3)
	assert.Equal(t, "before", lines[0])
	assert.Len(t, lines[1], MaxLineBytes+len(TruncatedMarker))
	assert.True(t, strings.HasSuffix(lines[1], TruncatedMarker))
	assert.Equal(t, "after", lines[2])
}

func TestScanLines_FinalLineWithoutNewline(t *testing.T) {
	var lines []string
	scanLines(strings.NewReader("one\r\ntwo  \n\nlast"), func(line string) {
		lines = append(lines, line)
	})
	assert.Equal(t, []string{"one", "two", "", "last"}, lines)
}

func TestRun_ContextCancelKills(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	e := &Exec{}

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	out, err := e.Run(ctx, []string{"sh", "-c", "sleep 30"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, 0, out.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}
