package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/runner"
	"github.com/steveyegge/pakeforge/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"busy", session.ErrBusy, exitcode.ErrBusy},
		{"validation", &pake.ValidationError{Field: "url", Message: "URL and App Name are required"}, exitcode.ErrValidation},
		{"precondition", &session.PreconditionError{Path: "node_modules"}, exitcode.ErrPrecondition},
		{"launch", &runner.LaunchError{Command: "pnpm", Err: errors.New("not found")}, exitcode.ErrLaunch},
		{"process", &session.ProcessFailure{Step: "Build", ExitCode: 2}, exitcode.ErrProcess},
		{"persistence", &session.PersistenceError{Op: "save", Err: errors.New("disk full")}, exitcode.ErrPersistence},
		{"wrapped", fmt.Errorf("outer: %w", &session.ProcessFailure{Step: "Installation", ExitCode: 1}), exitcode.ErrProcess},
		{"unknown", errors.New("boom"), exitcode.ErrInternal},
		{"nil", nil, exitcode.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitcode.Code(codedError(tt.err)))
		})
	}
}

func TestConsoleSink(t *testing.T) {
	var out, errOut bytes.Buffer
	s := newConsoleSink(&out, &errOut)

	s.Clear()
	s.Busy(true)
	s.Line("compiling")
	s.Notify(session.Notification{Level: session.LevelSuccess, Message: "Build completed successfully!"})
	s.Notify(session.Notification{Level: session.LevelError, Title: "Error", Message: "Build failed with return code 1"})
	s.Finished(session.Result{})

	assert.Equal(t, "compiling\n", out.String())
	assert.Contains(t, errOut.String(), "Build failed with return code 1")
	assert.NotContains(t, errOut.String(), "successfully")
}

func TestRequireSubcommand(t *testing.T) {
	parent := &cobra.Command{Use: "pakeforge"}
	child := &cobra.Command{Use: "history"}
	parent.AddCommand(child)

	err := requireSubcommand(child, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pakeforge history --help")

	err = requireSubcommand(child, []string{"bogus"})
	assert.Contains(t, err.Error(), `unknown command "bogus"`)
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, err := executeCmd(t, "history", "--bogus")
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
}

func TestUIRequiresTerminal(t *testing.T) {
	// go test never has a TTY on stdin and stdout.
	_, err := executeCmd(t, "ui")
	require.Error(t, err)
	assert.Equal(t, exitcode.ErrUsage, exitcode.Code(err))
}

func TestVersion(t *testing.T) {
	out, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pakeforge "+Version), out)
}

func TestGuideRaw(t *testing.T) {
	out, err := executeCmd(t, "guide", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# pakeforge quick start")
	assert.Contains(t, out, "pakeforge install")
}

func TestRenderMarkdown(t *testing.T) {
	out, err := renderMarkdown("# Title\n\nSome *text*.", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}

func TestCommandGroups(t *testing.T) {
	groups := map[string]string{}
	for _, c := range rootCmd.Commands() {
		groups[c.Name()] = c.GroupID
	}
	assert.Equal(t, GroupBuild, groups["build"])
	assert.Equal(t, GroupBuild, groups["install"])
	assert.Equal(t, GroupBuild, groups["ui"])
	assert.Equal(t, GroupHistory, groups["history"])
	assert.Equal(t, GroupHistory, groups["builds"])
	assert.Equal(t, GroupDiag, groups["doctor"])
	assert.Equal(t, GroupConfig, groups["config"])
}
