package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/stretchr/testify/require"
)

// executeCmd runs the root command with args against a clean flag state and
// returns everything written to stdout and stderr.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommand(rootCmd)
	for _, name := range []string{config.EnvProject, config.EnvPackageManager, config.EnvRuntime, config.EnvPrecondition, config.EnvHistory} {
		t.Setenv(name, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetCommand restores flag defaults left over from earlier executions.
func resetCommand(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	c.SilenceErrors = false
	for _, sub := range c.Commands() {
		resetCommand(sub)
	}
}

// newProject creates a project directory with a config that points the
// toolchain at sh, so `install` runs ./install and builds run ./cli.sh.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".pakeforge/config.toml": `
package_manager = "sh"
runtime = "sh"
entry_script = "cli.sh"
`,
	})
	writeFiles(t, dir, files)
	return dir
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh scripts")
	}
}
