// Package cmd provides CLI commands for the pakeforge tool.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/ui"
)

var (
	projectFlag string
	configFlag  string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:     "pakeforge",
	Short:   "Terminal front-end for the Pake app builder",
	Version: Version,
	Long: `pakeforge wraps the Pake command line builder.

Run it with no arguments to open the build form: fill in a URL and an app
name, install dependencies once, then build. Output from the package manager
and the builder streams into the log pane, and every successful build is
recorded in the project's history file.

The same actions are available headless for scripts:

  pakeforge install
  pakeforge build https://weread.qq.com --name WeRead --hide-title-bar`,
	Args:          usageArgs(cobra.NoArgs),
	SilenceUsage:  true,
	RunE:          runUI,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.ApplyColorProfile()
	},
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		// Already printed by cobra
		return exitcode.Code(err)
	}
	return exitcode.Success
}

// Command group IDs - used by subcommands to organize help output
const (
	GroupBuild   = "build"
	GroupHistory = "history"
	GroupConfig  = "config"
	GroupDiag    = "diag"
)

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBuild, Title: "Build:"},
		&cobra.Group{ID: GroupHistory, Title: "History & Artifacts:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)

	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupConfig)

	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "C", "", "Pake project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: <project>/.pakeforge/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log relayed process output; install and build also echo the log to stderr")

	// Bad flags are usage errors, not general failures.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exitcode.Wrap(exitcode.ErrUsage, "invalid usage", err)
	})
}

// buildCommandPath walks the command hierarchy to build the full command path.
// For example: "pakeforge history rm", "pakeforge config show", etc.
func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	return strings.Join(parts, " ")
}

// requireSubcommand returns a RunE function for parent commands that require
// a subcommand. Without this, Cobra silently shows help and exits 0 for
// unknown subcommands like "pakeforge history foobar", masking errors.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return exitcode.Usage("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return exitcode.Usage("unknown command %q for %q\n\nRun '%s --help' for available commands",
		args[0], buildCommandPath(cmd), buildCommandPath(cmd))
}

// usageArgs wraps a cobra positional-args validator so its failures exit
// with the usage code.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return exitcode.Wrap(exitcode.ErrUsage, fmt.Sprintf("usage: %s", cmd.UseLine()), err)
		}
		return nil
	}
}
