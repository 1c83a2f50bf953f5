package cmd

import (
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/session"
)

var installCmd = &cobra.Command{
	Use:     "install",
	GroupID: GroupBuild,
	Short:   "Install the builder's dependencies",
	Long: `Run the package manager's install in the project directory and stream
its output.

This is the headless form of the Install button. It refuses to start while
another install or build from the same process is running.

Examples:
  pakeforge install
  PAKEFORGE_PACKAGE_MANAGER=npm pakeforge install`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	p, err := loadProject(debugConsole(cmd))
	if err != nil {
		return err
	}
	defer p.Close()

	return runHeadless(cmd, p, func(c *session.Controller) (*session.Task, error) {
		return c.InstallDependencies()
	})
}
