package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/style"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupConfig,
	Short:   "Show or create the project config",
	Long: `Manage .pakeforge/config.toml.

Settings are resolved in order: built-in defaults, the config file, then
PAKEFORGE_* environment variables, then command-line flags.

Examples:
  pakeforge config show
  pakeforge config init
  pakeforge -C ../Pake config show`,
	RunE: requireSubcommand,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config as TOML",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	text, err := p.cfg.Encode()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	out := cmd.OutOrStdout()
	source := p.cfgPath
	if _, err := os.Stat(source); err != nil {
		source += " (not found, using defaults)"
	}
	fmt.Fprintf(out, "%s\n", style.Dim.Render("# "+source))
	for _, kv := range config.EnvOverrides() {
		fmt.Fprintf(out, "%s\n", style.Dim.Render("# env "+kv))
	}
	fmt.Fprint(out, text)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := projectFlag
	if dir == "" {
		dir = os.Getenv(config.EnvProject)
	}
	if dir == "" {
		dir = "."
	}
	path := configFlag
	if path == "" {
		path = config.Path(dir)
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return exitcode.Usage("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	// Resolved from -C or the working directory at load time.
	cfg.ProjectDir = ""
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", style.SuccessPrefix, path)
	return nil
}
