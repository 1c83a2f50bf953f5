package cmd

import (
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/pake"
	"github.com/steveyegge/pakeforge/internal/session"
)

var (
	buildName         string
	buildIcon         string
	buildIdentifier   string
	buildWidth        int
	buildHeight       int
	buildFullscreen   bool
	buildHideTitleBar bool
	buildLenient      bool
)

var buildCmd = &cobra.Command{
	Use:     "build <url> --name <app-name>",
	GroupID: GroupBuild,
	Short:   "Package a web page as a desktop app",
	Long: `Build a desktop app for a URL with the Pake builder.

If the builder CLI has not been compiled yet it is built first. The build
refuses to start when dependencies are missing; pass --lenient (or set
precondition = "lenient" in the config) to warn and continue instead.

Successful builds are recorded in the project's history file.

Width and height default to the config's [defaults] section. Pass 0 to leave
the flag off and use the builder's own default.

Examples:
  pakeforge build https://weread.qq.com --name WeRead
  pakeforge build https://x.com --name X --hide-title-bar --width 1200 --height 780
  pakeforge build https://example.com --name Ex --icon ./icon.icns --identifier com.example.app`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildName, "name", "n", "", "App name (required)")
	buildCmd.Flags().StringVar(&buildIcon, "icon", "", "Icon path or URL (.png .jpg .jpeg .ico .icns)")
	buildCmd.Flags().StringVar(&buildIdentifier, "identifier", "", "Bundle identifier, e.g. com.example.app")
	buildCmd.Flags().IntVar(&buildWidth, "width", 0, "Window width (default from config)")
	buildCmd.Flags().IntVar(&buildHeight, "height", 0, "Window height (default from config)")
	buildCmd.Flags().BoolVar(&buildFullscreen, "fullscreen", false, "Start in fullscreen")
	buildCmd.Flags().BoolVar(&buildHideTitleBar, "hide-title-bar", false, "Hide the window title bar")
	buildCmd.Flags().BoolVar(&buildLenient, "lenient", false, "Warn instead of failing when dependencies are missing")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := loadProject(debugConsole(cmd))
	if err != nil {
		return err
	}
	defer p.Close()

	if buildLenient {
		p.cfg.Precondition = config.PreconditionLenient
	}
	req := buildRequest(p.cfg, args[0], cmd.Flags().Changed("width"), cmd.Flags().Changed("height"))

	return runHeadless(cmd, p, func(c *session.Controller) (*session.Task, error) {
		return c.BuildApp(req)
	})
}

// buildRequest assembles the request from flags. Dimensions not given on the
// command line fall back to the config defaults.
func buildRequest(cfg *config.Config, url string, widthSet, heightSet bool) pake.BuildRequest {
	req := pake.BuildRequest{
		URL:          url,
		Name:         buildName,
		Icon:         buildIcon,
		Identifier:   buildIdentifier,
		Width:        buildWidth,
		Height:       buildHeight,
		Fullscreen:   buildFullscreen,
		HideTitleBar: buildHideTitleBar,
	}
	if !widthSet {
		req.Width = cfg.Defaults.Width
	}
	if !heightSet {
		req.Height = cfg.Defaults.Height
	}
	return req
}
