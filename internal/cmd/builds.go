package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/discovery"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/output"
	"github.com/steveyegge/pakeforge/internal/style"
)

var (
	buildsJSON bool
	buildsOpen int
)

// openPath is replaced in tests.
var openPath = open.Start

var buildsCmd = &cobra.Command{
	Use:     "builds",
	GroupID: GroupHistory,
	Short:   "List built app bundles and installers",
	Long: `List the artifacts the builder has produced under the project directory:
macOS .app/.dmg bundles, Windows .msi installers, and Linux .deb/.AppImage
packages.

Examples:
  pakeforge builds
  pakeforge builds --json
  pakeforge builds --open 1     # Open the first artifact with the desktop handler`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runBuilds,
}

func init() {
	buildsCmd.Flags().BoolVar(&buildsJSON, "json", false, "Output as JSON")
	buildsCmd.Flags().IntVar(&buildsOpen, "open", 0, "Open artifact N (as numbered in the list)")
	rootCmd.AddCommand(buildsCmd)
}

func runBuilds(cmd *cobra.Command, args []string) error {
	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	artifacts := discovery.ScanArtifacts(p.cfg.ProjectDir, p.patterns())
	out := cmd.OutOrStdout()

	if buildsOpen != 0 {
		if buildsOpen < 1 || buildsOpen > len(artifacts) {
			return exitcode.Usage("--open %d: %d artifact(s) found", buildsOpen, len(artifacts))
		}
		a := artifacts[buildsOpen-1]
		if err := openPath(a.Path); err != nil {
			return fmt.Errorf("opening %s: %w", a.Path, err)
		}
		fmt.Fprintf(out, "%s Opened %s\n", style.SuccessPrefix, a.Name())
		return nil
	}

	if buildsJSON {
		if artifacts == nil {
			artifacts = []discovery.Artifact{}
		}
		return output.FprintJSON(out, artifacts)
	}

	if len(artifacts) == 0 {
		fmt.Fprintln(out, style.Dim.Render("No build artifacts found."))
		return nil
	}
	fmt.Fprint(out, renderArtifacts(p.cfg.ProjectDir, artifacts))
	return nil
}

func renderArtifacts(baseDir string, artifacts []discovery.Artifact) string {
	t := style.NewTable(
		style.Column{Name: "#", Width: 3, Align: style.AlignRight},
		style.Column{Name: "NAME", Width: 32},
		style.Column{Name: "KIND", Width: 18},
		style.Column{Name: "SIZE", Width: 9, Align: style.AlignRight},
		style.Column{Name: "MODIFIED", Width: 16},
		style.Column{Name: "LOCATION", Width: 40},
	)
	for i, a := range artifacts {
		dir := filepath.Dir(a.Path)
		if rel, err := filepath.Rel(baseDir, dir); err == nil {
			dir = rel
		}
		t.AddRow(strconv.Itoa(i+1), a.Name(), a.Kind, humanize.Bytes(uint64(a.Size)), humanize.Time(a.ModTime), dir)
	}
	return t.Render()
}
