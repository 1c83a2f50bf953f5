package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/ui"
	"golang.org/x/term"
)

//go:embed docs/guide.md
var guideMarkdown string

var guideRaw bool

var guideCmd = &cobra.Command{
	Use:     "guide",
	GroupID: GroupDiag,
	Short:   "Show the quick-start guide",
	Long: `Render the quick-start guide in the terminal.

Output is plain markdown when stdout is not a terminal or with --raw.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runGuide,
}

func init() {
	guideCmd.Flags().BoolVar(&guideRaw, "raw", false, "Print the markdown source")
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if guideRaw || !ui.IsTerminal() {
		fmt.Fprint(out, guideMarkdown)
		return nil
	}

	rendered, err := renderMarkdown(guideMarkdown, terminalWidth())
	if err != nil {
		return fmt.Errorf("rendering guide: %w", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

func renderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if ui.ShouldUseColor() {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 100)
}
