package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/history"
	"github.com/steveyegge/pakeforge/internal/output"
	"github.com/steveyegge/pakeforge/internal/style"
)

var (
	historyJSON  bool
	historyForce bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: GroupHistory,
	Short:   "List past successful builds",
	Long: `List the builds recorded in the project's history file, most recently added first.

A build is recorded once per app name and URL; rebuilding refreshes the date.

Examples:
  pakeforge history
  pakeforge history --json
  pakeforge history rm WeRead https://weread.qq.com
  pakeforge history clear --force`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runHistoryList,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <name> <url>",
	Short: "Remove one build from history",
	Args:  usageArgs(cobra.ExactArgs(2)),
	RunE:  runHistoryRm,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every build from history",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyClearCmd.Flags().BoolVarP(&historyForce, "force", "f", false, "Clear without asking")

	historyCmd.AddCommand(historyRmCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	records := p.store.Load()
	if historyJSON {
		if records == nil {
			records = []history.Record{}
		}
		return output.FprintJSON(cmd.OutOrStdout(), records)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, style.Dim.Render("No builds recorded yet."))
		return nil
	}
	fmt.Fprint(out, renderHistory(records))
	fmt.Fprintf(out, "\n%s\n", style.Dim.Render(p.store.Path()))
	return nil
}

func renderHistory(records []history.Record) string {
	t := style.NewTable(
		style.Column{Name: "#", Width: 3, Align: style.AlignRight},
		style.Column{Name: "NAME", Width: 20},
		style.Column{Name: "URL", Width: 40},
		style.Column{Name: "IDENTIFIER", Width: 24},
		style.Column{Name: "DATE", Width: 19},
	)
	for i, r := range records {
		t.AddRow(strconv.Itoa(i+1), r.Name, r.URL, r.Identifier, r.Date)
	}
	return t.Render()
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	name, url := args[0], args[1]
	removed, err := p.store.Remove(name, url)
	if err != nil {
		return exitcode.Wrap(exitcode.ErrPersistence, "removing history entry", err)
	}
	if !removed {
		return exitcode.Newf(exitcode.ErrGeneral, "no history entry for %s (%s)", name, url)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %s\n", style.SuccessPrefix, style.Bold.Render(name))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyForce {
		return exitcode.Usage("refusing to clear history without --force")
	}

	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	n := len(p.store.Load())
	if err := p.store.Clear(); err != nil {
		return exitcode.Wrap(exitcode.ErrPersistence, "clearing history", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared %d build(s)\n", style.SuccessPrefix, n)
	return nil
}
