package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steveyegge/pakeforge/internal/doctor"
	"github.com/steveyegge/pakeforge/internal/exitcode"
	"github.com/steveyegge/pakeforge/internal/output"
	"github.com/steveyegge/pakeforge/internal/ui"
)

var (
	doctorFix     bool
	doctorVerbose bool
	doctorJSON    bool
)

// doctorCommander is replaced in tests.
var doctorCommander doctor.Commander = doctor.DefaultCommander

var doctorCmd = &cobra.Command{
	Use:               "doctor [check-name | category]...",
	GroupID:           GroupDiag,
	Short:             "Check that the project is ready to build",
	Args:              cobra.ArbitraryArgs,
	RunE:              runDoctor,
	ValidArgsFunction: completeDoctorArgs,
}

func init() {
	doctorCmd.Long = buildDoctorLong()
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt to automatically fix issues")
	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show detailed output")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output the report as JSON")
	rootCmd.AddCommand(doctorCmd)
}

// buildDoctorLong generates the Long help text from registered checks,
// so it stays in sync as checks are added or removed.
func buildDoctorLong() string {
	byCategory := make(map[string][]doctor.Check)
	for _, c := range doctor.DefaultChecks(doctorCommander) {
		byCategory[c.Category()] = append(byCategory[c.Category()], c)
	}

	marker, blank := "*", " "
	if ui.ShouldUseEmoji() {
		marker, blank = "🔧", "  "
	}

	var b strings.Builder
	b.WriteString("Run preflight checks on the Pake project.\n\n")
	b.WriteString("Run all checks (default), specific checks by name, or all checks in a category.\n")

	for _, category := range doctor.CategoryOrder {
		checks := byCategory[category]
		if len(checks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", category)
		for _, c := range checks {
			fix := blank
			if c.CanFix() {
				fix = marker
			}
			fmt.Fprintf(&b, "  %-18s %s %s\n", c.Name(), fix, c.Description())
		}
	}

	fmt.Fprintf(&b, "\nChecks marked %s can be fixed automatically with --fix\n", marker)
	b.WriteString("\nExamples:\n")
	b.WriteString("  pakeforge doctor                     # Run all checks\n")
	b.WriteString("  pakeforge doctor runtime-version     # Run one check\n")
	b.WriteString("  pakeforge doctor toolchain           # Run all Toolchain checks\n")
	b.WriteString("  pakeforge doctor config-file --fix   # Write a default config")

	return b.String()
}

// completeDoctorArgs provides tab completion for check names and category names.
func completeDoctorArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, c := range doctor.DefaultChecks(doctorCommander) {
		completions = append(completions, c.Name())
	}
	for _, cat := range doctor.CategoryOrder {
		completions = append(completions, strings.ToLower(cat))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func runDoctor(cmd *cobra.Command, args []string) error {
	p, err := loadProject(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	allChecks := doctor.DefaultChecks(doctorCommander)
	checks := allChecks
	if len(args) > 0 {
		result := doctor.FilterChecks(allChecks, args)
		if len(result.Unmatched) > 0 {
			return formatUnmatchedError(allChecks, result.Unmatched)
		}
		checks = result.Matched
	}

	d := doctor.NewDoctor()
	d.RegisterAll(checks...)
	ctx := &doctor.CheckContext{
		Config:     p.cfg,
		ConfigPath: p.cfgPath,
		Verbose:    doctorVerbose,
	}

	out := cmd.OutOrStdout()
	var report *doctor.Report
	if doctorJSON {
		report = d.RunStreaming(ctx, nil, doctorFix, false)
		if err := output.FprintJSON(out, report); err != nil {
			return err
		}
	} else {
		report = d.RunStreaming(ctx, out, doctorFix, ui.IsTerminal())
		report.PrintSummaryOnly(out)
	}

	if report.HasErrors() {
		cmd.SilenceErrors = true
		return exitcode.Newf(exitcode.ErrGeneral, "doctor found %d error(s)", report.Summary.Errors)
	}
	return nil
}

// formatUnmatchedError builds an error message for unknown check names with suggestions.
func formatUnmatchedError(allChecks []doctor.Check, unmatched []string) error {
	var b strings.Builder

	if len(unmatched) == 1 {
		name := unmatched[0]
		fmt.Fprintf(&b, "unknown check %q", name)

		suggestions := doctor.SuggestCheck(allChecks, name)
		if len(suggestions) == 1 {
			fmt.Fprintf(&b, "\n\n  Did you mean: %s?", suggestions[0])
		} else if len(suggestions) > 1 {
			fmt.Fprintf(&b, "\n\n  Did you mean one of: %s?", strings.Join(suggestions, ", "))
		}
	} else {
		quoted := make([]string, len(unmatched))
		for i, name := range unmatched {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		fmt.Fprintf(&b, "unknown checks %s", strings.Join(quoted, ", "))
	}

	b.WriteString("\n\n  Run \"pakeforge doctor --help\" to see all available checks.")

	return exitcode.New(exitcode.ErrUsage, b.String())
}
