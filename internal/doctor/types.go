// Package doctor provides a framework for running preflight checks on a
// Pake project before installing or building.
package doctor

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/ui"
)

// Category constants for grouping checks
const (
	CategoryToolchain = "Toolchain"
	CategoryProject   = "Project"
	CategoryData      = "Data"
)

// CategoryOrder defines the display order for categories
var CategoryOrder = []string{
	CategoryToolchain,
	CategoryProject,
	CategoryData,
}

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	// StatusOK indicates the check passed.
	StatusOK CheckStatus = iota
	// StatusWarning indicates a non-critical issue.
	StatusWarning
	// StatusError indicates a build will not succeed.
	StatusError
)

// String returns a human-readable status.
func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// MarshalText lets reports render as JSON with readable statuses.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckContext provides context for running checks.
type CheckContext struct {
	Config     *config.Config
	ConfigPath string // Location of the config file, which may not exist yet
	Verbose    bool
}

// CheckResult represents the outcome of a check.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   CheckStatus   `json:"status"`
	Message  string        `json:"message,omitempty"`
	Details  []string      `json:"details,omitempty"`
	FixHint  string        `json:"fix_hint,omitempty"`
	Category string        `json:"category"`
	Fixed    bool          `json:"fixed,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Check defines the interface for a preflight check.
type Check interface {
	Name() string
	Description() string
	Category() string

	// Run executes the check and returns a result.
	Run(ctx *CheckContext) *CheckResult

	// Fix attempts to automatically fix the issue.
	// Should only be called if CanFix() returns true.
	Fix(ctx *CheckContext) error

	CanFix() bool
}

// ReportSummary summarizes the results of all checks.
type ReportSummary struct {
	Total    int `json:"total"`
	OK       int `json:"ok"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Fixed    int `json:"fixed"`
}

// Report contains all check results and a summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Checks    []*CheckResult `json:"checks"`
	Summary   ReportSummary  `json:"summary"`
}

// NewReport creates an empty report with the current timestamp.
func NewReport() *Report {
	return &Report{
		Timestamp: time.Now(),
		Checks:    make([]*CheckResult, 0),
	}
}

// Add adds a check result to the report and updates the summary.
func (r *Report) Add(result *CheckResult) {
	r.Checks = append(r.Checks, result)
	r.Summary.Total++
	if result.Fixed {
		r.Summary.Fixed++
	}

	switch result.Status {
	case StatusOK:
		r.Summary.OK++
	case StatusWarning:
		r.Summary.Warnings++
	case StatusError:
		r.Summary.Errors++
	}
}

// HasErrors returns true if any check reported an error.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// PrintSummaryOnly prints the footer of a report whose checks were already
// streamed by RunStreaming.
func (r *Report) PrintSummaryOnly(w io.Writer) {
	var problems []*CheckResult
	for _, check := range r.Checks {
		if check.Status != StatusOK {
			problems = append(problems, check)
		}
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, ui.RenderSeparator())
	r.printSummary(w)
	printProblems(w, problems)
}

func statusIcon(check *CheckResult) string {
	switch check.Status {
	case StatusWarning:
		return ui.RenderWarnIcon()
	case StatusError:
		return ui.RenderFailIcon()
	default:
		return ui.RenderPassIcon()
	}
}

func (r *Report) printSummary(w io.Writer) {
	summary := fmt.Sprintf("%s %d passed  %s %d warnings  %s %d failed",
		ui.RenderPassIcon(), r.Summary.OK,
		ui.RenderWarnIcon(), r.Summary.Warnings,
		ui.RenderFailIcon(), r.Summary.Errors,
	)
	if r.Summary.Fixed > 0 {
		summary += fmt.Sprintf("  (%d fixed)", r.Summary.Fixed)
	}
	_, _ = fmt.Fprintln(w, summary)
}

// printProblems lists errors before warnings.
func printProblems(w io.Writer, problems []*CheckResult) {
	if len(problems) == 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, ui.RenderPass(ui.IconPass+" Ready to build"))
		return
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, ui.RenderWarn(ui.IconWarn+"  PROBLEMS"))

	slices.SortStableFunc(problems, func(a, b *CheckResult) int {
		return int(b.Status) - int(a.Status)
	})

	for i, check := range problems {
		line := fmt.Sprintf("%s: %s", check.Name, check.Message)
		if check.Status == StatusError {
			_, _ = fmt.Fprintf(w, "  %s  %s %s\n", ui.RenderFailIcon(), ui.RenderFail(fmt.Sprintf("%d.", i+1)), ui.RenderFail(line))
		} else {
			_, _ = fmt.Fprintf(w, "  %s  %s %s\n", ui.RenderWarnIcon(), ui.RenderWarn(fmt.Sprintf("%d.", i+1)), line)
		}
		if check.FixHint != "" {
			_, _ = fmt.Fprintf(w, "        %s%s\n", ui.MutedStyle.Render(ui.TreeLast), check.FixHint)
		}
	}
}
