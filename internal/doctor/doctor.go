package doctor

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/steveyegge/pakeforge/internal/ui"
)

// ErrCannotFix is returned by checks that have no automatic fix.
var ErrCannotFix = errors.New("check cannot be fixed automatically")

// Doctor manages and executes checks.
type Doctor struct {
	checks []Check
}

// NewDoctor creates a new Doctor with no registered checks.
func NewDoctor() *Doctor {
	return &Doctor{
		checks: make([]Check, 0),
	}
}

// RegisterAll adds checks in display order.
func (d *Doctor) RegisterAll(checks ...Check) {
	d.checks = append(d.checks, checks...)
}

// RunStreaming executes all checks, printing each result to w as it
// completes when w is non-nil. With fix set, failing checks that support it
// are fixed and re-run. When isTTY is false, output uses plain PASS/WARN/FAIL
// prefixes instead of icons and carriage-return overwrites. Details are
// printed for problems, and for every check when ctx.Verbose is set.
func (d *Doctor) RunStreaming(ctx *CheckContext, w io.Writer, fix bool, isTTY bool) *Report {
	report := NewReport()

	category := ""
	for _, check := range d.checks {
		if w != nil && check.Category() != category {
			category = check.Category()
			if category != "" {
				if len(report.Checks) > 0 {
					_, _ = fmt.Fprintln(w)
				}
				_, _ = fmt.Fprintln(w, ui.RenderCategory(category))
			}
		}
		if w != nil && isTTY {
			_, _ = fmt.Fprintf(w, "  %s  %s...", ui.RenderMuted("○"), check.Name())
		}

		start := time.Now()
		result := runOne(check, ctx)

		if fix && result.Status != StatusOK && check.CanFix() {
			if err := check.Fix(ctx); err != nil {
				result.Details = append(result.Details, "Fix failed: "+err.Error())
			} else {
				result = runOne(check, ctx)
				if result.Status == StatusOK {
					result.Message += " (fixed)"
					result.Fixed = true
				}
			}
		}
		result.Elapsed = time.Since(start)

		if w != nil {
			streamResult(w, result, isTTY, ctx != nil && ctx.Verbose)
		}
		report.Add(result)
	}

	return report
}

func runOne(check Check, ctx *CheckContext) *CheckResult {
	result := check.Run(ctx)
	if result.Name == "" {
		result.Name = check.Name()
	}
	if result.Category == "" {
		result.Category = check.Category()
	}
	return result
}

func streamResult(w io.Writer, result *CheckResult, isTTY, verbose bool) {
	showDetails := len(result.Details) > 0 && (verbose || result.Status != StatusOK)

	if isTTY {
		_, _ = fmt.Fprintf(w, "\r  %s  %s", statusIcon(result), result.Name)
		if result.Message != "" {
			_, _ = fmt.Fprintf(w, "%s", ui.RenderMuted(" "+result.Message))
		}
		_, _ = fmt.Fprintln(w)
		if showDetails {
			for _, detail := range result.Details {
				_, _ = fmt.Fprintf(w, "     %s%s\n", ui.MutedStyle.Render(ui.TreeLast), ui.RenderMuted(detail))
			}
		}
		return
	}

	prefix := "PASS"
	switch {
	case result.Fixed:
		prefix = "FIXED"
	case result.Status == StatusWarning:
		prefix = "WARN"
	case result.Status == StatusError:
		prefix = "FAIL"
	}
	_, _ = fmt.Fprintf(w, "%s  %s", prefix, result.Name)
	if result.Message != "" {
		_, _ = fmt.Fprintf(w, "  %s", result.Message)
	}
	_, _ = fmt.Fprintln(w)
	if showDetails {
		for _, detail := range result.Details {
			_, _ = fmt.Fprintf(w, "      %s\n", detail)
		}
	}
}

// BaseCheck provides a base implementation for checks that don't support auto-fix.
// Embed this in custom checks to get default CanFix() and Fix() implementations.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
	CheckCategory    string
}

// Category returns the check's category for grouping in output.
func (b *BaseCheck) Category() string {
	return b.CheckCategory
}

// Name returns the check name.
func (b *BaseCheck) Name() string {
	return b.CheckName
}

// Description returns the check description.
func (b *BaseCheck) Description() string {
	return b.CheckDescription
}

// CanFix returns false by default.
func (b *BaseCheck) CanFix() bool {
	return false
}

// Fix returns ErrCannotFix.
func (b *BaseCheck) Fix(*CheckContext) error {
	return ErrCannotFix
}

// FixableCheck provides a base implementation for checks that support auto-fix.
// Embed this and implement Fix().
type FixableCheck struct {
	BaseCheck
}

// CanFix returns true for fixable checks.
func (f *FixableCheck) CanFix() bool {
	return true
}
