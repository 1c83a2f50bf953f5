package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/steveyegge/pakeforge/internal/config"
	"github.com/steveyegge/pakeforge/internal/history"
)

// Commander runs the external probes checks need. Tests substitute it.
type Commander interface {
	LookPath(name string) (string, error)
	Output(name string, args ...string) (string, error)
}

type execCommander struct{}

func (execCommander) LookPath(name string) (string, error) { return exec.LookPath(name) }

func (execCommander) Output(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output() //nolint:gosec // G204: tool names come from config
	return strings.TrimSpace(string(out)), err
}

// DefaultCommander uses os/exec.
var DefaultCommander Commander = execCommander{}

// DefaultChecks returns the preflight checks in display order.
func DefaultChecks(cmd Commander) []Check {
	if cmd == nil {
		cmd = DefaultCommander
	}
	return []Check{
		NewPackageManagerCheck(cmd),
		NewRuntimeCheck(cmd),
		NewDepsCheck(),
		NewCLIEntryCheck(),
		NewConfigFileCheck(),
		NewHistoryCheck(),
	}
}

// PackageManagerCheck verifies the package manager is on PATH.
type PackageManagerCheck struct {
	BaseCheck
	cmd Commander
}

func NewPackageManagerCheck(cmd Commander) *PackageManagerCheck {
	return &PackageManagerCheck{
		BaseCheck: BaseCheck{
			CheckName:        "package-manager",
			CheckDescription: "Check that the package manager is installed",
			CheckCategory:    CategoryToolchain,
		},
		cmd: cmd,
	}
}

func (c *PackageManagerCheck) Run(ctx *CheckContext) *CheckResult {
	pm := ctx.Config.PackageManager
	path, err := c.cmd.LookPath(pm)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: pm + " not found in PATH",
			FixHint: fmt.Sprintf("Install %s, or set package_manager in %s", pm, ctx.ConfigPath),
		}
	}

	version, err := c.cmd.Output(pm, "--version")
	if err != nil || version == "" {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("%s found but version check failed", pm),
			Details: []string{path},
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%s %s (%s)", pm, firstLine(version), path),
	}
}

// RuntimeCheck verifies the JavaScript runtime is installed and recent enough.
type RuntimeCheck struct {
	BaseCheck
	cmd Commander
}

func NewRuntimeCheck(cmd Commander) *RuntimeCheck {
	return &RuntimeCheck{
		BaseCheck: BaseCheck{
			CheckName:        "runtime-version",
			CheckDescription: "Check that the runtime meets the minimum version",
			CheckCategory:    CategoryToolchain,
		},
		cmd: cmd,
	}
}

var versionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the first dotted version from tool output such as
// "v20.11.1" or "bun 1.1.3".
func ParseVersion(output string) (*goversion.Version, error) {
	m := versionRe.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version in %q", firstLine(output))
	}
	return goversion.NewVersion(m[1])
}

func (c *RuntimeCheck) Run(ctx *CheckContext) *CheckResult {
	rt := ctx.Config.Runtime
	path, err := c.cmd.LookPath(rt)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: rt + " not found in PATH",
			FixHint: "Install Node.js " + ctx.Config.MinRuntimeVersion + " or newer",
		}
	}

	out, err := c.cmd.Output(rt, "--version")
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "version check failed: " + err.Error(),
		}
	}
	have, err := ParseVersion(out)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: err.Error(),
		}
	}

	if ctx.Config.MinRuntimeVersion == "" {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: fmt.Sprintf("%s %s", rt, have), Details: []string{path}}
	}
	want, err := goversion.NewVersion(ctx.Config.MinRuntimeVersion)
	if err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: fmt.Sprintf("invalid min_runtime_version %q", ctx.Config.MinRuntimeVersion),
		}
	}
	if have.LessThan(want) {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusError,
			Message: fmt.Sprintf("%s %s is older than %s", rt, have, want),
			FixHint: fmt.Sprintf("Upgrade %s to %s or newer", rt, want),
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: fmt.Sprintf("%s %s (>= %s)", rt, have, want),
		Details: []string{path},
	}
}

// DepsCheck verifies project dependencies are installed.
type DepsCheck struct {
	BaseCheck
}

func NewDepsCheck() *DepsCheck {
	return &DepsCheck{
		BaseCheck: BaseCheck{
			CheckName:        "dependencies",
			CheckDescription: "Check that project dependencies are installed",
			CheckCategory:    CategoryProject,
		},
	}
}

func (c *DepsCheck) Run(ctx *CheckContext) *CheckResult {
	path := ctx.Config.DepsMarkerPath()
	if _, err := os.Stat(path); err != nil {
		status := StatusError
		if ctx.Config.Precondition == config.PreconditionLenient {
			status = StatusWarning
		}
		return &CheckResult{
			Name:    c.Name(),
			Status:  status,
			Message: ctx.Config.DepsMarker + " not found",
			FixHint: "Run 'pakeforge install'",
		}
	}
	return &CheckResult{
		Name:    c.Name(),
		Status:  StatusOK,
		Message: ctx.Config.DepsMarker + " present",
		Details: []string{path},
	}
}

// CLIEntryCheck reports whether the builder CLI has been compiled.
type CLIEntryCheck struct {
	BaseCheck
}

func NewCLIEntryCheck() *CLIEntryCheck {
	return &CLIEntryCheck{
		BaseCheck: BaseCheck{
			CheckName:        "cli-entry",
			CheckDescription: "Check that the Pake CLI has been built",
			CheckCategory:    CategoryProject,
		},
	}
}

func (c *CLIEntryCheck) Run(ctx *CheckContext) *CheckResult {
	if _, err := os.Stat(ctx.Config.EntryScriptPath()); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: ctx.Config.EntryScript + " not built",
			Details: []string{fmt.Sprintf("The first build runs '%s run %s' automatically", ctx.Config.PackageManager, ctx.Config.BuildScript)},
		}
	}
	return &CheckResult{Name: c.Name(), Status: StatusOK, Message: ctx.Config.EntryScript}
}

// ConfigFileCheck notes when no config file exists and can write the defaults.
type ConfigFileCheck struct {
	FixableCheck
}

func NewConfigFileCheck() *ConfigFileCheck {
	return &ConfigFileCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "config-file",
				CheckDescription: "Check for a pakeforge config file",
				CheckCategory:    CategoryProject,
			},
		},
	}
}

func (c *ConfigFileCheck) Run(ctx *CheckContext) *CheckResult {
	if _, err := os.Stat(ctx.ConfigPath); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "no config file, using defaults",
			FixHint: "Run 'pakeforge config init' or 'pakeforge doctor --fix'",
		}
	}
	return &CheckResult{Name: c.Name(), Status: StatusOK, Message: ctx.ConfigPath}
}

func (c *ConfigFileCheck) Fix(ctx *CheckContext) error {
	return ctx.Config.Save(ctx.ConfigPath)
}

// HistoryCheck verifies the build ledger parses.
type HistoryCheck struct {
	FixableCheck
}

func NewHistoryCheck() *HistoryCheck {
	return &HistoryCheck{
		FixableCheck: FixableCheck{
			BaseCheck: BaseCheck{
				CheckName:        "history",
				CheckDescription: "Check that the build history file is readable",
				CheckCategory:    CategoryData,
			},
		},
	}
}

func (c *HistoryCheck) Run(ctx *CheckContext) *CheckResult {
	path := ctx.Config.HistoryPath()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config
	if os.IsNotExist(err) {
		return &CheckResult{Name: c.Name(), Status: StatusOK, Message: "no builds recorded yet"}
	}
	if err != nil {
		return &CheckResult{Name: c.Name(), Status: StatusWarning, Message: err.Error()}
	}

	var records []history.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return &CheckResult{
			Name:    c.Name(),
			Status:  StatusWarning,
			Message: "history file is corrupt and will be treated as empty",
			Details: []string{err.Error()},
			FixHint: "Run 'pakeforge doctor --fix' to move it aside",
		}
	}
	return &CheckResult{Name: c.Name(), Status: StatusOK, Message: fmt.Sprintf("%d build(s) recorded", len(records))}
}

// Fix moves a corrupt ledger to <file>.bak so the next build starts fresh.
func (c *HistoryCheck) Fix(ctx *CheckContext) error {
	path := ctx.Config.HistoryPath()
	if err := os.Rename(path, path+".bak"); err != nil {
		return fmt.Errorf("moving corrupt history aside: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
