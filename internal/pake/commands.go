package pake

import (
	"runtime"
	"strings"
)

// Toolchain names the programs used to install, build the CLI, and build
// apps. GOOS selects shell wrapping; empty means the host OS.
type Toolchain struct {
	PackageManager string
	Runtime        string
	EntryScript    string
	BuildScript    string
	GOOS           string
}

func (t Toolchain) goos() string {
	if t.GOOS != "" {
		return t.GOOS
	}
	return runtime.GOOS
}

// shell wraps package-manager invocations in cmd /c on Windows so that
// .cmd shims such as pnpm.cmd resolve.
func (t Toolchain) shell(argv []string) []string {
	if t.goos() == "windows" {
		return append([]string{"cmd", "/c"}, argv...)
	}
	return argv
}

// InstallCommand returns `<pm> install`.
func (t Toolchain) InstallCommand() []string {
	return t.shell([]string{t.PackageManager, "install"})
}

// CLIBuildCommand returns `<pm> run <build_script>`.
func (t Toolchain) CLIBuildCommand() []string {
	return t.shell([]string{t.PackageManager, "run", t.BuildScript})
}

// AppBuildCommand returns `<runtime> <entry> <args...>` for r. The runtime
// is invoked directly on every platform.
func (t Toolchain) AppBuildCommand(r BuildRequest) []string {
	return append([]string{t.Runtime, t.EntryScript}, Args(r)...)
}

// Display renders argv for the log the way a user would type it.
func Display(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			parts[i] = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
			continue
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
