package pake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testToolchain(goos string) Toolchain {
	return Toolchain{
		PackageManager: "pnpm",
		Runtime:        "node",
		EntryScript:    "dist/cli.js",
		BuildScript:    "cli:build",
		GOOS:           goos,
	}
}

func TestToolchain_Unix(t *testing.T) {
	tc := testToolchain("linux")
	assert.Equal(t, []string{"pnpm", "install"}, tc.InstallCommand())
	assert.Equal(t, []string{"pnpm", "run", "cli:build"}, tc.CLIBuildCommand())
}

func TestToolchain_WindowsWrapsPackageManager(t *testing.T) {
	tc := testToolchain("windows")
	assert.Equal(t, []string{"cmd", "/c", "pnpm", "install"}, tc.InstallCommand())
	assert.Equal(t, []string{"cmd", "/c", "pnpm", "run", "cli:build"}, tc.CLIBuildCommand())

	req := NewRequest("https://x.com", "Foo")
	got := tc.AppBuildCommand(req)
	assert.Equal(t, "node", got[0], "runtime is not shell-wrapped")
}

func TestToolchain_AppBuildCommand(t *testing.T) {
	tc := testToolchain("darwin")
	req := BuildRequest{URL: "https://x.com", Name: "Foo", Width: 1200, Height: 780, HideTitleBar: true}

	want := []string{"node", "dist/cli.js", "https://x.com", "--name", "Foo", "--width", "1200", "--height", "780", "--hide-title-bar"}
	assert.Equal(t, want, tc.AppBuildCommand(req))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, `node dist/cli.js https://x.com --name "My App"`,
		Display([]string{"node", "dist/cli.js", "https://x.com", "--name", "My App"}))
	assert.Equal(t, `a ""`, Display([]string{"a", ""}))
}
