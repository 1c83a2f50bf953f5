package config

import (
	"os"
	"sort"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvProject        = "PAKEFORGE_PROJECT"
	EnvPackageManager = "PAKEFORGE_PACKAGE_MANAGER"
	EnvRuntime        = "PAKEFORGE_RUNTIME"
	EnvPrecondition   = "PAKEFORGE_PRECONDITION"
	EnvHistory        = "PAKEFORGE_HISTORY"
)

// ApplyEnv overlays PAKEFORGE_* variables onto cfg. Empty values are ignored.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvProject); v != "" {
		cfg.ProjectDir = v
	}
	if v := os.Getenv(EnvPackageManager); v != "" {
		cfg.PackageManager = v
	}
	if v := os.Getenv(EnvRuntime); v != "" {
		cfg.Runtime = v
	}
	if v := os.Getenv(EnvPrecondition); v != "" {
		cfg.Precondition = Precondition(strings.ToLower(v))
	}
	if v := os.Getenv(EnvHistory); v != "" {
		cfg.HistoryFile = v
	}
}

// EnvOverrides returns the PAKEFORGE_* variables currently set, sorted by
// name, for `config show`.
func EnvOverrides() []string {
	var out []string
	for _, name := range []string{EnvProject, EnvPackageManager, EnvRuntime, EnvPrecondition, EnvHistory} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			out = append(out, name+"="+v)
		}
	}
	sort.Strings(out)
	return out
}
