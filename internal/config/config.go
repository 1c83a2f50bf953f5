// Package config provides configuration loading and environment variable
// overrides for pakeforge.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DirName is the per-project directory holding config and logs.
const DirName = ".pakeforge"

// FileName is the config file name inside DirName.
const FileName = "config.toml"

// Precondition selects how a build reacts to missing dependencies.
type Precondition string

const (
	// PreconditionStrict aborts the build and asks for an install first.
	PreconditionStrict Precondition = "strict"
	// PreconditionLenient logs a warning and builds anyway.
	PreconditionLenient Precondition = "lenient"
)

// Defaults holds the initial form values.
type Defaults struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Config is the resolved pakeforge configuration.
type Config struct {
	ProjectDir        string       `toml:"project_dir,omitempty"`
	PackageManager    string       `toml:"package_manager"`
	Runtime           string       `toml:"runtime"`
	EntryScript       string       `toml:"entry_script"`
	BuildScript       string       `toml:"build_script"`
	DepsMarker        string       `toml:"deps_marker"`
	HistoryFile       string       `toml:"history_file"`
	LogFile           string       `toml:"log_file"`
	Precondition      Precondition `toml:"precondition"`
	MinRuntimeVersion string       `toml:"min_runtime_version"`
	ArtifactPatterns  []string     `toml:"artifact_patterns,omitempty"`
	Defaults          Defaults     `toml:"defaults"`
}

// Default returns the configuration for a stock Pake checkout.
func Default() *Config {
	return &Config{
		ProjectDir:        ".",
		PackageManager:    "pnpm",
		Runtime:           "node",
		EntryScript:       filepath.Join("dist", "cli.js"),
		BuildScript:       "cli:build",
		DepsMarker:        "node_modules",
		HistoryFile:       "pake_history.json",
		LogFile:           filepath.Join(DirName, "pakeforge.log"),
		Precondition:      PreconditionStrict,
		MinRuntimeVersion: "18.0.0",
		Defaults: Defaults{
			Width:  1200,
			Height: 780,
		},
	}
}

// Path returns the config file location for a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, DirName, FileName)
}

// Load reads the config for projectDir. When path is empty the project's
// default location is used. A missing file yields the defaults; environment
// overrides are applied after the file, and a non-empty projectDir beats
// both.
func Load(projectDir, path string) (*Config, error) {
	cfg := Default()
	if projectDir == "" {
		projectDir = os.Getenv(EnvProject)
	}
	if path == "" {
		dir := projectDir
		if dir == "" {
			dir = cfg.ProjectDir
		}
		path = Path(dir)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user-provided config location
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	ApplyEnv(cfg)
	if projectDir != "" {
		cfg.ProjectDir = projectDir
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}

	abs, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project dir: %w", err)
	}
	cfg.ProjectDir = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the session layer cannot act on.
func (c *Config) Validate() error {
	switch c.Precondition {
	case PreconditionStrict, PreconditionLenient:
	default:
		return fmt.Errorf("invalid precondition %q (want %q or %q)", c.Precondition, PreconditionStrict, PreconditionLenient)
	}
	if c.PackageManager == "" {
		return fmt.Errorf("package_manager must not be empty")
	}
	if c.Runtime == "" {
		return fmt.Errorf("runtime must not be empty")
	}
	if c.EntryScript == "" {
		return fmt.Errorf("entry_script must not be empty")
	}
	if c.Defaults.Width <= 0 || c.Defaults.Height <= 0 {
		return fmt.Errorf("defaults width/height must be positive (got %dx%d)", c.Defaults.Width, c.Defaults.Height)
	}
	return nil
}

// Resolve returns p anchored at the project dir unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

func (c *Config) HistoryPath() string    { return c.Resolve(c.HistoryFile) }
func (c *Config) LogPath() string        { return c.Resolve(c.LogFile) }
func (c *Config) DepsMarkerPath() string { return c.Resolve(c.DepsMarker) }
func (c *Config) EntryScriptPath() string {
	return c.Resolve(c.EntryScript)
}

// Save writes the config as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil { //nolint:gosec // G306: config is not secret
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Encode renders the config as TOML text.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", err
	}
	return buf.String(), nil
}
