// Package discovery finds packaged app artifacts produced by the builder.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Pattern is a glob relative to the project dir, labelled with the kind of
// artifact it matches.
type Pattern struct {
	Glob string
	Kind string
}

const bundleDir = "src-tauri/target/release/bundle"

// DefaultPatterns are the locations the Tauri bundler writes to, plus the
// project root where the Pake CLI copies finished packages.
var DefaultPatterns = []Pattern{
	{Glob: bundleDir + "/msi/*.msi", Kind: "Windows installer"},
	{Glob: bundleDir + "/nsis/*.exe", Kind: "Windows setup"},
	{Glob: bundleDir + "/dmg/*.dmg", Kind: "macOS disk image"},
	{Glob: bundleDir + "/deb/*.deb", Kind: "Debian package"},
	{Glob: bundleDir + "/appimage/*.AppImage", Kind: "Linux AppImage"},
	{Glob: "src-tauri/target/release/*.exe", Kind: "Portable executable"},
	{Glob: "*.msi", Kind: "Windows installer"},
	{Glob: "*.dmg", Kind: "macOS disk image"},
	{Glob: "*.deb", Kind: "Debian package"},
	{Glob: "*.AppImage", Kind: "Linux AppImage"},
}

var kindByExt = map[string]string{
	".msi":      "Windows installer",
	".exe":      "Windows executable",
	".dmg":      "macOS disk image",
	".deb":      "Debian package",
	".appimage": "Linux AppImage",
	".rpm":      "RPM package",
	".app":      "macOS app bundle",
}

// Artifact is one file found on disk.
type Artifact struct {
	Path    string    `json:"path"`
	Kind    string    `json:"kind"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Name returns the artifact's base file name.
func (a Artifact) Name() string { return filepath.Base(a.Path) }

// PatternsFromGlobs turns configured globs into patterns, deriving the kind
// from the file extension. An empty list yields DefaultPatterns.
func PatternsFromGlobs(globs []string) []Pattern {
	if len(globs) == 0 {
		return DefaultPatterns
	}
	out := make([]Pattern, 0, len(globs))
	for _, g := range globs {
		kind, ok := kindByExt[strings.ToLower(filepath.Ext(g))]
		if !ok {
			kind = "Artifact"
		}
		out = append(out, Pattern{Glob: g, Kind: kind})
	}
	return out
}

// Scan returns the paths matched by DefaultPatterns under baseDir.
func Scan(baseDir string) []string {
	artifacts := ScanArtifacts(baseDir, DefaultPatterns)
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = a.Path
	}
	return paths
}

// ScanArtifacts matches patterns under baseDir. Missing directories and bad
// patterns contribute nothing. Results are unique and sorted by path.
func ScanArtifacts(baseDir string, patterns []Pattern) []Artifact {
	seen := make(map[string]bool)
	var out []Artifact
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(baseDir, filepath.FromSlash(p.Glob)))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			info, err := os.Stat(m)
			if err != nil || (info.IsDir() && !strings.EqualFold(filepath.Ext(m), ".app")) {
				continue
			}
			seen[m] = true
			out = append(out, Artifact{
				Path:    m,
				Kind:    p.Kind,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
