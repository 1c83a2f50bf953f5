package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("pkg"), 0644))
}

func TestScan_MissingDirectories(t *testing.T) {
	assert.Empty(t, Scan(t.TempDir()))
	assert.Empty(t, Scan(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestScan_FindsBundleOutputs(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "src-tauri", "target", "release", "bundle")
	touch(t, filepath.Join(bundle, "dmg", "WeRead_1.0.0_aarch64.dmg"))
	touch(t, filepath.Join(bundle, "deb", "weread_1.0.0_amd64.deb"))
	touch(t, filepath.Join(bundle, "msi", "WeRead_1.0.0_x64_en-US.msi"))
	touch(t, filepath.Join(bundle, "nsis", "WeRead_1.0.0_x64-setup.exe"))
	touch(t, filepath.Join(bundle, "appimage", "we-read_1.0.0_amd64.AppImage"))
	touch(t, filepath.Join(dir, "src-tauri", "target", "release", "pake.exe"))
	touch(t, filepath.Join(dir, "WeRead.dmg"))
	touch(t, filepath.Join(bundle, "dmg", "notes.txt"))

	paths := Scan(dir)
	assert.Len(t, paths, 7)
	for _, p := range paths {
		assert.NotEqual(t, "notes.txt", filepath.Base(p))
	}
	assert.IsIncreasing(t, paths)
}

func TestScanArtifacts_KindAndSize(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Foo.deb"))

	artifacts := ScanArtifacts(dir, DefaultPatterns)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "Debian package", artifacts[0].Kind)
	assert.Equal(t, int64(3), artifacts[0].Size)
	assert.Equal(t, "Foo.deb", artifacts[0].Name())
}

func TestScanArtifacts_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Foo.dmg"))

	patterns := []Pattern{{Glob: "*.dmg", Kind: "a"}, {Glob: "Foo.*", Kind: "b"}}
	artifacts := ScanArtifacts(dir, patterns)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "a", artifacts[0].Kind)
}

func TestScanArtifacts_BadPatternIgnored(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Foo.dmg"))
	artifacts := ScanArtifacts(dir, []Pattern{{Glob: "[", Kind: "x"}, {Glob: "*.dmg", Kind: "y"}})
	assert.Len(t, artifacts, 1)
}

func TestPatternsFromGlobs(t *testing.T) {
	assert.Equal(t, DefaultPatterns, PatternsFromGlobs(nil))

	got := PatternsFromGlobs([]string{"out/*.rpm", "out/*.zip"})
	assert.Equal(t, []Pattern{
		{Glob: "out/*.rpm", Kind: "RPM package"},
		{Glob: "out/*.zip", Kind: "Artifact"},
	}, got)
}

func TestWatch_SignalsOnNewArtifact(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, dir, DefaultPatterns)
	require.NoError(t, err)

	touch(t, filepath.Join(dir, "Foo.dmg"))

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("no signal after creating an artifact")
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Watch(ctx, t.TempDir(), DefaultPatterns)
	require.NoError(t, err)
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
