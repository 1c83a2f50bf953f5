package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch signals on the returned channel whenever a directory that can hold
// artifacts changes. Signals are coalesced: a slow reader sees one pending
// signal, not one per event. Directories that do not exist yet are picked up
// as their parents gain entries. The channel closes when ctx is done.
func Watch(ctx context.Context, baseDir string, patterns []Pattern) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dirs := watchDirs(baseDir, patterns)
	addExisting(w, baseDir, dirs)

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Create) {
					addExisting(w, baseDir, dirs)
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}

// watchDirs returns the directories named by the patterns' globs.
func watchDirs(baseDir string, patterns []Pattern) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range patterns {
		dir := filepath.Join(baseDir, filepath.Dir(filepath.FromSlash(p.Glob)))
		if strings.ContainsAny(dir, "*?[") || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// addExisting watches each target dir, or its nearest existing ancestor
// inside baseDir so creation of the target is observed.
func addExisting(w *fsnotify.Watcher, baseDir string, dirs []string) {
	base := filepath.Clean(baseDir)
	for _, d := range dirs {
		for cur := filepath.Clean(d); ; cur = filepath.Dir(cur) {
			if info, err := os.Stat(cur); err == nil && info.IsDir() {
				_ = w.Add(cur)
				break
			}
			if cur == base || cur == filepath.Dir(cur) || !strings.HasPrefix(cur, base) {
				break
			}
		}
	}
}
