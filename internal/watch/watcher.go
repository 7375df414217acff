// Package watch triggers regeneration when the asset tree or a tracked
// configuration file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/assetgen/internal/constants"
	"github.com/wizzomafizzo/assetgen/internal/logging"
)

// Handler runs once per debounce window with the paths that changed in it.
type Handler func(ctx context.Context, changed []string)

// Watcher watches a directory tree and coalesces structural changes.
type Watcher struct {
	fs       afero.Fs
	handler  Handler
	excluded map[string]bool
	files    map[string]bool
	root     string
	window   time.Duration
}

// New creates a watcher for root. fs must be backed by the OS filesystem
// since fsnotify watches real paths; it is used to walk subdirectories.
func New(fs afero.Fs, root string, window time.Duration, handler Handler) *Watcher {
	if window <= 0 {
		window = constants.DefaultDebounce
	}
	return &Watcher{
		fs:       fs,
		root:     filepath.Clean(root),
		window:   window,
		handler:  handler,
		excluded: make(map[string]bool),
		files:    make(map[string]bool),
	}
}

// Exclude ignores events for the given full paths, such as a generated file
// written inside the watched tree.
func (w *Watcher) Exclude(paths ...string) *Watcher {
	for _, p := range paths {
		w.excluded[filepath.Clean(p)] = true
	}
	return w
}

// Files also reports content edits to individual files outside the tree.
// Their parent directories are watched so replace-on-save editors are seen.
func (w *Watcher) Files(paths ...string) *Watcher {
	for _, p := range paths {
		if p != "" {
			w.files[filepath.Clean(p)] = true
		}
	}
	return w
}

// Run blocks until ctx is cancelled, invoking the handler after each quiet
// period. Handlers never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.Get(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	for _, dir := range w.fileDirs() {
		if err := fw.Add(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("failed to watch config directory")
		}
	}
	logger.Debug().Str("root", w.root).Dur("debounce", w.window).Msg("watching asset root")

	timer := time.NewTimer(w.window)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("asset change")

			if event.Has(fsnotify.Create) && w.isDir(event.Name) {
				if err := w.addTree(fw, event.Name); err != nil {
					logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
				}
			}
			pending[event.Name] = true
			timer.Reset(w.window)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			w.handler(ctx, changed)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)
	if w.files[name] {
		return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
			event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.excluded[name] || !w.inTree(name) {
		return false
	}
	return !strings.HasPrefix(filepath.Base(name), ".")
}

func (w *Watcher) inTree(name string) bool {
	return name == w.root || strings.HasPrefix(name, w.root+string(filepath.Separator))
}

// fileDirs lists the sorted parent directories of tracked files.
func (w *Watcher) fileDirs() []string {
	seen := make(map[string]bool, len(w.files))
	dirs := make([]string, 0, len(w.files))
	for f := range w.files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

func (w *Watcher) isDir(path string) bool {
	info, err := w.fs.Stat(path)
	return err == nil && info.IsDir()
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	err := afero.Walk(w.fs, dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			// The directory may vanish between the event and the walk.
			if errors.Is(walkErr, os.ErrNotExist) && path != w.root {
				return nil
			}
			return walkErr
		}
		if !info.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}
