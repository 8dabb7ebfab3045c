package main

import (
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// shouldReloadConfig reports whether an fsnotify event warrants a config reload.
//
// Parameters:
//   - configPaths: Cleaned absolute paths of the config file (link and target).
//   - event: Filesystem event to evaluate.
//
// Returns:
//   - bool: True if the event should trigger a reload.
func shouldReloadConfig(configPaths []string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range configPaths {
		if name == p {
			return true
		}
		// Some editors write via temp + rename, resulting in partial paths.
		if filepath.Base(name) == filepath.Base(p) {
			return true
		}
	}
	return false
}

// resolveWatchPaths returns the absolute config path and, if it is a symlink,
// the file it points to. sxhkdrc files are often symlinked from a dotfiles repo,
// where the edits actually happen.
//
// Parameters:
//   - configPath: Path to the config file.
//
// Returns:
//   - link: Cleaned absolute config path.
//   - target: Resolved symlink target, or "" if configPath is not a symlink.
func resolveWatchPaths(configPath string) (link, target string) {
	link = filepath.Clean(configPath)
	if abs, err := filepath.Abs(link); err == nil {
		link = abs
	}
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil || resolved == link {
		return link, ""
	}
	return link, resolved
}

// startConfigWatcherWithNotifier watches configPath and calls notify once a burst
// of changes has settled.
//
// Parameters:
//   - configPath: Full path to the config file.
//   - notify: Called from the watcher goroutine after each debounced change.
//
// Returns:
//   - *fsnotify.Watcher: A watcher the caller should close when done.
//   - error: Non-nil if the watcher cannot be created or a directory cannot be watched.
func startConfigWatcherWithNotifier(configPath string, notify func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	link, target := resolveWatchPaths(configPath)
	paths := []string{link}
	if target != "" {
		paths = append(paths, target)
	}

	// Watching the directory survives editors that replace the file.
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close() //nolint:errcheck
			return nil, err
		}
		dirs = append(dirs, dir)
	}

	go func() {
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !shouldReloadConfig(paths, event) {
					continue
				}
				slog.Debug("Config change detected", "event", event.String())
				if timer == nil {
					timer = time.AfterFunc(reloadDebounce, notify)
				} else {
					timer.Reset(reloadDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Config watcher error", "err", err)
			}
		}
	}()
	return watcher, nil
}
