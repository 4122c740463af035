package main

import (
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DirectoryWatcher reports removals and renames of files in a set of
// directories. Events are delivered on Removed and are meant to be drained
// from the Update loop.
type DirectoryWatcher struct {
	watcher *fsnotify.Watcher
	dirs    []string
	removed chan string
	log     zerolog.Logger
}

// NewDirectoryWatcher starts an fsnotify watcher with no directories.
func NewDirectoryWatcher(log zerolog.Logger) (*DirectoryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &DirectoryWatcher{
		watcher: watcher,
		removed: make(chan string, 16),
		log:     log,
	}
	go w.watchLoop()
	return w, nil
}

// Watch replaces the watched set with dirs.
func (w *DirectoryWatcher) Watch(dirs []string) {
	next := make([]string, 0, len(dirs))
	for _, d := range dirs {
		next = append(next, filepath.Clean(d))
	}
	slices.Sort(next)
	if slices.Equal(next, w.dirs) {
		return
	}

	for _, d := range w.dirs {
		_ = w.watcher.Remove(d)
	}
	w.dirs = w.dirs[:0]
	for _, d := range next {
		if err := w.watcher.Add(d); err != nil {
			w.log.Warn().Err(err).Str("dir", d).Msg("Cannot watch directory")
			continue
		}
		w.dirs = append(w.dirs, d)
	}
	w.log.Debug().Strs("dirs", w.dirs).Msg("Watching directories")
}

// Removed delivers the paths of files that were removed or renamed away.
func (w *DirectoryWatcher) Removed() <-chan string {
	return w.removed
}

// Close stops the watcher.
func (w *DirectoryWatcher) Close() error {
	return w.watcher.Close()
}

func (w *DirectoryWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.removed <- filepath.Clean(event.Name):
			default:
				// The Update loop revalidates the current image on the
				// next event anyway.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("Directory watcher error")
		}
	}
}
