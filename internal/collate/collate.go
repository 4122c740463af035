// Package collate builds the ordered image set of a directory.
package collate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ErrDirectoryUnreadable is returned when the navigation root cannot be listed.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// supportedExts is the set of extensions shown by the viewer.
var supportedExts = map[string]bool{
	".png": true,
	".xpm": true,
	".gif": true,
	".bmp": true,
	".jpg": true,
}

// IsSupportedExt reports whether path has one of the supported image extensions.
func IsSupportedExt(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// Collator scans directories for supported image files.
type Collator struct {
	log zerolog.Logger
}

// New creates a Collator that logs skipped subfolders to log.
func New(log zerolog.Logger) *Collator {
	return &Collator{log: log}
}

// Collate returns the absolute, cleaned paths of the images in dir in natural
// order. With includeSubfolders, the images of each immediate subfolder are
// appended after the parent's, in directory enumeration order. It never goes
// deeper than one level.
func (c *Collator) Collate(dir string, includeSubfolders bool) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}
	root = filepath.Clean(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, root, err)
	}

	images := imagesIn(root, entries)
	if !includeSubfolders {
		return images, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(root, entry.Name())
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			c.log.Warn().Err(err).Str("dir", sub).Msg("Skipping unreadable subfolder")
			continue
		}
		images = append(images, imagesIn(sub, subEntries)...)
	}

	return images, nil
}

// HasSubfolders reports whether dir contains at least one directory entry.
func (c *Collator) HasSubfolders(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return true, nil
		}
	}
	return false, nil
}

func imagesIn(dir string, entries []os.DirEntry) []string {
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSupportedExt(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	sorted := SortNames(names)
	paths := make([]string, 0, len(sorted))
	for _, name := range sorted {
		paths = append(paths, filepath.Clean(filepath.Join(dir, name)))
	}
	return paths
}
