// Package history remembers the last viewed image of recently opened
// directories.
package history

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/rs/zerolog"
)

// Capacity is the maximum number of remembered directories.
const Capacity = 20

// Entry maps a directory to the file last viewed in it.
type Entry struct {
	Dir  string
	File string
}

// Store is a bounded directory → filename mapping ordered by last touch.
// It is not safe for concurrent use.
type Store struct {
	entries *simplelru.LRU[string, string]
	exists  func(dir string) bool
	log     zerolog.Logger
}

// New creates an empty Store holding at most Capacity entries.
func New(log zerolog.Logger) *Store {
	s := &Store{
		exists: dirExists,
		log:    log,
	}
	// NewLRU only fails for a non-positive size.
	s.entries, _ = simplelru.NewLRU[string, string](Capacity, func(dir, file string) {
		s.log.Debug().Str("dir", dir).Str("file", file).Msg("History entry dropped")
	})
	return s
}

// SetExistsFunc replaces the check used to hide vanished directories.
func (s *Store) SetExistsFunc(exists func(dir string) bool) {
	s.exists = exists
}

// Touch records file as the last viewed file of dir and makes dir the most
// recent entry, evicting the least recent one when over capacity.
func (s *Store) Touch(dir, file string) {
	// Add moves an existing key to the front and replaces its value.
	s.entries.Add(filepath.Clean(dir), file)
}

// Lookup returns the last viewed file of dir without changing its recency.
func (s *Store) Lookup(dir string) (string, bool) {
	return s.entries.Peek(filepath.Clean(dir))
}

// Remove forgets dir. It reports whether an entry existed.
func (s *Store) Remove(dir string) bool {
	return s.entries.Remove(filepath.Clean(dir))
}

// Len returns the number of stored entries, including vanished directories.
func (s *Store) Len() int {
	return s.entries.Len()
}

// Entries returns every entry, least recent first. This is the persisted order.
func (s *Store) Entries() []Entry {
	keys := s.entries.Keys()
	result := make([]Entry, 0, len(keys))
	for _, dir := range keys {
		file, _ := s.entries.Peek(dir)
		result = append(result, Entry{Dir: dir, File: file})
	}
	return result
}

// EntriesMostRecentFirst returns the entries whose directories still exist,
// most recent first. Vanished directories stay in the store.
func (s *Store) EntriesMostRecentFirst() []Entry {
	all := s.Entries()
	result := make([]Entry, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if s.exists(all[i].Dir) {
			result = append(result, all[i])
		}
	}
	return result
}

// Restore replaces the contents with entries given least recent first.
// Only the last Capacity entries survive.
func (s *Store) Restore(entries []Entry) {
	s.entries.Purge()
	for _, e := range entries {
		s.Touch(e.Dir, e.File)
	}
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
