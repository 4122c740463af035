package session

import (
	"fmt"
	"os"
	"path/filepath"

	"dirview/internal/collate"
)

// SubfolderChoice is the answer to "include the subfolders of dir?".
type SubfolderChoice int

const (
	Exclude SubfolderChoice = iota
	Include
	Defer // ask the user; the load waits for ResolvePending
)

// SubfolderPolicy is consulted only for directories that have subfolders.
type SubfolderPolicy func(dir string) SubfolderChoice

// Fixed policies
var (
	AlwaysInclude SubfolderPolicy = func(string) SubfolderChoice { return Include }
	NeverInclude  SubfolderPolicy = func(string) SubfolderChoice { return Exclude }
	AskUser       SubfolderPolicy = func(string) SubfolderChoice { return Defer }
)

// Request is a load waiting for a subfolder decision.
type Request struct {
	Dir    string
	Target string
}

// ResolveDrop maps a dropped path to the directory to load and the file to
// start at. A directory yields no target.
func ResolveDrop(path string) (Request, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s: %v", collate.ErrDirectoryUnreadable, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %s: %v", collate.ErrDirectoryUnreadable, abs, err)
	}
	if info.IsDir() {
		return Request{Dir: abs}, nil
	}
	return Request{Dir: filepath.Dir(abs), Target: filepath.Base(abs)}, nil
}

// OnDrop loads the dropped directory, or the parent of a dropped file starting
// at that file. Drops of more than one path are ignored.
func (s *Session) OnDrop(paths []string, policy SubfolderPolicy) error {
	if len(paths) != 1 {
		s.log.Debug().Int("paths", len(paths)).Msg("Ignoring multi-path drop")
		return nil
	}
	if s.state == Loading {
		return nil
	}
	req, err := ResolveDrop(paths[0])
	if err != nil {
		s.log.Warn().Err(err).Msg("Cannot resolve dropped path")
		s.presenter.NotifyUnreadable(paths[0], err)
		return err
	}
	return s.request(req, policy)
}

// OnHistorySelect loads dir; its remembered position is restored.
func (s *Session) OnHistorySelect(dir string, policy SubfolderPolicy) error {
	if s.state == Loading {
		return nil
	}
	return s.request(Request{Dir: dir}, policy)
}

// OnHistoryDelete forgets dir. When dir is the directory on screen the image
// set is cleared as well.
func (s *Session) OnHistoryDelete(dir string) bool {
	dir = filepath.Clean(dir)
	removed := s.history.Remove(dir)
	if s.state != Empty && dir == s.root {
		s.log.Info().Str("dir", dir).Msg("Current directory removed from history")
		s.clear()
	}
	return removed
}

func (s *Session) request(req Request, policy SubfolderPolicy) error {
	include := false
	if policy != nil {
		has, err := s.collator.HasSubfolders(req.Dir)
		if err == nil && has {
			switch policy(req.Dir) {
			case Include:
				include = true
			case Defer:
				s.pending = &req
				return nil
			}
		}
	}
	return s.LoadDirectory(req.Dir, req.Target, include)
}

// Pending returns the load waiting for a subfolder decision, if any.
func (s *Session) Pending() (Request, bool) {
	if s.pending == nil {
		return Request{}, false
	}
	return *s.pending, true
}

// ResolvePending runs the waiting load with the user's answer.
func (s *Session) ResolvePending(includeSubfolders bool) error {
	if s.pending == nil {
		return nil
	}
	req := *s.pending
	s.pending = nil
	return s.LoadDirectory(req.Dir, req.Target, includeSubfolders)
}

// CancelPending drops the waiting load.
func (s *Session) CancelPending() {
	s.pending = nil
}
