// Package session holds the navigation state of the viewer: the ordered image
// set of the current directory, the current index and the position history.
//
// A Session is not safe for concurrent use. Every method must be called from
// the UI control thread.
package session

import (
	"math"
	"path/filepath"

	"github.com/rs/zerolog"

	"dirview/internal/frame"
	"dirview/internal/history"
)

// State is the navigation state.
type State int

const (
	Empty   State = iota // no images loaded
	Ready                // image set non-empty, index valid
	Loading              // a navigation step is in progress
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Ready:
		return "Ready"
	case Loading:
		return "Loading"
	default:
		return "Unknown"
	}
}

// Collator builds the ordered image set of a directory.
type Collator interface {
	Collate(dir string, includeSubfolders bool) ([]string, error)
	HasSubfolders(dir string) (bool, error)
}

// Presenter receives what should be on screen. Notifications may be called
// while the session is Loading; any navigation requested from inside them is
// ignored.
type Presenter interface {
	ShowFrame(f *frame.Frame)
	Clear()
	NotifyMissingFile(path string, err error)
	NotifyUnreadable(dir string, err error)
}

// Session is the navigation state machine.
type Session struct {
	collator  Collator
	decoder   frame.Decoder
	history   *history.Store
	presenter Presenter
	log       zerolog.Logger

	state   State
	root    string
	include bool
	images  []string
	index   int
	current *frame.Frame

	pending *Request

	suppressMissingFileWarning bool
}

// New creates an Empty session.
func New(c Collator, d frame.Decoder, h *history.Store, p Presenter, log zerolog.Logger) *Session {
	return &Session{
		collator:  c,
		decoder:   d,
		history:   h,
		presenter: p,
		log:       log,
		state:     Empty,
	}
}

// LoadDirectory replaces the image set with the images of dir and displays the
// starting image. The starting image is target when it is part of the new set,
// else the position remembered for dir, else the first image. target may be
// absolute or relative to dir. Calls made while Loading are ignored.
//
// The returned error is non-nil only when dir cannot be listed; the session is
// then Empty.
func (s *Session) LoadDirectory(dir, target string, includeSubfolders bool) error {
	if s.state == Loading {
		s.log.Debug().Str("dir", dir).Msg("Load ignored while loading")
		return nil
	}
	s.pending = nil
	s.Commit()

	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	root = filepath.Clean(root)

	images, err := s.collator.Collate(root, includeSubfolders)
	if err != nil {
		s.log.Warn().Err(err).Str("dir", root).Msg("Cannot read directory")
		s.clear()
		s.presenter.NotifyUnreadable(root, err)
		return err
	}
	if len(images) == 0 {
		s.log.Info().Str("dir", root).Msg("No images in directory")
		s.clear()
		return nil
	}

	s.root = root
	s.include = includeSubfolders
	s.images = images
	s.current = nil

	index := -1
	if target != "" {
		index = s.indexOf(target)
	}
	if index < 0 {
		if last, ok := s.history.Lookup(root); ok {
			index = s.indexOf(last)
		}
	}
	if index < 0 {
		index = 0
	}

	s.log.Info().
		Str("dir", root).
		Bool("subfolders", includeSubfolders).
		Int("images", len(images)).
		Int("index", index).
		Msg("Directory loaded")

	s.index = index
	s.state = Ready
	s.Commit()
	s.show(index)
	return nil
}

// MoveIndex steps delta images with wraparound. It reports whether a frame is
// on screen afterwards. It is a no-op unless the session is Ready.
func (s *Session) MoveIndex(delta int) bool {
	if s.state != Ready {
		return false
	}
	n := len(s.images)
	return s.show(((s.index+delta)%n + n) % n)
}

// JumpToFraction displays the image at floor(f*(len-1)), f clamped to [0,1].
// It is a no-op unless the session is Ready.
func (s *Session) JumpToFraction(f float64) bool {
	if s.state != Ready {
		return false
	}
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	n := len(s.images)
	index := int(math.Floor(f * float64(n-1)))
	if index < 0 {
		index = 0
	} else if index > n-1 {
		index = n - 1
	}
	return s.show(index)
}

// Revalidate decodes the current index again so that a file removed behind
// the session's back goes through missing-file recovery.
func (s *Session) Revalidate() bool {
	if s.state != Ready {
		return false
	}
	return s.show(s.index)
}

// Commit records the current position in the history.
func (s *Session) Commit() {
	if s.state == Empty || len(s.images) == 0 {
		return
	}
	s.history.Touch(s.root, s.relative(s.images[s.index]))
}

// show decodes images[target] and hands it to the presenter. Images that fail
// to decode are dropped from the set and the same index is retried, clamped to
// the new end. The loop ends because the set shrinks on every failure.
func (s *Session) show(target int) bool {
	s.state = Loading
	for len(s.images) > 0 {
		if target > len(s.images)-1 {
			target = len(s.images) - 1
		}
		s.index = target
		path := s.images[target]

		f, err := s.decoder.Decode(path)
		if err == nil {
			s.current = f.WithPosition(target, len(s.images))
			s.state = Ready
			s.Commit()
			s.presenter.ShowFrame(s.current)
			return true
		}

		s.log.Warn().Err(err).Str("path", path).Msg("Dropping image")
		if !s.suppressMissingFileWarning {
			s.presenter.NotifyMissingFile(path, err)
		}
		s.images = append(s.images[:target:target], s.images[target+1:]...)
	}

	s.log.Info().Str("dir", s.root).Msg("No displayable images left")
	s.clear()
	return false
}

func (s *Session) clear() {
	s.state = Empty
	s.root = ""
	s.include = false
	s.images = nil
	s.index = 0
	s.current = nil
	s.presenter.Clear()
}

func (s *Session) indexOf(name string) int {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	path = filepath.Clean(path)
	for i, p := range s.images {
		if p == path {
			return i
		}
	}
	return -1
}

func (s *Session) relative(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}

// State returns the current navigation state.
func (s *Session) State() State { return s.state }

// Index returns the 0-based current index. It is meaningless when Empty.
func (s *Session) Index() int { return s.index }

// Len returns the size of the image set.
func (s *Session) Len() int { return len(s.images) }

// Root returns the navigation root, or "" when Empty.
func (s *Session) Root() string { return s.root }

// IncludesSubfolders reports whether the image set spans subfolders.
func (s *Session) IncludesSubfolders() bool { return s.include }

// Current returns the frame on screen, or nil.
func (s *Session) Current() *frame.Frame { return s.current }

// Images returns a copy of the image set.
func (s *Session) Images() []string {
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// Dirs returns the distinct directories the image set was built from.
func (s *Session) Dirs() []string {
	if s.state == Empty {
		return nil
	}
	seen := map[string]bool{s.root: true}
	dirs := []string{s.root}
	for _, p := range s.images {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Progress returns the 1-based position and the total, or 0, 0 when Empty.
func (s *Session) Progress() (int, int) {
	if s.state == Empty {
		return 0, 0
	}
	return s.index + 1, len(s.images)
}

// Title returns the display string of the current frame.
func (s *Session) Title() string {
	if s.current == nil {
		return frame.EmptyTitle
	}
	return s.current.Title()
}

// Info returns the title plus the orientation applied to the current frame.
func (s *Session) Info() string {
	if s.current == nil {
		return frame.EmptyTitle
	}
	return s.current.Info()
}

// CurrentPath returns the path of the current image, or "" when Empty.
func (s *Session) CurrentPath() string {
	if s.state == Empty || len(s.images) == 0 {
		return ""
	}
	return s.images[s.index]
}

// SuppressMissingFileWarning reports whether missing-file notices are muted.
func (s *Session) SuppressMissingFileWarning() bool { return s.suppressMissingFileWarning }

// SetSuppressMissingFileWarning mutes or unmutes missing-file notices.
func (s *Session) SetSuppressMissingFileWarning(v bool) { s.suppressMissingFileWarning = v }
