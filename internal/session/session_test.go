package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirview/internal/collate"
	"dirview/internal/frame"
	"dirview/internal/history"
)

// statDecoder succeeds for every file that exists.
type statDecoder struct {
	calls []string
}

func (d *statDecoder) Decode(path string) (*frame.Frame, error) {
	d.calls = append(d.calls, path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", frame.ErrMissingFile, path)
	}
	return &frame.Frame{Path: path}, nil
}

type recorder struct {
	shown      []string
	clears     int
	missing    []string
	unreadable []string
	onMissing  func()
}

func (r *recorder) ShowFrame(f *frame.Frame) { r.shown = append(r.shown, f.Path) }
func (r *recorder) Clear() { r.clears++ }
func (r *recorder) NotifyMissingFile(path string, err error) {
	r.missing = append(r.missing, path)
	if r.onMissing != nil {
		r.onMissing()
	}
}
func (r *recorder) NotifyUnreadable(dir string, err error) {
	r.unreadable = append(r.unreadable, dir)
}

func (r *recorder) last() string {
	if len(r.shown) == 0 {
		return ""
	}
	return r.shown[len(r.shown)-1]
}

type fixture struct {
	s       *Session
	rec     *recorder
	dec     *statDecoder
	history *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &recorder{}
	dec := &statDecoder{}
	h := history.New(zerolog.Nop())
	s := New(collate.New(zerolog.Nop()), dec, h, rec, zerolog.Nop())
	return &fixture{s: s, rec: rec, dec: dec, history: h}
}

func makeDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	return dir
}

func TestNewSessionIsEmpty(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Empty, f.s.State())
	assert.Equal(t, frame.EmptyTitle, f.s.Title())
	assert.Equal(t, frame.EmptyTitle, f.s.Info())
	assert.False(t, f.s.MoveIndex(1))
	assert.False(t, f.s.JumpToFraction(0.5))
	assert.False(t, f.s.Revalidate())
	assert.Empty(t, f.dec.calls)

	cur, total := f.s.Progress()
	assert.Zero(t, cur)
	assert.Zero(t, total)
}

func TestLoadDirectoryShowsFirstImage(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "img10.png", "img2.png", "img1.png", "notes.txt")

	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	assert.Equal(t, Ready, f.s.State())
	assert.Equal(t, []string{
		filepath.Join(dir, "img1.png"),
		filepath.Join(dir, "img2.png"),
		filepath.Join(dir, "img10.png"),
	}, f.s.Images())
	assert.Equal(t, 0, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "img1.png"), f.rec.last())

	file, ok := f.history.Lookup(dir)
	require.True(t, ok)
	assert.Equal(t, "img1.png", file)

	require.NotNil(t, f.s.Current())
	assert.Equal(t, 3, f.s.Current().Total)
}

func TestMoveIndexWrapsAround(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "1.png", "2.png", "3.png", "4.png", "5.png")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	require.True(t, f.s.MoveIndex(-1))
	assert.Equal(t, 4, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "5.png"), f.rec.last())

	require.True(t, f.s.MoveIndex(1))
	assert.Equal(t, 0, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "1.png"), f.rec.last())

	require.True(t, f.s.MoveIndex(1))
	assert.Equal(t, 1, f.s.Index())
	assert.Equal(t, Ready, f.s.State())

	file, _ := f.history.Lookup(dir)
	assert.Equal(t, "2.png", file)
}

func TestLoadDirectoryResumesFromHistory(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	f.history.Touch(dir, "b.jpg")

	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	assert.Equal(t, 1, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "b.jpg"), f.rec.last())
}

func TestLoadDirectoryStartIndex(t *testing.T) {
	tests := []struct {
		name    string
		history string
		target  string
		want    int
	}{
		{"target wins over history", "b.jpg", "c.jpg", 2},
		{"absent target falls back to history", "b.jpg", "zzz.jpg", 1},
		{"stale history falls back to first", "gone.jpg", "", 0},
		{"no history", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
			if tt.history != "" {
				f.history.Touch(dir, tt.history)
			}

			require.NoError(t, f.s.LoadDirectory(dir, tt.target, false))
			assert.Equal(t, tt.want, f.s.Index())
		})
	}
}

func TestLoadDirectoryCommitsPreviousPosition(t *testing.T) {
	f := newFixture(t)
	first := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	second := makeDir(t, "x.png")

	require.NoError(t, f.s.LoadDirectory(first, "", false))
	require.True(t, f.s.JumpToFraction(1))
	require.NoError(t, f.s.LoadDirectory(second, "", false))

	file, ok := f.history.Lookup(first)
	require.True(t, ok)
	assert.Equal(t, "c.jpg", file)

	entries := f.history.EntriesMostRecentFirst()
	require.Len(t, entries, 2)
	assert.Equal(t, second, entries[0].Dir)
	assert.Equal(t, first, entries[1].Dir)

	require.NoError(t, f.s.LoadDirectory(first, "", false))
	assert.Equal(t, 2, f.s.Index())
}

func TestMissingFileRecovery(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	require.NoError(t, f.s.LoadDirectory(dir, "b.jpg", false))

	require.NoError(t, os.Remove(filepath.Join(dir, "c.jpg")))
	require.True(t, f.s.MoveIndex(1))

	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}, f.s.Images())
	assert.Equal(t, 1, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "b.jpg"), f.rec.last())
	assert.Equal(t, []string{filepath.Join(dir, "c.jpg")}, f.rec.missing)
	assert.Equal(t, Ready, f.s.State())
	assert.Equal(t, 2, f.s.Current().Total)
}

func TestRevalidateDropsDeletedCurrentImage(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	require.NoError(t, f.s.LoadDirectory(dir, "c.jpg", false))
	require.Equal(t, 2, f.s.Index())

	require.NoError(t, os.Remove(filepath.Join(dir, "c.jpg")))
	require.True(t, f.s.Revalidate())

	assert.Equal(t, 2, f.s.Len())
	assert.Equal(t, 1, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "b.jpg"), f.rec.last())
}

func TestRecoverySkipsConsecutiveMissingFiles(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "1.png", "2.png", "3.png", "4.png")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	require.NoError(t, os.Remove(filepath.Join(dir, "2.png")))
	require.NoError(t, os.Remove(filepath.Join(dir, "3.png")))
	require.True(t, f.s.MoveIndex(1))

	assert.Equal(t, 1, f.s.Index())
	assert.Equal(t, filepath.Join(dir, "4.png"), f.rec.last())
	assert.Len(t, f.rec.missing, 2)
}

func TestRecoveryEmptiesSession(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg", "b.jpg")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	require.NoError(t, os.Remove(filepath.Join(dir, "a.jpg")))
	require.NoError(t, os.Remove(filepath.Join(dir, "b.jpg")))
	assert.False(t, f.s.MoveIndex(1))

	assert.Equal(t, Empty, f.s.State())
	assert.Zero(t, f.s.Len())
	assert.Equal(t, 1, f.rec.clears)
	assert.Nil(t, f.s.Current())
	assert.Equal(t, frame.EmptyTitle, f.s.Title())
	assert.False(t, f.s.MoveIndex(1))
}

func TestSuppressedMissingFileWarning(t *testing.T) {
	f := newFixture(t)
	f.s.SetSuppressMissingFileWarning(true)
	dir := makeDir(t, "a.jpg", "b.jpg")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	require.NoError(t, os.Remove(filepath.Join(dir, "b.jpg")))
	f.s.MoveIndex(1)

	assert.Empty(t, f.rec.missing)
	assert.Equal(t, 1, f.s.Len())
}

func TestNavigationIgnoredWhileLoading(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")
	other := makeDir(t, "z.png")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	var states []State
	var moved, jumped bool
	f.rec.onMissing = func() {
		states = append(states, f.s.State())
		moved = f.s.MoveIndex(1)
		jumped = f.s.JumpToFraction(0)
		require.NoError(t, f.s.LoadDirectory(other, "", false))
		require.NoError(t, f.s.OnDrop([]string{other}, nil))
	}

	require.NoError(t, os.Remove(filepath.Join(dir, "b.jpg")))
	require.True(t, f.s.MoveIndex(1))

	assert.Equal(t, []State{Loading}, states)
	assert.False(t, moved)
	assert.False(t, jumped)
	assert.Equal(t, dir, f.s.Root())
	assert.Equal(t, filepath.Join(dir, "c.jpg"), f.rec.last())
	assert.Equal(t, 1, f.s.Index())
}

func TestJumpToFraction(t *testing.T) {
	tests := []struct {
		f    float64
		want int
	}{
		{0, 0},
		{0.5, 2},
		{0.99, 3},
		{1, 4},
		{-0.5, 0},
		{3, 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.f), func(t *testing.T) {
			f := newFixture(t)
			dir := makeDir(t, "1.png", "2.png", "3.png", "4.png", "5.png")
			require.NoError(t, f.s.LoadDirectory(dir, "", false))

			require.True(t, f.s.JumpToFraction(tt.f))
			assert.Equal(t, tt.want, f.s.Index())
		})
	}
}

func TestUnreadableDirectory(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "a.jpg")
	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	missing := filepath.Join(t.TempDir(), "nope")
	err := f.s.LoadDirectory(missing, "", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, collate.ErrDirectoryUnreadable))
	assert.Equal(t, Empty, f.s.State())
	assert.Equal(t, []string{missing}, f.rec.unreadable)
	assert.Equal(t, 1, f.rec.clears)
}

func TestEmptyDirectory(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "readme.txt")

	require.NoError(t, f.s.LoadDirectory(dir, "", false))

	assert.Equal(t, Empty, f.s.State())
	assert.Equal(t, 1, f.rec.clears)
	assert.Zero(t, f.history.Len())
}

func TestOnDrop(t *testing.T) {
	dir := makeDir(t, "a.jpg", "b.jpg", "c.jpg")

	t.Run("file", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnDrop([]string{filepath.Join(dir, "c.jpg")}, NeverInclude))
		assert.Equal(t, dir, f.s.Root())
		assert.Equal(t, 2, f.s.Index())
	})

	t.Run("directory", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnDrop([]string{dir}, NeverInclude))
		assert.Equal(t, dir, f.s.Root())
		assert.Equal(t, 0, f.s.Index())
	})

	t.Run("multiple paths ignored", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnDrop([]string{dir, filepath.Join(dir, "a.jpg")}, NeverInclude))
		assert.Equal(t, Empty, f.s.State())
		assert.Empty(t, f.dec.calls)
	})

	t.Run("nonexistent path", func(t *testing.T) {
		f := newFixture(t)
		err := f.s.OnDrop([]string{filepath.Join(dir, "nope")}, NeverInclude)
		assert.True(t, errors.Is(err, collate.ErrDirectoryUnreadable))
		assert.Len(t, f.rec.unreadable, 1)
	})
}

func TestSubfolderPolicies(t *testing.T) {
	dir := makeDir(t, "top.png", "sub/inner.png")

	t.Run("never", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnHistorySelect(dir, NeverInclude))
		assert.Equal(t, 1, f.s.Len())
		assert.False(t, f.s.IncludesSubfolders())
	})

	t.Run("always", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnHistorySelect(dir, AlwaysInclude))
		assert.Equal(t, 2, f.s.Len())
		assert.True(t, f.s.IncludesSubfolders())
		assert.Equal(t, []string{dir, filepath.Join(dir, "sub")}, f.s.Dirs())
	})

	t.Run("ask then answer", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnDrop([]string{filepath.Join(dir, "sub", "inner.png")}, AskUser))

		// sub has no subfolders of its own, so nothing is asked.
		assert.Equal(t, Ready, f.s.State())

		require.NoError(t, f.s.OnHistorySelect(dir, AskUser))
		req, ok := f.s.Pending()
		require.True(t, ok)
		assert.Equal(t, dir, req.Dir)
		assert.Equal(t, filepath.Join(dir, "sub"), f.s.Root())

		require.NoError(t, f.s.ResolvePending(true))
		_, ok = f.s.Pending()
		assert.False(t, ok)
		assert.Equal(t, dir, f.s.Root())
		assert.Equal(t, 2, f.s.Len())
	})

	t.Run("cancel", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.s.OnHistorySelect(dir, AskUser))
		f.s.CancelPending()
		require.NoError(t, f.s.ResolvePending(true))
		assert.Equal(t, Empty, f.s.State())
	})
}

func TestSubfolderImageRememberedRelative(t *testing.T) {
	f := newFixture(t)
	dir := makeDir(t, "top.png", "sub/inner.png")
	require.NoError(t, f.s.LoadDirectory(dir, "", true))
	require.True(t, f.s.MoveIndex(1))

	file, ok := f.history.Lookup(dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("sub", "inner.png"), file)

	require.NoError(t, f.s.LoadDirectory(dir, "", true))
	assert.Equal(t, 1, f.s.Index())
}

func TestOnHistoryDelete(t *testing.T) {
	f := newFixture(t)
	current := makeDir(t, "a.jpg")
	other := makeDir(t, "b.jpg")
	f.history.Touch(other, "b.jpg")
	require.NoError(t, f.s.LoadDirectory(current, "", false))

	assert.True(t, f.s.OnHistoryDelete(other))
	assert.Equal(t, Ready, f.s.State())
	assert.Equal(t, 0, f.rec.clears)

	assert.True(t, f.s.OnHistoryDelete(current))
	assert.Equal(t, Empty, f.s.State())
	assert.Equal(t, 1, f.rec.clears)
	assert.Zero(t, f.history.Len())

	assert.False(t, f.s.OnHistoryDelete(current))
}
