package main

import (
	"io/fs"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// namedFile is implemented by *os.File. The dropped file system hands out the
// real files, so Name recovers the path the user dropped.
type namedFile interface {
	Name() string
}

// droppedPaths lists the real paths behind the top-level entries of a dropped
// file system. Entries whose path cannot be recovered are skipped.
func droppedPaths(fsys fs.FS) []string {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		f, err := fsys.Open(entry.Name())
		if err != nil {
			continue
		}
		if nf, ok := f.(namedFile); ok {
			paths = append(paths, filepath.Clean(nf.Name()))
		}
		f.Close()
	}
	return paths
}

// handleDrop loads whatever was dropped on the window during this tick.
func (g *Game) handleDrop() {
	dropped := ebiten.DroppedFiles()
	if dropped == nil {
		return
	}
	paths := droppedPaths(dropped)
	g.log.Debug().Strs("paths", paths).Msg("Files dropped")
	if len(paths) == 0 {
		return
	}
	g.historyMenu = nil
	g.drop(paths)
}
