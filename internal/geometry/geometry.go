// Package geometry keeps a restored window reachable on the current displays.
package geometry

import "image"

// Reconcile returns a window position for a window of the given size.
// If the persisted rectangle overlaps any display it is kept as is.
// Otherwise the position is clamped into the primary display (displays[primary])
// so the whole window is reachable. With no displays, pos is returned.
func Reconcile(pos, size image.Point, displays []image.Rectangle, primary int) image.Point {
	window := image.Rectangle{Min: pos, Max: pos.Add(size)}
	for _, d := range displays {
		// Overlaps uses half-open intervals on both axes.
		if window.Overlaps(d) {
			return pos
		}
	}

	if primary < 0 || primary >= len(displays) {
		return pos
	}
	p := displays[primary]
	return image.Point{
		X: clamp(pos.X, p.Min.X, p.Max.X-size.X),
		Y: clamp(pos.Y, p.Min.Y, p.Max.Y-size.Y),
	}
}

// clamp limits v to [lo, hi]. When the window is larger than the display
// (hi < lo) the low edge wins so the title bar stays visible.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
