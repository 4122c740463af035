package main

import (
	"bytes"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source for overlays
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// newFace returns a face of the global font at size.
func newFace(size float64) *text.GoTextFace {
	return &text.GoTextFace{
		Source: globalFontSource,
		Size:   size,
	}
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// fitScale returns the scale that fits an iw×ih image into w×h. Small images
// are not enlarged unless fullscreen is set.
func fitScale(iw, ih, w, h int, fullscreen bool) float64 {
	if iw <= 0 || ih <= 0 || w <= 0 || h <= 0 {
		return 1
	}
	fit := math.Min(float64(w)/float64(iw), float64(h)/float64(ih))
	if fullscreen || iw > w || ih > h {
		return fit
	}
	return 1
}

// truncateMiddle shortens s to at most max runes, keeping both ends.
func truncateMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 5 {
		return s
	}
	head := (max - 3) / 2
	tail := max - 3 - head
	return string(r[:head]) + "..." + string(r[len(r)-tail:])
}
