package frame

import (
	"image"

	"github.com/disintegration/imaging"
)

// toRGB converts img to an opaque bitmap with a zero origin. Alpha is
// discarded rather than composited, so transparent pixels keep their color.
func toRGB(img image.Image) *image.RGBA {
	n := imaging.Clone(img)
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	// With every alpha at 0xff, NRGBA and premultiplied RGBA share a layout.
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
