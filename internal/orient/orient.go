// Package orient turns decoded pixels upright according to the EXIF
// orientation tag (0x0112).
package orient

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Orientation is an EXIF orientation value.
type Orientation int

// EXIF orientation values. Rotations are counter-clockwise.
const (
	Normal     Orientation = 1
	FlipH      Orientation = 2
	Rotate180  Orientation = 3
	FlipV      Orientation = 4
	Transpose  Orientation = 5 // rotate 270, then flip horizontally
	Rotate270  Orientation = 6
	Transverse Orientation = 7 // rotate 90, then flip horizontally
	Rotate90   Orientation = 8
)

func (o Orientation) String() string {
	switch o {
	case Normal:
		return "normal"
	case FlipH:
		return "flip horizontal"
	case Rotate180:
		return "rotate 180"
	case FlipV:
		return "flip vertical"
	case Transpose:
		return "transpose"
	case Rotate270:
		return "rotate 270"
	case Transverse:
		return "transverse"
	case Rotate90:
		return "rotate 90"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Correct returns img transformed so that it displays upright for the given
// orientation. Normal and unrecognized values return img unchanged.
func Correct(img image.Image, o Orientation) image.Image {
	switch o {
	case FlipH:
		return imaging.FlipH(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case FlipV:
		return imaging.FlipV(img)
	case Transpose:
		return imaging.FlipH(imaging.Rotate270(img))
	case Rotate270:
		return imaging.Rotate270(img)
	case Transverse:
		return imaging.FlipH(imaging.Rotate90(img))
	case Rotate90:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
