package orient

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// maxIFDs bounds the number of directories walked in one EXIF block.
const maxIFDs = 32

// Sub-directory pointer tags followed by goexif.
const (
	exifIFDPointer    = 0x8769
	gpsIFDPointer     = 0x8825
	interopIFDPointer = 0xA005
)

// tiffTypeSizes holds the byte size of TIFF field types 1 through 12.
var tiffTypeSizes = [...]uint64{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Read extracts the orientation tag from the EXIF block of the JPEG in r.
// The second result is false when the data carries no EXIF, no orientation
// tag or an unreadable one; that is the common case for PNG, GIF and BMP
// files. EXIF blocks whose directories point outside the block are treated
// as absent.
func Read(r io.Reader) (Orientation, bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, false
	}
	block := findExif(data)
	if block == nil || !validTIFF(block) {
		return 0, false
	}

	x, err := exif.Decode(bytes.NewReader(block))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return 0, false
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return Orientation(v), true
}

// findExif returns the TIFF structure of the first Exif APP1 segment of a
// JPEG, or nil. Scanning stops at the start of the image data.
func findExif(data []byte) []byte {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF: // fill byte
			i++
			continue
		case marker == 0xD9 || marker == 0xDA:
			return nil
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			i += 2
			continue
		}
		n := int(binary.BigEndian.Uint16(data[i+2:]))
		if n < 2 || i+2+n > len(data) {
			return nil
		}
		seg := data[i+4 : i+2+n]
		if marker == 0xE1 && bytes.HasPrefix(seg, []byte("Exif\x00\x00")) {
			return seg[6:]
		}
		i += 2 + n
	}
	return nil
}

// tiffWalker checks that every directory and value of a TIFF block lies
// inside the block.
type tiffWalker struct {
	b     []byte
	order binary.ByteOrder
	seen  map[uint32]bool
}

func validTIFF(b []byte) bool {
	if len(b) < 8 {
		return false
	}
	w := &tiffWalker{b: b, seen: make(map[uint32]bool)}
	switch string(b[:4]) {
	case "II*\x00":
		w.order = binary.LittleEndian
	case "MM\x00*":
		w.order = binary.BigEndian
	default:
		return false
	}
	return w.dir(w.order.Uint32(b[4:8]))
}

// dir walks the directory chain starting at off and every sub-directory it
// points to. Cycles are rejected.
func (w *tiffWalker) dir(off uint32) bool {
	size := uint64(len(w.b))
	for off != 0 {
		if w.seen[off] || len(w.seen) >= maxIFDs {
			return false
		}
		w.seen[off] = true

		start := uint64(off)
		if start+2 > size {
			return false
		}
		n := uint64(w.order.Uint16(w.b[start:]))
		end := start + 2 + n*12
		if end+4 > size {
			return false
		}

		for i := uint64(0); i < n; i++ {
			e := w.b[start+2+i*12 : start+14+i*12]
			tag := w.order.Uint16(e)
			typ := w.order.Uint16(e[2:])
			count := uint64(w.order.Uint32(e[4:]))
			if typ == 0 || int(typ) >= len(tiffTypeSizes) {
				return false
			}
			length := count * tiffTypeSizes[typ]
			if length > 4 && uint64(w.order.Uint32(e[8:]))+length > size {
				return false
			}

			switch tag {
			case exifIFDPointer, gpsIFDPointer, interopIFDPointer:
				if typ != 4 || count != 1 { // a single LONG offset
					return false
				}
				if !w.dir(w.order.Uint32(e[8:])) {
					return false
				}
			}
		}

		off = w.order.Uint32(w.b[end:])
	}
	return true
}
