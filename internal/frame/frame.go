// Package frame decodes one image file into an upright RGB bitmap together
// with the metadata shown next to it.
package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/bmp"

	"dirview/internal/orient"
)

// MaxPixels is the largest image area decoded. Larger headers are rejected
// before any pixel buffer is allocated.
const MaxPixels = 178956970

// EmptyTitle is the display string used when no image is loaded.
const EmptyTitle = "No images loaded"

var (
	// ErrMissingFile means the path no longer exists at decode time.
	ErrMissingFile = errors.New("file missing")
	// ErrUnsupportedImage means the file exists but cannot be decoded.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")
)

// weekdayNames are the localized weekday abbreviations, indexed by time.Weekday.
var weekdayNames = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// Frame is one decoded image ready for display.
type Frame struct {
	Image   *image.RGBA
	Path    string
	ModTime time.Time
	Size    int64

	// Orientation is only meaningful when HasOrientation is true.
	Orientation    orient.Orientation
	HasOrientation bool

	// Index is 0-based; Total is the size of the image set it was shown from.
	Index int
	Total int
}

// WithPosition returns a copy of f placed at index of total.
func (f *Frame) WithPosition(index, total int) *Frame {
	c := *f
	c.Index = index
	c.Total = total
	return &c
}

// Title returns "folder - file - timestamp - i/n".
func (f *Frame) Title() string {
	folder := filepath.Base(filepath.Dir(f.Path))
	return fmt.Sprintf("%s - %s - %s - %d/%d",
		folder, filepath.Base(f.Path), FormatTimestamp(f.ModTime), f.Index+1, f.Total)
}

// Info returns the title followed by the EXIF orientation that was applied.
func (f *Frame) Info() string {
	if !f.HasOrientation || f.Orientation == orient.Normal {
		return f.Title()
	}
	return fmt.Sprintf("%s - EXIF %s", f.Title(), f.Orientation)
}

// FormatTimestamp formats t as "2006/01/02(曜) 15:04:05" in local time.
func FormatTimestamp(t time.Time) string {
	t = t.Local()
	return fmt.Sprintf("%s(%s) %s", t.Format("2006/01/02"), weekdayNames[t.Weekday()], t.Format("15:04:05"))
}

// Decoder decodes image files into frames.
type Decoder interface {
	Decode(path string) (*Frame, error)
}

// FileDecoder reads frames straight from disk.
type FileDecoder struct{}

// NewFileDecoder creates a FileDecoder.
func NewFileDecoder() *FileDecoder {
	return &FileDecoder{}
}

// Decode opens path, decodes it, applies its EXIF orientation if any and
// normalizes the pixels to opaque RGB. It fails with ErrMissingFile when the
// file is gone and ErrUnsupportedImage when it cannot be decoded.
func (d *FileDecoder) Decode(path string) (*Frame, error) {
	info, err := statImage(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, path, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupportedImage, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrUnsupportedImage, path, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupportedImage, path, err)
	}

	f := &Frame{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	if o, ok := orient.Read(bytes.NewReader(data)); ok {
		img = orient.Correct(img, o)
		f.Orientation = o
		f.HasOrientation = true
	}
	f.Image = toRGB(img)

	return f, nil
}

// statImage classifies a path before decoding.
func statImage(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedImage, path)
	}
	return info, nil
}
