package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for sources that are not a decodable image.
var ErrUnsupportedFormat = errors.New("texture: unsupported image format")

// Options control how a decoded image is prepared for upload.
type Options struct {
	// FlipY mirrors the image vertically so v=0 samples the bottom row, as WebGL engines do
	// for textures loaded with invertY.
	FlipY bool
	// MaxSize caps the longer edge in pixels; 0 means no limit.
	MaxSize int
}

// Decode reads the image at path and applies opts.
func Decode(path string, opts Options) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return Prepare(img, opts), nil
}

// Prepare applies opts to an already decoded image.
func Prepare(img image.Image, opts Options) image.Image {
	if opts.MaxSize > 0 {
		img = clampSize(img, opts.MaxSize)
	}
	if opts.FlipY {
		img = transform.FlipV(img)
	}
	return img
}

func clampSize(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

var (
	checkerOn  = color.RGBA{255, 0, 255, 255}
	checkerOff = color.RGBA{0, 0, 0, 255}
)

// Checker returns a size x size magenta/black checkerboard with cells squares per edge,
// used in place of a texture that could not be loaded.
func Checker(size, cells int) *image.RGBA {
	if cells < 1 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(1, size/cells)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := checkerOff
			if (x/cell+y/cell)%2 == 0 {
				c = checkerOn
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
