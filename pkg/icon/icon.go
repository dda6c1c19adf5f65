// Package icon holds the RGBA pixel data shown next to icon menu items.
package icon

import (
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"

	// formats accepted by Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrBadIcon is returned when pixel data does not describe a valid icon.
var ErrBadIcon = errors.New("bad icon")

// Icon is an immutable 32-bit RGBA image, row-major, non-premultiplied.
type Icon struct {
	rgba   []byte
	width  int
	height int
}

// FromRGBA copies rgba into a new icon. len(rgba) must be width*height*4.
func FromRGBA(rgba []byte, width, height int) (*Icon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrBadIcon, width, height)
	}
	if len(rgba)%4 != 0 {
		return nil, fmt.Errorf("%w: byte count %d is not a multiple of 4", ErrBadIcon, len(rgba))
	}
	if want := width * height * 4; len(rgba) != want {
		return nil, fmt.Errorf("%w: %d bytes, expected %d for %dx%d", ErrBadIcon, len(rgba), want, width, height)
	}
	buf := make([]byte, len(rgba))
	copy(buf, rgba)
	return &Icon{rgba: buf, width: width, height: height}, nil
}

// FromImage converts any image to an icon.
func FromImage(img image.Image) (*Icon, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrBadIcon)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Icon{rgba: dst.Pix, width: b.Dx(), height: b.Dy()}, nil
}

// Decode reads a PNG, GIF or JPEG image.
func Decode(r io.Reader) (*Icon, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadIcon, err)
	}
	return FromImage(img)
}

// Width returns the width in pixels.
func (i *Icon) Width() int { return i.width }

// Height returns the height in pixels.
func (i *Icon) Height() int { return i.height }

// RGBA returns a copy of the pixel data.
func (i *Icon) RGBA() []byte {
	out := make([]byte, len(i.rgba))
	copy(out, i.rgba)
	return out
}

// Image returns the icon as an *image.NRGBA sharing no memory with the icon.
func (i *Icon) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.RGBA(),
		Stride: i.width * 4,
		Rect:   image.Rect(0, 0, i.width, i.height),
	}
}

// Resize returns the icon scaled to width x height. The receiver is returned
// unchanged when it already has that size.
func (i *Icon) Resize(width, height int) (*Icon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrBadIcon, width, height)
	}
	if width == i.width && height == i.height {
		return i, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), i.Image(), image.Rect(0, 0, i.width, i.height), draw.Src, nil)
	return &Icon{rgba: dst.Pix, width: width, height: height}, nil
}
