package pixel

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/BeatGlow/st7789/draw"
)

// Image is a drawable image that can be cleared and filled.
type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values of an image.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

// Bounds returns the image bounding box.
func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image, stored big-endian.
type RGB565Image struct {
	Buffer
}

// NewRGB565Image returns a black image of w by h pixels.
func NewRGB565Image(w, h int) *RGB565Image {
	return &RGB565Image{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, w*2*h),
			Stride: w * 2,
		},
	}
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *RGB565Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return RGB565{binary.BigEndian.Uint16(p.Pix[p.PixOffset(x, y):])}
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	binary.BigEndian.PutUint16(p.Pix[p.PixOffset(x, y):], ToRGB565(c))
}

func (p *RGB565Image) Fill(c color.Color) {
	v := ToRGB565(c)
	hi, lo := byte(v>>8), byte(v)
	w := p.Rect.Dx() * 2
	for y := range p.Rect.Dy() {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for i := 0; i < w; i += 2 {
			row[i], row[i+1] = hi, lo
		}
	}
}

// Clear sets every pixel to black.
func (p *RGB565Image) Clear() {
	w := p.Rect.Dx() * 2
	for y := range p.Rect.Dy() {
		clear(p.Pix[y*p.Stride : y*p.Stride+w])
	}
}

// Opaque reports that every pixel is fully opaque.
func (p *RGB565Image) Opaque() bool {
	return true
}

// SubImage returns an image sharing pixels with p, limited to r.
func (p *RGB565Image) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &RGB565Image{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &RGB565Image{
		Buffer: Buffer{
			Rect:   r,
			Pix:    p.Pix[i:],
			Stride: p.Stride,
		},
	}
}

// Contiguous reports whether the pixels of p are packed without gaps between
// rows, i.e. the first Dx*Dy*2 bytes of Pix are the whole image.
func (p *RGB565Image) Contiguous() bool {
	return p.Stride == p.Rect.Dx()*2 && len(p.Pix) >= p.Stride*p.Rect.Dy()
}

// Interface checks.
var (
	_ Image = (*RGB565Image)(nil)
)
