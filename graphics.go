package st7789

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/BeatGlow/st7789/draw"
	"github.com/BeatGlow/st7789/pixel"
)

// ColorModel returns pixel.RGB565Model, the native 16-bit color of the
// controller.
func (d *Dev) ColorModel() color.Model {
	return pixel.RGB565Model
}

// Bounds returns the visible area given at construction.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(d.width), int(d.height))
}

// Draw copies src, aligned at sp, to the r part of the display. Pixels
// outside of the display are dropped.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	clipped := r.Intersect(d.Bounds())
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(r.Min))
	r = clipped

	var (
		w, h = r.Dx(), r.Dy()
		data []byte
	)
	if img, ok := src.(*pixel.RGB565Image); ok && img.Contiguous() &&
		img.Rect == (image.Rectangle{Min: sp, Max: sp.Add(r.Size())}) {
		data = img.Pix[:w*h*2]
	} else {
		buf := pixel.NewRGB565Image(w, h)
		draw.Draw(buf, buf.Bounds(), src, sp, draw.Src)
		data = buf.Pix
	}
	return d.BlitPixels(uint16(r.Min.X), uint16(r.Min.Y), uint16(w), uint16(h), data)
}

// Clear fills the display with a single color.
func (d *Dev) Clear(c color.Color) error {
	if d.width == 0 || d.height == 0 {
		return nil
	}
	var (
		v = pixel.ToRGB565(c)
		n = int(d.width) * int(d.height)
	)
	return d.SetPixels(0, 0, d.width-1, d.height-1, func(yield func(uint16) bool) {
		for range n {
			if !yield(v) {
				return
			}
		}
	})
}

// Halt turns the display output off.
func (d *Dev) Halt() error {
	return d.Show(false)
}

var _ display.Drawer = (*Dev)(nil)
