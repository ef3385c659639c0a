// Package draw has shape and text primitives for drawing on images.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an image that can be drawn on.
type Image = draw.Image

// Op is a Porter-Duff compositing operator.
type Op = draw.Op

// Compositing operators.
const (
	Over = draw.Over
	Src  = draw.Src
)

// Draw composes src, aligned at sp, onto the r part of dst.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.Draw(dst, r, src, sp, op)
}

// Fill sets every pixel of dst to c.
func Fill(dst Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, Src)
}
