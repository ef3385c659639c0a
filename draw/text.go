package draw

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Face is a font face of a given size.
type Face = font.Face

// NewFace parses a TrueType font and returns a face at size points, rendered
// at 72 DPI so one point is one pixel.
func NewFace(ttf []byte, size float64) (Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("draw: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// RegularFace returns the Go Regular font at size points.
func RegularFace(size float64) Face {
	face, err := NewFace(goregular.TTF, size)
	if err != nil {
		panic(err) // embedded font
	}
	return face
}

// MonoFace returns the Go Mono font at size points.
func MonoFace(size float64) Face {
	face, err := NewFace(gomono.TTF, size)
	if err != nil {
		panic(err) // embedded font
	}
	return face
}

// Text draws s with its top left corner at p and returns the rectangle it
// covers.
func Text(dst Image, p image.Point, face Face, c color.Color, s string) image.Rectangle {
	m := face.Metrics()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(p.X, p.Y).Add(fixed.Point26_6{Y: m.Ascent}),
	}
	d.DrawString(s)
	return image.Rectangle{
		Min: p,
		Max: image.Pt(d.Dot.X.Ceil(), p.Y+m.Height.Ceil()),
	}
}

// TextBounds returns the rectangle Text would cover when drawing s at p.
func TextBounds(p image.Point, face Face, s string) image.Rectangle {
	m := face.Metrics()
	w := font.MeasureString(face, s)
	return image.Rectangle{
		Min: p,
		Max: image.Pt(p.X+w.Ceil(), p.Y+m.Height.Ceil()),
	}
}
