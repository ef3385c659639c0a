package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points, both included.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// Polyline draws connected line segments through points.
func Polyline(dst Image, points []image.Point, c color.Color) {
	switch len(points) {
	case 0:
	case 1:
		dst.Set(points[0].X, points[0].Y, c)
	default:
		for i := 1; i < len(points); i++ {
			Line(dst, points[i-1], points[i], c)
		}
	}
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	if w <= 0 {
		return
	}
	bresenham(dst, x, y, x+w-1, y, c)
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	if h <= 0 {
		return
	}
	bresenham(dst, x, y, x, y+h-1, c)
}

// Rectangle draws the outline of rect. Max is exclusive, as everywhere in
// package image.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	var (
		x, y = rect.Min.X, rect.Min.Y
		w, h = rect.Dx(), rect.Dy()
	)
	HorizontalLine(dst, x, y, w, c)
	HorizontalLine(dst, x, y+h-1, w, c)
	VerticalLine(dst, x, y, h, c)
	VerticalLine(dst, x+w-1, y, h, c)
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	Draw(dst, rect.Canon(), image.NewUniform(c), image.Point{}, Src)
}

// bresenham draws from (x1,y1) to (x2,y2) with integer steps only.
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	// Drawing p1 -> p2 is the same as p2 -> p1, so only handle increasing x.
	if x1 > x2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx, dy := x2-x1, y2-y1
	sy := 1
	if dy < 0 {
		dy, sy = -dy, -1
	}

	switch {
	case dx == 0 && dy == 0:
		dst.Set(x1, y1, c)

	case dx >= dy:
		e, slope := dx, 2*dx
		dy *= 2
		for ; dx != 0; dx-- {
			dst.Set(x1, y1, c)
			x1++
			if e -= dy; e < 0 {
				y1 += sy
				e += slope
			}
		}
		dst.Set(x2, y2, c)

	default:
		e, slope := dy, 2*dy
		dx *= 2
		for ; dy != 0; dy-- {
			dst.Set(x1, y1, c)
			y1 += sy
			if e -= dx; e < 0 {
				x1++
				e += slope
			}
		}
		dst.Set(x2, y2, c)
	}
}
