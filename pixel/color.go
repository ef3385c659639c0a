package pixel

import "image/color"

// RGB565Model converts any color to RGB565.
var RGB565Model color.Model = color.ModelFunc(rgb565Model)

// Named colors.
var (
	Black   = RGB565{0x0000}
	Red     = RGB565{0xF800}
	Green   = RGB565{0x07E0}
	Blue    = RGB565{0x001F}
	Yellow  = RGB565{0xFFE0}
	Magenta = RGB565{0xF81F}
	Cyan    = RGB565{0x07FF}
	White   = RGB565{0xFFFF}
)

// RGB565 represents a 16-bit 5-6-5 RGB color.
type RGB565 struct {
	// Red, 5, Green, 6, Blue, 5
	V uint16
}

// RGB returns the RGB565 color closest to the 8-bit components r, g, b.
func RGB(r, g, b uint8) RGB565 {
	return RGB565{uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3}
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	return RGB565{V: ToRGB565(c)}
}

// ToRGB565 returns the 16-bit RGB565 value of c.
func ToRGB565(c color.Color) uint16 {
	if c, ok := c.(RGB565); ok {
		return c.V
	}
	r, g, b, _ := c.RGBA()
	r = (r & 0xF800)
	g = (g & 0xFC00) >> 5
	b = (b & 0xF800) >> 11
	return uint16(r | g | b)
}
