// Package framebuffer reads the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system. An opened
// [FrameBuffer] is a live, read-only [image.Image] view of the screen memory,
// suitable as the source of a draw onto another display.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/st7789/pixel"
)

var ErrNotSupported = errors.New("framebuffer: not supported")

// Format is the memory layout of a pixel.
type Format uint8

// Supported formats.
const (
	FormatUnknown  Format = iota
	FormatRGB565          // 16 bit, red in the high bits
	FormatBGR565          // 16 bit, blue in the high bits
	FormatXRGB8888        // 32 bit, blue in the low byte
	FormatXBGR8888        // 32 bit, red in the low byte
)

func (f Format) String() string {
	switch f {
	case FormatRGB565:
		return "RGB565"
	case FormatBGR565:
		return "BGR565"
	case FormatXRGB8888:
		return "XRGB8888"
	case FormatXBGR8888:
		return "XBGR8888"
	default:
		return "unknown"
	}
}

// bytesPerPixel returns the pixel size in memory.
func (f Format) bytesPerPixel() int {
	switch f {
	case FormatRGB565, FormatBGR565:
		return 2
	case FormatXRGB8888, FormatXBGR8888:
		return 4
	default:
		return 0
	}
}

// bitField describes a color channel, struct fb_bitfield.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

func (f bitField) is(offset, length uint32) bool {
	return f.Offset == offset && f.Length == length && f.MsbRight == 0
}

// varScreenInfo is struct fb_var_screeninfo.
type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}

func parseFormat(info *varScreenInfo) (Format, error) {
	switch info.BitsPerPixel {
	case 16:
		switch {
		case info.Red.is(11, 5) && info.Green.is(5, 6) && info.Blue.is(0, 5):
			return FormatRGB565, nil
		case info.Blue.is(11, 5) && info.Green.is(5, 6) && info.Red.is(0, 5):
			return FormatBGR565, nil
		}
	case 32:
		switch {
		case info.Red.is(16, 8) && info.Green.is(8, 8) && info.Blue.is(0, 8):
			return FormatXRGB8888, nil
		case info.Blue.is(16, 8) && info.Green.is(8, 8) && info.Red.is(0, 8):
			return FormatXBGR8888, nil
		}
	}
	return FormatUnknown, fmt.Errorf("framebuffer: unsupported color model (%d bpp, red %d/%d, green %d/%d, blue %d/%d)",
		info.BitsPerPixel,
		info.Red.Offset, info.Red.Length,
		info.Green.Offset, info.Green.Length,
		info.Blue.Offset, info.Blue.Length)
}

// FrameBuffer is a read-only view of a framebuffer device.
type FrameBuffer struct {
	pix    []byte
	rect   image.Rectangle
	stride int
	format Format
	order  binary.ByteOrder
	close  func() error
}

// Format returns the pixel format of the screen memory.
func (fb *FrameBuffer) Format() Format {
	return fb.format
}

func (fb *FrameBuffer) Bounds() image.Rectangle {
	return fb.rect
}

func (fb *FrameBuffer) ColorModel() color.Model {
	switch fb.format {
	case FormatRGB565, FormatBGR565:
		return pixel.RGB565Model
	default:
		return color.RGBAModel
	}
}

func (fb *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(fb.rect) {
		return color.Transparent
	}
	i := y*fb.stride + x*fb.format.bytesPerPixel()
	if i+fb.format.bytesPerPixel() > len(fb.pix) {
		return color.Transparent
	}
	switch fb.format {
	case FormatRGB565:
		return pixel.RGB565{V: fb.order.Uint16(fb.pix[i:])}
	case FormatBGR565:
		v := fb.order.Uint16(fb.pix[i:])
		return pixel.RGB565{V: v<<11 | v&0x07E0 | v>>11}
	case FormatXRGB8888:
		v := fb.order.Uint32(fb.pix[i:])
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	case FormatXBGR8888:
		v := fb.order.Uint32(fb.pix[i:])
		return color.RGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 0xff}
	default:
		return color.Black
	}
}

// Opaque reports that every pixel is fully opaque.
func (fb *FrameBuffer) Opaque() bool {
	return true
}

// Close unmaps the screen memory and closes the device. The frame buffer is
// empty afterwards.
func (fb *FrameBuffer) Close() error {
	if fb.close == nil {
		return nil
	}
	err := fb.close()
	fb.close, fb.pix, fb.rect = nil, nil, image.Rectangle{}
	return err
}
