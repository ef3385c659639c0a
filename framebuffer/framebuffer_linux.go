package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/sys/unix"

	"github.com/BeatGlow/st7789/internal/ioctl"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// fixScreenInfo is struct fb_fix_screeninfo.
type fixScreenInfo struct {
	ID           [16]byte  // Identification string eg "TT Builtin"
	SmemStart    uintptr   // Start of frame buffer mem
	SmemLen      uint32    // Length of frame buffer mem
	Type         uint32    // FB_TYPE_
	TypeAux      uint32    // Interleave for interleaved Planes
	Visual       uint32    // FB_VISUAL_
	Xpanstep     uint16    // Zero if no hardware panning
	Ypanstep     uint16    // Zero if no hardware panning
	Ywrapstep    uint16    // Zero if no hardware ywrap
	LineLength   uint32    // Length of a line in bytes
	MmioStart    uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen      uint32    // Length of Memory Mapped I/O
	Accel        uint32    // Type of acceleration available
	Capabilities uint16    // FB_CAP_
	Reserved     [2]uint16 // Reserved for future compatibility
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*FrameBuffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("framebuffer: %w", err)
	}

	var (
		fd    = f.Fd()
		finfo fixScreenInfo
		vinfo varScreenInfo
	)
	if err = ioctl.Do(fd, ioctl.Command(fbioGetFScreenInfo), &finfo); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %w", err)
	}
	if err = ioctl.Do(fd, ioctl.Command(fbioGetVScreenInfo), &vinfo); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: %w", err)
	}
	format, err := parseFormat(&vinfo)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	mem, err := unix.Mmap(int(fd), 0, int(finfo.SmemLen), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: mmap: %w", err)
	}

	// Start at the visible (panned) part of the virtual screen.
	start := int(vinfo.Yoffset)*int(finfo.LineLength) + int(vinfo.Xoffset)*format.bytesPerPixel()
	if start > len(mem) {
		_ = unix.Munmap(mem)
		_ = f.Close()
		return nil, fmt.Errorf("framebuffer: offset %d,%d outside of screen memory", vinfo.Xoffset, vinfo.Yoffset)
	}

	return &FrameBuffer{
		pix:    mem[start:],
		rect:   image.Rect(0, 0, int(vinfo.Xres), int(vinfo.Yres)),
		stride: int(finfo.LineLength),
		format: format,
		order:  binary.NativeEndian,
		close: func() error {
			return errors.Join(unix.Munmap(mem), f.Close())
		},
	}, nil
}
