//go:build linux

// Package ioctl wraps the ioctl system call for the spidev and fbdev drivers.
package ioctl

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mode is the data direction of a request, seen from user space.
type Mode uint8

// Directions, from <asm-generic/ioctl.h>.
const (
	None  Mode = 0
	Write Mode = 1
	Read  Mode = 2
)

// Request field layout.
const (
	numberBits = 16 // type and number
	sizeBits   = 14
	sizeShift  = numberBits
	modeShift  = sizeShift + sizeBits
)

// Command is an encoded ioctl request number.
type Command uintptr

// Encode builds a request from its direction, argument size and the driver's
// type and number (cmd).
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<modeShift |
		Command(size&(1<<sizeBits-1))<<sizeShift |
		Command(cmd&(1<<numberBits-1))
}

// Pointer encodes cmd for an argument of the type v points to.
func Pointer[T any](mode Mode, v *T, cmd uintptr) Command {
	return Encode(mode, uint16(unsafe.Sizeof(*v)), cmd)
}

// Mode returns the data direction.
func (c Command) Mode() Mode {
	return Mode(c >> modeShift & 0x3)
}

// Size returns the argument size in bytes.
func (c Command) Size() int {
	return int(c >> sizeShift & (1<<sizeBits - 1))
}

// Number returns the driver type and number.
func (c Command) Number() uintptr {
	return uintptr(c & (1<<numberBits - 1))
}

func (c Command) String() string {
	var dir []string
	if c.Mode()&Write != 0 {
		dir = append(dir, "write")
	}
	if c.Mode()&Read != 0 {
		dir = append(dir, "read")
	}
	if len(dir) == 0 {
		dir = append(dir, "none")
	}
	return fmt.Sprintf("ioctl %#04x %s (%d bytes)", c.Number(), strings.Join(dir, "/"), c.Size())
}

// Do executes command on fd with v as its argument.
func Do[T any](fd uintptr, command Command, v *T) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(command), uintptr(unsafe.Pointer(v)))
	if errno != 0 {
		return fmt.Errorf("%s: %w", command, errno)
	}
	return nil
}
