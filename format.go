package st7789

import (
	"encoding/binary"
	"iter"
	"math/bits"
	"unsafe"

	"periph.io/x/conn/v3"
)

// Iterator buffer sizes in bytes.
const (
	u8IterBufferSize  = 32
	u16IterBufferSize = 64
)

// DataFormat is the source of a command or data transmission. It is one of
// U8, U16, U16LE, U16BE, U8Iter, U16LEIter or U16BEIter.
type DataFormat interface {
	dataFormat()
}

// U8 is a byte slice, sent as is.
type U8 []byte

// U16 is a slice of 16-bit words, sent in host byte order.
type U16 []uint16

// U16LE is a slice of 16-bit words sent little-endian.
//
// The words are converted in place: after the transmission the slice holds
// the little-endian representation of the original values.
type U16LE []uint16

// U16BE is a slice of 16-bit words sent big-endian.
//
// The words are converted in place: after the transmission the slice holds
// the big-endian representation of the original values.
type U16BE []uint16

// U8Iter is a finite sequence of bytes. A nil sequence is empty, as for the
// 16-bit iterators.
type U8Iter iter.Seq[byte]

// U16LEIter is a finite sequence of 16-bit words sent little-endian.
type U16LEIter iter.Seq[uint16]

// U16BEIter is a finite sequence of 16-bit words sent big-endian.
type U16BEIter iter.Seq[uint16]

func (U8) dataFormat()        {}
func (U16) dataFormat()       {}
func (U16LE) dataFormat()     {}
func (U16BE) dataFormat()     {}
func (U8Iter) dataFormat()    {}
func (U16LEIter) dataFormat() {}
func (U16BEIter) dataFormat() {}

var hostLittleEndian = binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 0x0001

func toLE(v uint16) uint16 {
	if hostLittleEndian {
		return v
	}
	return bits.ReverseBytes16(v)
}

func toBE(v uint16) uint16 {
	if hostLittleEndian {
		return bits.ReverseBytes16(v)
	}
	return v
}

// wordBytes returns the memory of s as bytes, without copying.
func wordBytes(s []uint16) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*2)
}

func write(c conn.Conn, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := c.Tx(b, nil); err != nil {
		return displayError(ErrBusWrite, err)
	}
	return nil
}

// encode writes every element of f to c, in order.
func encode(c conn.Conn, f DataFormat) error {
	switch f := f.(type) {
	case U8:
		return write(c, f)

	case U16:
		return write(c, wordBytes(f))

	case U16LE:
		for i, v := range f {
			f[i] = toLE(v)
		}
		return write(c, wordBytes(f))

	case U16BE:
		for i, v := range f {
			f[i] = toBE(v)
		}
		return write(c, wordBytes(f))

	case U8Iter:
		if f == nil {
			return nil
		}
		var (
			buf [u8IterBufferSize]byte
			n   int
		)
		for v := range f {
			buf[n] = v
			if n++; n == len(buf) {
				if err := write(c, buf[:]); err != nil {
					return err
				}
				n = 0
			}
		}
		return write(c, buf[:n])

	case U16LEIter:
		return encodeWords(c, iter.Seq[uint16](f), binary.LittleEndian)

	case U16BEIter:
		return encodeWords(c, iter.Seq[uint16](f), binary.BigEndian)

	default:
		return displayError(ErrFormatNotImplemented, nil)
	}
}

func encodeWords(c conn.Conn, seq iter.Seq[uint16], order binary.ByteOrder) error {
	if seq == nil {
		return nil
	}
	var (
		buf [u16IterBufferSize]byte
		n   int
	)
	for v := range seq {
		order.PutUint16(buf[n:], v)
		if n += 2; n == len(buf) {
			if err := write(c, buf[:]); err != nil {
				return err
			}
			n = 0
		}
	}
	return write(c, buf[:n])
}
