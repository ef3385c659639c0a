package conn

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"periph.io/x/conn/v3"

	"github.com/BeatGlow/st7789/internal/ioctl"
)

const (
	spiDevPath = "/dev/spidev"
	bufSizPath = "/sys/module/spidev/parameters/bufsiz"
)

const (
	spiIOCMessage     = 0x6b00
	spiIOCMode        = 0x6b01
	spiIOCBitsPerWord = 0x6b03
	spiIOCMaxSpeedHz  = 0x6b04
)

// spiIOCTransfer is struct spi_ioc_transfer.
type spiIOCTransfer struct {
	txBuf          uint64
	rxBuf          uint64
	length         uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNbits        uint8
	rxNbits        uint8
	wordDelayUsecs uint8
	_              uint8
}

// SPI is an open spidev device.
type SPI struct {
	f           *os.File
	fd          uintptr
	name        string
	mode        SPIMode
	bitsPerWord uint8
	maxSpeedHz  uint32
	maxTxSize   int
}

// OpenSPI opens the numbered spi bus with the numbered device. The device often corresponds to the CS pin for that bus.
func OpenSPI(bus, device int) (*SPI, error) {
	name := fmt.Sprintf("%s%d.%d", spiDevPath, bus, device)
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("conn: %w", err)
	}

	c := &SPI{
		f:         f,
		fd:        f.Fd(),
		name:      name,
		maxTxSize: defaultBufSize,
	}
	if b, err := os.ReadFile(bufSizPath); err == nil {
		c.maxTxSize = parseBufSize(b)
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.mode, spiIOCMode), &c.mode); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.bitsPerWord, spiIOCBitsPerWord), &c.bitsPerWord); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.maxSpeedHz, spiIOCMaxSpeedHz), &c.maxSpeedHz); err != nil {
		_ = f.Close()
		return nil, err
	}

	return c, nil
}

func (c *SPI) Close() error {
	return c.f.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("%s mode=%d bits per word=%d max speed=%dHz", c.name, c.mode, c.bitsPerWord, c.maxSpeedHz)
}

// Configure applies cfg to the bus.
func (c *SPI) Configure(cfg SPIConfig) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := c.setMode(cfg.Mode); err != nil {
		return err
	}
	if err := c.setBitsPerWord(cfg.BitsPerWord); err != nil {
		return err
	}
	return c.setMaxSpeed(cfg.MaxSpeedHz)
}

func (c *SPI) setMode(mode SPIMode) error {
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &mode, spiIOCMode), &mode); err != nil {
		return err
	}

	var test SPIMode
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &test, spiIOCMode), &test); err != nil {
		return err
	}
	if test&0x03 != mode {
		return fmt.Errorf("conn: SPI attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	c.mode = mode
	return nil
}

func (c *SPI) setBitsPerWord(bits uint8) error {
	if c.bitsPerWord != bits {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &bits, spiIOCBitsPerWord), &bits); err != nil {
			return err
		}
		c.bitsPerWord = bits
	}
	return nil
}

func (c *SPI) setMaxSpeed(hz uint32) error {
	if hz != 0 && c.maxSpeedHz != hz {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &hz, spiIOCMaxSpeedHz), &hz); err != nil {
			return err
		}
		c.maxSpeedHz = hz
	}
	return nil
}

// MaxTxSize is the largest transfer spidev accepts in one call.
func (c *SPI) MaxTxSize() int {
	return c.maxTxSize
}

// Duplex implements conn.Conn.
func (c *SPI) Duplex() conn.Duplex {
	return conn.Full
}

// Tx writes w and, when r is not empty, reads len(r) bytes at the same time.
// Writes larger than MaxTxSize are split.
func (c *SPI) Tx(w, r []byte) error {
	if len(r) == 0 {
		for len(w) > 0 {
			n, err := c.f.Write(w[:min(len(w), c.maxTxSize)])
			if err != nil {
				return fmt.Errorf("conn: %w", err)
			}
			w = w[n:]
		}
		return nil
	}
	if len(w) != len(r) {
		return fmt.Errorf("conn: SPI write and read buffers must have the same size, got %d and %d", len(w), len(r))
	}
	for len(w) > 0 {
		n := min(len(w), c.maxTxSize)
		if err := c.transfer(w[:n], r[:n]); err != nil {
			return err
		}
		w, r = w[n:], r[n:]
	}
	return nil
}

func (c *SPI) transfer(w, r []byte) error {
	xfer := spiIOCTransfer{
		txBuf:       uint64(uintptr(unsafe.Pointer(&w[0]))),
		rxBuf:       uint64(uintptr(unsafe.Pointer(&r[0]))),
		length:      uint32(len(w)),
		speedHz:     c.maxSpeedHz,
		bitsPerWord: c.bitsPerWord,
	}
	err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &xfer, spiIOCMessage), &xfer)
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	return err
}

var _ conn.Conn = (*SPI)(nil)
