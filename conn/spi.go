// Package conn is a raw Linux spidev bus.
//
// It is an alternative to the periph host drivers for kernels and boards
// they do not know about. An opened [SPI] implements periph's conn.Conn, so it
// can be handed to st7789.New directly.
package conn

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Definitions from <spi/spidev.h>
const (
	spiCPHA = 0x01
	spiCPOL = 0x02
)

// SPIMode is the clock polarity and phase.
type SPIMode uint8

const (
	SPIMode0 SPIMode = (0 | 0)             //nolint:staticcheck
	SPIMode1 SPIMode = (0 | spiCPHA)       //nolint:staticcheck
	SPIMode2 SPIMode = (spiCPOL | 0)       //nolint:staticcheck
	SPIMode3 SPIMode = (spiCPOL | spiCPHA) //nolint:staticcheck
)

// ErrNotSupported is returned when spidev is not available on this platform.
var ErrNotSupported = errors.New("conn: spidev not supported")

// defaultBufSize is the spidev transfer limit when the module parameter can
// not be read.
const defaultBufSize = 4096

// SPIConfig is the bus configuration applied by Configure.
type SPIConfig struct {
	Mode        SPIMode
	BitsPerWord uint8
	MaxSpeedHz  uint32
}

// DefaultSPIConfig suits ST7789 panels.
var DefaultSPIConfig = SPIConfig{
	Mode:        SPIMode3,
	BitsPerWord: 8,
	MaxSpeedHz:  40_000_000,
}

func (cfg SPIConfig) validate() error {
	if cfg.Mode > SPIMode3 {
		return fmt.Errorf("conn: SPI mode %d is invalid", cfg.Mode)
	}
	if cfg.BitsPerWord < 8 || cfg.BitsPerWord > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", cfg.BitsPerWord)
	}
	return nil
}

// parseBufSize parses the contents of /sys/module/spidev/parameters/bufsiz.
func parseBufSize(b []byte) int {
	n, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil || n <= 0 {
		return defaultBufSize
	}
	return n
}
