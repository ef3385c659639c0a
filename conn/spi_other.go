//go:build !linux

package conn

import "periph.io/x/conn/v3"

// SPI is an open spidev device.
type SPI struct{}

// OpenSPI is not supported on this platform.
func OpenSPI(_, _ int) (*SPI, error) {
	return nil, ErrNotSupported
}

func (*SPI) Close() error                { return ErrNotSupported }
func (*SPI) String() string              { return "spidev (not supported)" }
func (*SPI) Configure(_ SPIConfig) error { return ErrNotSupported }
func (*SPI) MaxTxSize() int              { return defaultBufSize }
func (*SPI) Duplex() conn.Duplex         { return conn.Full }
func (*SPI) Tx(_, _ []byte) error        { return ErrNotSupported }

var _ conn.Conn = (*SPI)(nil)
