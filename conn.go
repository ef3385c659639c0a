package st7789

import (
	"fmt"
	"slices"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Delayer blocks the calling goroutine for at least d.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a function to a Delayer.
type DelayFunc func(time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

// HostDelay sleeps using the Go runtime timer.
var HostDelay Delayer = DelayFunc(time.Sleep)

// Pins are the optional control lines of the panel. A nil pin, or
// gpio.INVALID, is a line that is not wired; the steps driving it are skipped.
type Pins struct {
	Reset     gpio.PinOut
	Backlight gpio.PinOut
	DC        gpio.PinOut // data/command select: low is command, high is data
	CS        gpio.PinOut // chip select, active low
}

// line is an optional output line. The zero value is an absent line.
type line struct {
	p gpio.PinOut
}

func newLine(p gpio.PinOut) line {
	if p == nil || p == gpio.INVALID {
		return line{}
	}
	return line{p: p}
}

func (l line) present() bool {
	return l.p != nil
}

func (l line) out(level gpio.Level) error {
	if l.p == nil {
		return nil
	}
	return l.p.Out(level)
}

// sendCommands transmits f with the DC line low.
func (d *Dev) sendCommands(f DataFormat) error {
	return d.send(gpio.Low, f)
}

// sendData transmits f with the DC line high.
func (d *Dev) sendData(f DataFormat) error {
	return d.send(gpio.High, f)
}

func (d *Dev) send(dc gpio.Level, f DataFormat) (err error) {
	if d.c == nil {
		return ErrReleased
	}
	if err = d.cs.out(gpio.Low); err != nil {
		return displayError(ErrCS, err)
	}
	if d.cs.present() {
		// Best effort: a failed transfer must not leave the chip selected.
		defer func() { _ = d.cs.out(gpio.High) }()
	}
	if err = d.dc.out(dc); err != nil {
		return displayError(ErrDC, err)
	}
	return encode(d.c, f)
}

func (d *Dev) writeCommand(i Instruction) error {
	b := [1]byte{byte(i)}
	if err := d.sendCommands(U8(b[:])); err != nil {
		return err
	}
	d.log.Debugf("command %s", i)
	return nil
}

func (d *Dev) writeData(data ...byte) error {
	return d.sendData(U8Iter(slices.Values(data)))
}

// command writes i followed by its arguments as one data transmission.
func (d *Dev) command(i Instruction, data ...byte) error {
	if err := d.writeCommand(i); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.writeData(data...)
}

// chunkedConn splits writes larger than the port's transfer limit.
type chunkedConn struct {
	conn.Conn
	batchSize int
}

func newChunkedConn(c conn.Conn) conn.Conn {
	l, ok := c.(conn.Limits)
	if !ok || l.MaxTxSize() <= 0 {
		return c
	}
	return &chunkedConn{Conn: c, batchSize: l.MaxTxSize()}
}

func (c *chunkedConn) String() string {
	return fmt.Sprintf("%s (%d byte chunks)", c.Conn, c.batchSize)
}

func (c *chunkedConn) Tx(w, r []byte) error {
	if len(r) != 0 || len(w) <= c.batchSize {
		return c.Conn.Tx(w, r)
	}
	for len(w) > 0 {
		n := min(len(w), c.batchSize)
		if err := c.Conn.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}
