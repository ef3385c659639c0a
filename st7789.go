// Package st7789 drives ST7789 TFT LCD controllers over SPI.
//
// The driver turns pixel and command calls into the byte stream the
// controller expects and sequences the reset, backlight, data/command and
// chip select lines around it. Every call is synchronous; a Dev must not be
// used from more than one goroutine at a time, and no other code may drive
// its bus or lines while it is in use.
//
// Datasheet: https://www.rhydolabz.com/documents/33/ST7789.pdf
package st7789

import (
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var debug bool

func init() {
	debug = os.Getenv("ST7789_DEBUG") != ""
}

// Settle delays.
const (
	pinSettle      = 10 * time.Microsecond
	backlightDelay = 10 * time.Millisecond
	swResetDelay   = 150 * time.Millisecond
	commandDelay   = 10 * time.Millisecond
)

// BacklightState is the state of the backlight line.
type BacklightState bool

// Backlight states.
const (
	BacklightOff BacklightState = false
	BacklightOn  BacklightState = true
)

// TearingEffect configures the tearing effect output line.
type TearingEffect uint8

// Tearing effect modes.
const (
	TearingOff                   TearingEffect = iota // TE line disabled
	TearingVertical                                   // V-blank only
	TearingHorizontalAndVertical                      // V-blank and H-blank
)

// Opts is the configuration used by NewSPI.
type Opts struct {
	// Width and Height of the visible area in pixels.
	Width, Height uint16

	// Speed of the SPI bus.
	Speed physic.Frequency

	// Flags are combined with spi.Mode3, the clock mode of the controller,
	// for example spi.NoCS or spi.HalfDuplex. Clock mode bits are ignored.
	Flags spi.Mode

	// Logger receives debug output. Defaults to a logrus logger that is
	// verbose when ST7789_DEBUG is set.
	Logger logrus.FieldLogger
}

// DefaultOpts are the options for the common 240x240 1.3" panels.
var DefaultOpts = Opts{
	Width:  240,
	Height: 240,
	Speed:  40 * physic.MegaHertz,
}

// Dev is an open handle to an ST7789 controller.
type Dev struct {
	c   conn.Conn
	rst line
	bl  line
	dc  line
	cs  line
	log logrus.FieldLogger

	// Visible size, fixed at construction.
	width, height uint16

	orientation    Orientation
	xStart, yStart uint16
}

// NewSPI connects to the controller on p. The display is not initialized,
// call Init before drawing.
func NewSPI(p spi.Port, pins Pins, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = new(Opts)
		*opts = DefaultOpts
	}
	var (
		w, h  = opts.Width, opts.Height
		speed = opts.Speed
	)
	if w == 0 {
		w = DefaultOpts.Width
	}
	if h == 0 {
		h = DefaultOpts.Height
	}
	if speed == 0 {
		speed = DefaultOpts.Speed
	}
	c, err := p.Connect(speed, spi.Mode3|opts.Flags&^spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("st7789: %w", err)
	}
	d := New(newChunkedConn(c), pins, w, h)
	if opts.Logger != nil {
		d.SetLogger(opts.Logger)
	}
	return d, nil
}

// New returns a driver writing to c. No I/O is performed.
func New(c conn.Conn, pins Pins, width, height uint16) *Dev {
	d := &Dev{
		c:      c,
		rst:    newLine(pins.Reset),
		bl:     newLine(pins.Backlight),
		dc:     newLine(pins.DC),
		cs:     newLine(pins.CS),
		log:    defaultLogger(),
		width:  width,
		height: height,
	}
	d.orientation = Portrait
	d.xStart, d.yStart = Portrait.offset(height)
	return d
}

func defaultLogger() logrus.FieldLogger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l.WithField("device", "st7789")
}

// SetLogger replaces the logger receiving the debug output.
func (d *Dev) SetLogger(l logrus.FieldLogger) {
	d.log = l
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%s, %dx%d}", d.c, d.width, d.height)
}

// Init hard resets the controller, engages the backlight and runs the power
// on register program. A failed Init must be retried from the start.
func (d *Dev) Init(delay Delayer) error {
	if d.c == nil {
		return ErrReleased
	}
	d.log.Debugf("init %dx%d", d.width, d.height)
	if err := d.HardReset(delay); err != nil {
		return err
	}
	if d.bl.present() {
		if err := d.bl.out(gpio.Low); err != nil {
			return &PinError{Line: "backlight", Err: err}
		}
		delay.Delay(backlightDelay)
		if err := d.bl.out(gpio.High); err != nil {
			return &PinError{Line: "backlight", Err: err}
		}
	}

	for _, step := range []struct {
		i     Instruction
		data  []byte
		delay time.Duration
	}{
		{SWRESET, nil, swResetDelay},
		{RAMWR, nil, commandDelay},
		{SLPOUT, nil, commandDelay},
		{INVOFF, nil, 0},
		{VSCRDER, []byte{0x00, 0x00, 0x14, 0x00, 0x00, 0x00}, 0},
		{MADCTL, []byte{byte(Portrait)}, 0},
		{COLMOD, []byte{0x55}, 0}, // 16 bit/pixel, 65K colors
		{INVON, nil, commandDelay},
		{NORON, nil, commandDelay},
		{DISPON, nil, commandDelay},
		{PORCTRL, []byte{0x0C, 0x0C, 0x00, 0x33, 0x33}, commandDelay},
		{GCTRL, []byte{0x35}, commandDelay},
		{VCOMS, []byte{0x37}, commandDelay},
		{LCMCTRL, []byte{0x2C}, commandDelay},
		{VDVVRHEN, []byte{0x01}, commandDelay},
		{VRHS, []byte{0x12}, commandDelay},
		{VDVS, []byte{0x20}, commandDelay},
		{FRCTRL2, []byte{0x0F}, commandDelay}, // 60Hz
		{PWCTRL1, []byte{0xA4, 0xA1}, commandDelay},
		{PVGAMCTRL, []byte{0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F, 0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23}, commandDelay},
		{NVGAMCTRL, []byte{0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F, 0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23}, commandDelay},
		{INVON, nil, commandDelay},
		{DISPON, nil, commandDelay},
	} {
		if err := d.command(step.i, step.data...); err != nil {
			return err
		}
		if step.i == MADCTL {
			d.setOrientation(Portrait)
		}
		if step.delay > 0 {
			delay.Delay(step.delay)
		}
	}
	return nil
}

// HardReset pulses the reset line. Without a reset line it does nothing.
func (d *Dev) HardReset(delay Delayer) error {
	if !d.rst.present() {
		return nil
	}
	for _, level := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := d.rst.out(level); err != nil {
			return &PinError{Line: "reset", Err: err}
		}
		delay.Delay(pinSettle)
	}
	return nil
}

// SetBacklight switches the backlight. Without a backlight line it does
// nothing.
func (d *Dev) SetBacklight(state BacklightState, delay Delayer) error {
	if d.c == nil {
		return ErrReleased
	}
	if !d.bl.present() {
		return nil
	}
	if err := d.bl.out(gpio.Level(state)); err != nil {
		return &PinError{Line: "backlight", Err: err}
	}
	delay.Delay(pinSettle)
	return nil
}

// SetPixel sets the pixel at (x, y) to an RGB565 color. Coordinates are not
// checked against the panel size.
func (d *Dev) SetPixel(x, y uint16, color uint16) error {
	if err := d.setAddressWindow(x, y, x, y); err != nil {
		return err
	}
	if err := d.writeCommand(RAMWR); err != nil {
		return err
	}
	return d.sendData(U16BEIter(func(yield func(uint16) bool) {
		yield(color)
	}))
}

// SetPixels fills the inclusive rectangle (sx, sy)-(ex, ey) with RGB565
// colors, row by row. colors should yield (ex-sx+1)*(ey-sy+1) values; a
// shorter or nil sequence leaves the rest of the rectangle untouched.
func (d *Dev) SetPixels(sx, sy, ex, ey uint16, colors iter.Seq[uint16]) error {
	if err := d.setAddressWindow(sx, sy, ex, ey); err != nil {
		return err
	}
	if err := d.writeCommand(RAMWR); err != nil {
		return err
	}
	return d.sendData(U16BEIter(colors))
}

// BlitPixels writes w*h big-endian RGB565 pixels from data to the rectangle
// at (sx, sy) in a single transfer. data must be exactly w*h*2 bytes.
// Coordinates are not checked: like every address sent to the controller,
// an end column or row past 65535 wraps around.
func (d *Dev) BlitPixels(sx, sy, w, h uint16, data []byte) error {
	if len(data) != int(w)*int(h)*2 {
		return displayError(ErrBufferSize, fmt.Errorf("expected %d bytes, got %d", int(w)*int(h)*2, len(data)))
	}
	if w == 0 || h == 0 {
		return nil
	}
	if err := d.setAddressWindow(sx, sy, sx+w-1, sy+h-1); err != nil {
		return err
	}
	if err := d.writeCommand(RAMWR); err != nil {
		return err
	}
	return d.sendData(U8(data))
}

// SetScrollOffset sets the first line shown at the top of the scroll area.
func (d *Dev) SetScrollOffset(offset uint16) error {
	return d.command(VSCAD, byte(offset>>8), byte(offset))
}

// SetScrollRegion defines the vertical scroll area as the lines left between
// top and bottom fixed areas.
func (d *Dev) SetScrollRegion(top, bottom uint16) error {
	var scroll uint16
	if fixed := int(top) + int(bottom); fixed < nativeLines {
		scroll = uint16(nativeLines - fixed)
	}
	return d.command(VSCRDER,
		byte(top>>8), byte(top),
		byte(scroll>>8), byte(scroll),
		byte(bottom>>8), byte(bottom),
	)
}

// SetTearingEffect configures the tearing effect output.
func (d *Dev) SetTearingEffect(te TearingEffect) error {
	switch te {
	case TearingVertical:
		return d.command(TEON, 0x00)
	case TearingHorizontalAndVertical:
		return d.command(TEON, 0x01)
	default:
		return d.command(TEOFF)
	}
}

// Show turns the display output on or off. RAM content is kept.
func (d *Dev) Show(show bool) error {
	if show {
		return d.command(DISPON)
	}
	return d.command(DISPOFF)
}

// Sleep enters or leaves sleep mode.
func (d *Dev) Sleep(sleep bool) error {
	if sleep {
		return d.command(SLPIN)
	}
	return d.command(SLPOUT)
}

// Invert enables or disables display inversion.
func (d *Dev) Invert(invert bool) error {
	if invert {
		return d.command(INVON)
	}
	return d.command(INVOFF)
}

// Release hands the bus and lines back to the caller. The Dev is unusable
// afterwards.
func (d *Dev) Release() (conn.Conn, Pins) {
	c := d.c
	if cc, ok := c.(*chunkedConn); ok {
		c = cc.Conn
	}
	pins := Pins{Reset: d.rst.p, Backlight: d.bl.p, DC: d.dc.p, CS: d.cs.p}
	*d = Dev{log: d.log, width: d.width, height: d.height}
	return c, pins
}
