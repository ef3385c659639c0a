package st7789

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

var errBus = errors.New("bus failure")

// initProgram is the register program written by Init, after the reset and
// backlight sequences.
func initProgram() []string {
	ms := time.Millisecond
	return concat(
		cmd(SWRESET), delay(150*ms),
		cmd(RAMWR), delay(10*ms),
		cmd(SLPOUT), delay(10*ms),
		cmd(INVOFF),
		cmd(VSCRDER, 0x00, 0x00, 0x14, 0x00, 0x00, 0x00),
		cmd(MADCTL, 0x00),
		cmd(COLMOD, 0x55),
		cmd(INVON), delay(10*ms),
		cmd(NORON), delay(10*ms),
		cmd(DISPON), delay(10*ms),
		cmd(PORCTRL, 0x0C, 0x0C, 0x00, 0x33, 0x33), delay(10*ms),
		cmd(GCTRL, 0x35), delay(10*ms),
		cmd(VCOMS, 0x37), delay(10*ms),
		cmd(LCMCTRL, 0x2C), delay(10*ms),
		cmd(VDVVRHEN, 0x01), delay(10*ms),
		cmd(VRHS, 0x12), delay(10*ms),
		cmd(VDVS, 0x20), delay(10*ms),
		cmd(FRCTRL2, 0x0F), delay(10*ms),
		cmd(PWCTRL1, 0xA4, 0xA1), delay(10*ms),
		cmd(PVGAMCTRL, 0xD0, 0x04, 0x0D, 0x11, 0x13, 0x2B, 0x3F, 0x54, 0x4C, 0x18, 0x0D, 0x0B, 0x1F, 0x23), delay(10*ms),
		cmd(NVGAMCTRL, 0xD0, 0x04, 0x0C, 0x11, 0x13, 0x2C, 0x3F, 0x44, 0x51, 0x2F, 0x1F, 0x1F, 0x20, 0x23), delay(10*ms),
		cmd(INVON), delay(10*ms),
		cmd(DISPON), delay(10*ms),
	)
}

func TestInit(t *testing.T) {
	f := newFixture(240, 240)
	if err := f.dev.SetOrientation(Landscape); err != nil {
		t.Fatal(err)
	}
	f.rec.events = nil

	if err := f.dev.Init(f.rec.delayer()); err != nil {
		t.Fatal(err)
	}
	want := concat(
		[]string{
			"RST High", "delay 10µs",
			"RST Low", "delay 10µs",
			"RST High", "delay 10µs",
			"BL Low", "delay 10ms", "BL High",
		},
		initProgram(),
	)
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}
	if v := f.dev.Orientation(); v != Portrait {
		t.Errorf("expected orientation %s after init, got %s", Portrait, v)
	}
}

// pixelProgram draws a pixel, a 2x2 rectangle and a 2x2 blit, and returns
// the bus writes it produces on a 240x240 portrait panel.
func pixelProgram(d *Dev) ([]string, error) {
	if err := d.SetPixel(5, 7, 0xF800); err != nil {
		return nil, err
	}
	if err := d.SetPixels(10, 20, 11, 21, slices.Values([]uint16{0xF800, 0x07E0, 0x001F, 0xFFFF})); err != nil {
		return nil, err
	}
	if err := d.BlitPixels(1, 2, 2, 2, []byte{0xF8, 0x00, 0x00, 0x1F, 0x07, 0xE0, 0xFF, 0xFF}); err != nil {
		return nil, err
	}
	return []string{
		"tx 2a", "tx 00 05", "tx 00 05",
		"tx 2b", "tx 00 07", "tx 00 07",
		"tx 2c", "tx f8 00",
		"tx 2a", "tx 00 0a", "tx 00 0b",
		"tx 2b", "tx 00 14", "tx 00 15",
		"tx 2c", "tx f8 00 07 e0 00 1f ff ff",
		"tx 2a", "tx 00 01", "tx 00 02",
		"tx 2b", "tx 00 02", "tx 00 03",
		"tx 2c", "tx f8 00 00 1f 07 e0 ff ff",
	}, nil
}

func TestOptionalPins(t *testing.T) {
	// Every combination of absent reset, backlight, DC and CS lines writes
	// the same bytes to the bus, and absent lines see no activity.
	var initWrites []string
	for _, e := range initProgram() {
		if strings.HasPrefix(e, "tx ") {
			initWrites = append(initWrites, e)
		}
	}

	for mask := 0; mask < 16; mask++ {
		name := fmt.Sprintf("rst=%t,bl=%t,dc=%t,cs=%t", mask&1 != 0, mask&2 != 0, mask&4 != 0, mask&8 != 0)
		t.Run(name, func(it *testing.T) {
			rec := new(recorder)
			var pins Pins
			if mask&1 != 0 {
				pins.Reset = newFakePin(rec, "RST")
			}
			if mask&2 != 0 {
				pins.Backlight = newFakePin(rec, "BL")
			}
			if mask&4 != 0 {
				pins.DC = newFakePin(rec, "DC")
			}
			if mask&8 != 0 {
				pins.CS = newFakePin(rec, "CS")
			} else {
				pins.CS = gpio.INVALID
			}
			d := New(&fakeBus{rec: rec}, pins, 240, 240)
			if err := d.Init(rec.delayer()); err != nil {
				it.Fatal(err)
			}
			pixelWrites, err := pixelProgram(d)
			if err != nil {
				it.Fatal(err)
			}
			want := concat(initWrites, pixelWrites)
			if diff := cmp.Diff(want, rec.writes()); diff != "" {
				it.Errorf("unexpected writes (-want +got):\n%s", diff)
			}
			for prefix, present := range map[string]bool{
				"RST ": mask&1 != 0,
				"BL ":  mask&2 != 0,
				"DC ":  mask&4 != 0,
				"CS ":  mask&8 != 0,
			} {
				found := slices.ContainsFunc(rec.events, func(e string) bool {
					return strings.HasPrefix(e, prefix)
				})
				if found != present {
					it.Errorf("%sline: expected activity %t, got %t", prefix, present, found)
				}
			}
		})
	}
}

func TestInitAbortsOnError(t *testing.T) {
	f := newFixture(240, 240)
	f.bus.err = errBus
	f.bus.failAfter = 2
	err := f.dev.Init(f.rec.delayer())
	if !errors.Is(err, ErrBusWrite) {
		t.Fatalf("expected ErrBusWrite, got %v", err)
	}
	if n := len(f.bus.Ops); n != 2 {
		t.Errorf("expected Init to stop after 2 writes, got %d", n)
	}
}

func TestHardResetPinError(t *testing.T) {
	cause := errors.New("stuck")
	f := newFixture(240, 240)
	f.rst.err = cause
	err := f.dev.Init(f.rec.delayer())
	var pe *PinError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PinError, got %T: %v", err, err)
	}
	if pe.Line != "reset" || !errors.Is(err, cause) {
		t.Errorf("unexpected pin error %v", err)
	}
	if len(f.bus.Ops) != 0 {
		t.Errorf("expected no bus writes, got %d", len(f.bus.Ops))
	}
}

func TestSetBacklight(t *testing.T) {
	f := newFixture(240, 240)
	if err := f.dev.SetBacklight(BacklightOff, f.rec.delayer()); err != nil {
		t.Fatal(err)
	}
	if err := f.dev.SetBacklight(BacklightOn, f.rec.delayer()); err != nil {
		t.Fatal(err)
	}
	want := []string{"BL Low", "delay 10µs", "BL High", "delay 10µs"}
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}

	f.bl.err = errors.New("stuck")
	var pe *PinError
	if err := f.dev.SetBacklight(BacklightOff, f.rec.delayer()); !errors.As(err, &pe) || pe.Line != "backlight" {
		t.Errorf("expected backlight *PinError, got %v", err)
	}

	rec := new(recorder)
	d := New(&fakeBus{rec: rec}, Pins{}, 240, 240)
	if err := d.SetBacklight(BacklightOn, rec.delayer()); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no events without a backlight line, got %v", rec.events)
	}
}

func TestSetPixel(t *testing.T) {
	bus := new(conntest.Record)
	d := New(bus, Pins{}, 240, 240)
	if err := d.SetPixel(5, 7, 0xF800); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{0x2A}},
		{W: []byte{0x00, 0x05}},
		{W: []byte{0x00, 0x05}},
		{W: []byte{0x2B}},
		{W: []byte{0x00, 0x07}},
		{W: []byte{0x00, 0x07}},
		{W: []byte{0x2C}},
		{W: []byte{0xF8, 0x00}},
	}
	if diff := cmp.Diff(want, bus.Ops); diff != "" {
		t.Errorf("unexpected writes (-want +got):\n%s", diff)
	}
}

func TestSetPixels(t *testing.T) {
	f := newFixture(240, 240)
	colors := []uint16{0xF800, 0x07E0, 0x001F, 0xFFFF}
	if err := f.dev.SetPixels(10, 20, 11, 21, slices.Values(colors)); err != nil {
		t.Fatal(err)
	}
	want := concat(
		cmd(CASET),
		[]string{"CS Low", "DC High", "tx 00 0a", "CS High"},
		[]string{"CS Low", "DC High", "tx 00 0b", "CS High"},
		cmd(RASET),
		[]string{"CS Low", "DC High", "tx 00 14", "CS High"},
		[]string{"CS Low", "DC High", "tx 00 15", "CS High"},
		cmd(RAMWR),
		[]string{"CS Low", "DC High", "tx f8 00 07 e0 00 1f ff ff", "CS High"},
	)
	if diff := cmp.Diff(want, f.rec.events); diff != "" {
		t.Errorf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestSetPixelsNil(t *testing.T) {
	f := newFixture(240, 240)
	if err := f.dev.SetPixels(0, 0, 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"tx 2a", "tx 00 00", "tx 00 00",
		"tx 2b", "tx 00 00", "tx 00 00",
		"tx 2c",
	}
	if diff := cmp.Diff(want, f.rec.writes()); diff != "" {
		t.Errorf("unexpected writes (-want +got):\n%s", diff)
	}
}

func TestBlitPixelsWraps(t *testing.T) {
	// Addresses are forwarded as 16-bit values.
	f := newFixture(240, 240)
	if err := f.dev.BlitPixels(0xFFFF, 0, 2, 1, []byte{0x00, 0x01, 0x02, 0x03}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"tx 2a", "tx ff ff", "tx 00 00",
		"tx 2b", "tx 00 00", "tx 00 00",
		"tx 2c", "tx 00 01 02 03",
	}
	if diff := cmp.Diff(want, f.rec.writes()); diff != "" {
		t.Errorf("unexpected writes (-want +got):\n%s", diff)
	}
}

func TestBlitPixels(t *testing.T) {
	f := newFixture(240, 240)
	data := []byte{0xF8, 0x00, 0x00, 0x1F, 0x07, 0xE0, 0xFF, 0xFF}
	if err := f.dev.BlitPixels(1, 2, 2, 2, data); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"tx 2a", "tx 00 01", "tx 00 02",
		"tx 2b", "tx 00 02", "tx 00 03",
		"tx 2c", "tx f8 00 00 1f 07 e0 ff ff",
	}
	if diff := cmp.Diff(want, f.rec.writes()); diff != "" {
		t.Errorf("unexpected writes (-want +got):\n%s", diff)
	}
}

func TestBlitPixelsSize(t *testing.T) {
	tests := []struct {
		Name string
		W, H uint16
		Data []byte
		Err  bool
	}{
		{"short", 2, 2, make([]byte, 7), true},
		{"long", 2, 2, make([]byte, 9), true},
		{"odd", 1, 1, make([]byte, 1), true},
		{"empty-width", 0, 4, nil, false},
		{"empty-height", 4, 0, []byte{}, false},
		{"empty-with-data", 0, 0, []byte{0x00, 0x00}, true},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			f := newFixture(240, 240)
			err := f.dev.BlitPixels(0, 0, test.W, test.H, test.Data)
			if test.Err && !errors.Is(err, ErrBufferSize) {
				it.Errorf("expected ErrBufferSize, got %v", err)
			} else if !test.Err && err != nil {
				it.Errorf("unexpected error: %v", err)
			}
			if len(f.rec.events) != 0 {
				it.Errorf("expected no bus or line activity, got %v", f.rec.events)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		Name string
		Call func(*Dev) error
		Want []string
	}{
		{"scroll-offset", func(d *Dev) error { return d.SetScrollOffset(0x0123) }, cmd(VSCAD, 0x01, 0x23)},
		{"scroll-region", func(d *Dev) error { return d.SetScrollRegion(0, 80) }, cmd(VSCRDER, 0x00, 0x00, 0x00, 0xF0, 0x00, 0x50)},
		{"scroll-region-overflow", func(d *Dev) error { return d.SetScrollRegion(200, 200) }, cmd(VSCRDER, 0x00, 0xC8, 0x00, 0x00, 0x00, 0xC8)},
		{"scroll-region-wrap", func(d *Dev) error { return d.SetScrollRegion(0xFFFF, 2) }, cmd(VSCRDER, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x02)},
		{"tearing-off", func(d *Dev) error { return d.SetTearingEffect(TearingOff) }, cmd(TEOFF)},
		{"tearing-vertical", func(d *Dev) error { return d.SetTearingEffect(TearingVertical) }, cmd(TEON, 0x00)},
		{"tearing-both", func(d *Dev) error { return d.SetTearingEffect(TearingHorizontalAndVertical) }, cmd(TEON, 0x01)},
		{"show", func(d *Dev) error { return d.Show(true) }, cmd(DISPON)},
		{"hide", func(d *Dev) error { return d.Show(false) }, cmd(DISPOFF)},
		{"sleep", func(d *Dev) error { return d.Sleep(true) }, cmd(SLPIN)},
		{"wake", func(d *Dev) error { return d.Sleep(false) }, cmd(SLPOUT)},
		{"invert", func(d *Dev) error { return d.Invert(true) }, cmd(INVON)},
		{"normal", func(d *Dev) error { return d.Invert(false) }, cmd(INVOFF)},
		{"halt", func(d *Dev) error { return d.Halt() }, cmd(DISPOFF)},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			f := newFixture(240, 240)
			if err := test.Call(f.dev); err != nil {
				it.Fatal(err)
			}
			if diff := cmp.Diff(test.Want, f.rec.events); diff != "" {
				it.Errorf("unexpected events (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelease(t *testing.T) {
	f := newFixture(240, 240)
	c, pins := f.dev.Release()
	if c != f.bus {
		t.Errorf("expected the bus back, got %v", c)
	}
	if pins.Reset != f.rst || pins.Backlight != f.bl || pins.DC != f.dc || pins.CS != f.cs {
		t.Errorf("expected the pins back, got %+v", pins)
	}

	for name, call := range map[string]func() error{
		"init":      func() error { return f.dev.Init(f.rec.delayer()) },
		"pixel":     func() error { return f.dev.SetPixel(0, 0, 0) },
		"backlight": func() error { return f.dev.SetBacklight(BacklightOn, f.rec.delayer()) },
		"blit":      func() error { return f.dev.BlitPixels(0, 0, 1, 1, []byte{0, 0}) },
		"scroll":    func() error { return f.dev.SetScrollOffset(1) },
	} {
		if err := call(); !errors.Is(err, ErrReleased) {
			t.Errorf("%s: expected ErrReleased, got %v", name, err)
		}
	}
	if len(f.rec.events) != 0 {
		t.Errorf("expected no activity after release, got %v", f.rec.events)
	}
}

func TestNewSPI(t *testing.T) {
	port := new(spitest.Record)
	d, err := NewSPI(port, Pins{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := d.Bounds().Size(); v.X != 240 || v.Y != 240 {
		t.Errorf("expected default size 240x240, got %s", v)
	}
	if err := d.SetScrollOffset(2); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{{W: []byte{0x37}}, {W: []byte{0x00, 0x02}}}
	if diff := cmp.Diff(want, port.Ops); diff != "" {
		t.Errorf("unexpected writes (-want +got):\n%s", diff)
	}

	// A port can only be connected once.
	if _, err := NewSPI(port, Pins{}, &Opts{Width: 135, Height: 240}); err == nil {
		t.Error("expected connect error")
	}
}

func TestInstructionString(t *testing.T) {
	if v := MADCTL.String(); v != "MADCTL" {
		t.Errorf("expected MADCTL, got %q", v)
	}
	if v := Instruction(0xFF).String(); !strings.Contains(v, "0xff") {
		t.Errorf("expected hex fallback, got %q", v)
	}
}

// connectPort is a spitest.Record that remembers how it was connected.
type connectPort struct {
	spitest.Record
	speed physic.Frequency
	mode  spi.Mode
	bits  int
}

func (p *connectPort) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	p.speed, p.mode, p.bits = f, mode, bits
	return p.Record.Connect(f, mode, bits)
}

func TestNewSPIConnect(t *testing.T) {
	tests := []struct {
		Name  string
		Opts  *Opts
		Speed physic.Frequency
		Mode  spi.Mode
	}{
		{"defaults", nil, 40 * physic.MegaHertz, spi.Mode3},
		{"size-only", &Opts{Width: 135, Height: 240}, 40 * physic.MegaHertz, spi.Mode3},
		{"speed", &Opts{Speed: 10 * physic.MegaHertz}, 10 * physic.MegaHertz, spi.Mode3},
		{"no-cs", &Opts{Flags: spi.NoCS}, 40 * physic.MegaHertz, spi.Mode3 | spi.NoCS},
		{"clock-bits-ignored", &Opts{Flags: spi.Mode1 | spi.HalfDuplex}, 40 * physic.MegaHertz, spi.Mode3 | spi.HalfDuplex},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			port := new(connectPort)
			if _, err := NewSPI(port, Pins{}, test.Opts); err != nil {
				it.Fatal(err)
			}
			if port.mode != test.Mode {
				it.Errorf("expected %s, got %s", test.Mode, port.mode)
			}
			if port.speed != test.Speed {
				it.Errorf("expected %s, got %s", test.Speed, port.speed)
			}
			if port.bits != 8 {
				it.Errorf("expected 8 bits per word, got %d", port.bits)
			}
		})
	}
}
