package st7789

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// recorder logs line, bus and delay events in the order they happen.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, a ...any) {
	r.events = append(r.events, fmt.Sprintf(format, a...))
}

func (r *recorder) delayer() Delayer {
	return DelayFunc(func(d time.Duration) {
		r.add("delay %s", d)
	})
}

// writes returns the bus events only.
func (r *recorder) writes() []string {
	var out []string
	for _, e := range r.events {
		if strings.HasPrefix(e, "tx ") {
			out = append(out, e)
		}
	}
	return out
}

// fakePin is a gpiotest.Pin that logs its level changes. Out fails with err
// when set.
type fakePin struct {
	gpiotest.Pin
	rec *recorder
	err error
}

func newFakePin(rec *recorder, name string) *fakePin {
	return &fakePin{Pin: gpiotest.Pin{N: name}, rec: rec}
}

func (p *fakePin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.rec.add("%s %s", p.N, l)
	return p.Pin.Out(l)
}

// fakeBus is a conntest.Record that logs its writes. Once it recorded
// failAfter writes, Tx fails with err when set.
type fakeBus struct {
	conntest.Record
	rec       *recorder
	err       error
	failAfter int
}

func (b *fakeBus) Tx(w, r []byte) error {
	if b.err != nil && len(b.Ops) >= b.failAfter {
		return b.err
	}
	b.rec.add("tx % x", w)
	return b.Record.Tx(w, r)
}

// fixture is a Dev with every line wired to fakes.
type fixture struct {
	rec             *recorder
	bus             *fakeBus
	rst, bl, dc, cs *fakePin
	dev             *Dev
}

func newFixture(width, height uint16) *fixture {
	rec := new(recorder)
	f := &fixture{
		rec: rec,
		bus: &fakeBus{rec: rec},
		rst: newFakePin(rec, "RST"),
		bl:  newFakePin(rec, "BL"),
		dc:  newFakePin(rec, "DC"),
		cs:  newFakePin(rec, "CS"),
	}
	f.dev = New(f.bus, Pins{Reset: f.rst, Backlight: f.bl, DC: f.dc, CS: f.cs}, width, height)
	return f
}

// cmd returns the events of a command with optional arguments on a fully
// wired panel.
func cmd(i Instruction, data ...byte) []string {
	out := []string{"CS Low", "DC Low", fmt.Sprintf("tx %02x", byte(i)), "CS High"}
	if len(data) > 0 {
		out = append(out, "CS Low", "DC High", fmt.Sprintf("tx % x", data), "CS High")
	}
	return out
}

func delay(d time.Duration) []string {
	return []string{fmt.Sprintf("delay %s", d)}
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
