package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpioutil"
)

const (
	buttonDenoise = 8 * time.Millisecond
	buttonPoll    = 100 * time.Millisecond
)

// button is an active low push button. Every release toggles its pressed
// flag, take consumes it.
type button struct {
	name    string
	pin     gpio.PinIO
	pressed atomic.Bool
}

// newButton configures the named pin as a pulled up, debounced input. An
// empty name returns a nil button, which is never pressed.
func newButton(name string) (*button, error) {
	if name == "" || strings.EqualFold(name, "none") {
		logrus.Warnf("Button not configured, skipping")
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	return newButtonPin(name, p)
}

func newButtonPin(name string, p gpio.PinIO) (*button, error) {
	if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("button %s: %w", name, err)
	}
	p, err := gpioutil.Debounce(p, buttonDenoise, 0, gpio.BothEdges)
	if err != nil {
		return nil, fmt.Errorf("button %s: %w", name, err)
	}
	return &button{name: name, pin: p}, nil
}

// watch waits for edges until ctx is done.
func (b *button) watch(ctx context.Context) {
	if b == nil {
		return
	}
	for ctx.Err() == nil {
		if !b.pin.WaitForEdge(buttonPoll) {
			continue
		}
		if b.pin.Read() == gpio.High {
			b.toggle()
			logrus.Debugf("button %s released", b.name)
		}
	}
}

func (b *button) toggle() {
	for {
		old := b.pressed.Load()
		if b.pressed.CompareAndSwap(old, !old) {
			return
		}
	}
}

// take reports whether the button was pressed since the last call.
func (b *button) take() bool {
	if b == nil {
		return false
	}
	return b.pressed.Swap(false)
}
