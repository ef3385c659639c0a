package st7789

import (
	"errors"
	"fmt"
)

// Display error kinds, match them with errors.Is.
var (
	ErrBusWrite             = errors.New("st7789: bus write failed")
	ErrDC                   = errors.New("st7789: data/command (DC) line failed")
	ErrCS                   = errors.New("st7789: chip select (CS) line failed")
	ErrFormatNotImplemented = errors.New("st7789: data format not implemented")
	ErrBufferSize           = errors.New("st7789: invalid pixel buffer size")
)

// ErrReleased is returned by every operation after Release.
var ErrReleased = errors.New("st7789: driver released")

// DisplayError is a bus or protocol failure.
type DisplayError struct {
	// Kind is one of the ErrBusWrite, ErrDC, ErrCS, ErrFormatNotImplemented
	// or ErrBufferSize sentinels.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

func (e *DisplayError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *DisplayError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// PinError is a failure driving the reset or backlight line.
type PinError struct {
	// Line is the name of the line, "reset" or "backlight".
	Line string

	Err error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("st7789: %s pin: %v", e.Line, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}

func displayError(kind, err error) error {
	return &DisplayError{Kind: kind, Err: err}
}
