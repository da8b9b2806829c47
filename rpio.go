// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpioled

import (
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// RpioOutput drives pins through the go-rpio library, which maps the
// registers itself.
//
// The rpio mapping is process wide, so only one RpioOutput should be open
// at a time.
type RpioOutput struct{}

// OpenRpioOutput maps the GPIO registers using rpio.
func OpenRpioOutput() (*RpioOutput, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "can't open rpio")
	}
	return &RpioOutput{}, nil
}

// ConfigureAsOutput sets the pin's function to output.
func (r *RpioOutput) ConfigureAsOutput(pin int) error {
	if _, err := fselIndex(pin); err != nil {
		return err
	}
	rpio.Pin(pin).Output()
	return nil
}

// SetValue drives the pin high, for a value of 1, or low otherwise.
func (r *RpioOutput) SetValue(pin int, value int) error {
	if _, err := bankIndex(pin); err != nil {
		return err
	}
	if value == LevelActive {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

// Close unmaps the rpio registers.
func (r *RpioOutput) Close() error {
	return rpio.Close()
}
