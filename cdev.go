// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpioled

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// CdevOutput drives pins through the GPIO character device.
//
// Lines are requested from the kernel the first time they are configured,
// and held until the CdevOutput is closed.
//
// Like Port, CdevOutput performs no locking.
type CdevOutput struct {
	// The name or path of the gpiochip.
	chip string

	// The consumer label applied to requested lines.
	consumer string

	// The lines requested so far, keyed by offset.
	lines map[int]*gpiocdev.Line
}

// NewCdevOutput returns a CdevOutput for the named gpiochip.
//
// e.g. "gpiochip0" or "/dev/gpiochip0"
func NewCdevOutput(chip, consumer string) *CdevOutput {
	return &CdevOutput{
		chip:     chip,
		consumer: consumer,
		lines:    make(map[int]*gpiocdev.Line),
	}
}

// ConfigureAsOutput requests the line as an output, initially low, or
// reconfigures it as an output if already requested.
func (c *CdevOutput) ConfigureAsOutput(pin int) error {
	if pin < 0 {
		return errors.Wrapf(ErrHardwareAddressing, "line %d", pin)
	}
	if l, ok := c.lines[pin]; ok {
		return l.Reconfigure(gpiocdev.AsOutput())
	}
	l, err := gpiocdev.RequestLine(c.chip, pin,
		gpiocdev.AsOutput(LevelInactive),
		gpiocdev.WithConsumer(c.consumer))
	if err != nil {
		return errors.Wrapf(err, "can't request line %d on %s", pin, c.chip)
	}
	c.lines[pin] = l
	return nil
}

// SetValue drives the line high, for a value of 1, or low otherwise.
//
// The line must have been configured as an output.
func (c *CdevOutput) SetValue(pin int, value int) error {
	l, ok := c.lines[pin]
	if !ok {
		return errors.Errorf("line %d not configured as output", pin)
	}
	if value != LevelActive {
		value = LevelInactive
	}
	return l.SetValue(value)
}

// Close releases all the requested lines.
func (c *CdevOutput) Close() error {
	var err error
	for o, l := range c.lines {
		if cerr := l.Close(); err == nil {
			err = cerr
		}
		delete(c.lines, o)
	}
	return err
}
