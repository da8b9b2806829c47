// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "github.com/go-logr/logr"

// Option defines the interface required to provide an option to NewDevice.
type Option interface {
	applyOption(*builder)
}

// NameOption defines the name the device is registered under.
type NameOption string

// WithName returns an option that sets the name the device is registered
// under.
//
// The default is "gpioled".
func WithName(name string) NameOption {
	return NameOption(name)
}

func (o NameOption) applyOption(b *builder) {
	b.name = string(o)
}

// LineOption defines the pin driven by the device.
type LineOption int

// WithLine returns an option that sets the pin driven by the device.
//
// The default is pin 17.
//
// The line is checked against MaxPin when the device drives a Port, and is
// otherwise left to the provided Output to check.
func WithLine(pin int) LineOption {
	return LineOption(pin)
}

func (o LineOption) applyOption(b *builder) {
	b.line = int(o)
}

// BaseOption defines the physical address of the controller's register block.
type BaseOption uint64

// WithBase returns an option that sets the physical address of the
// controller's register block.
//
// The default is the BCM2837 address, 0x3F200000.
func WithBase(base uint64) BaseOption {
	return BaseOption(base)
}

func (o BaseOption) applyOption(b *builder) {
	b.base = uint64(o)
}

// OutputOption provides the Output driven by the device.
type OutputOption struct {
	Output
}

// WithOutput returns an option that provides the Output driven by the device.
//
// When provided, the register block is not mapped and the base is ignored.
func WithOutput(o Output) OutputOption {
	return OutputOption{o}
}

func (o OutputOption) applyOption(b *builder) {
	b.output = o.Output
}

// LoggerOption provides the logger used by the device.
type LoggerOption struct {
	logr.Logger
}

// WithLogger returns an option that provides the logger used by the device.
//
// By default nothing is logged.
func WithLogger(l logr.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyOption(b *builder) {
	b.log = o.Logger
}
