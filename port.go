// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "github.com/pkg/errors"

// Output is the interface required to drive a single output pin.
//
// Implementations perform no locking of their own. Callers must serialise
// access to the underlying hardware.
type Output interface {
	// ConfigureAsOutput sets the pin to output mode.
	ConfigureAsOutput(pin int) error

	// SetValue drives the pin high, for a value of 1, or low otherwise.
	SetValue(pin int, value int) error
}

// Port provides pin level operations on a controller's RegisterBlock.
//
// Pins are identified by their controller number, in the range 0..MaxPin.
//
// A Port is a lightweight handle and may be freely copied. Copies share the
// same registers, and a Port confers no exclusive access to them.
type Port struct {
	regs *RegisterBlock
}

// NewPort returns a Port operating on the provided register block.
func NewPort(regs *RegisterBlock) (Port, error) {
	if regs == nil {
		return Port{}, errors.New("nil register block")
	}
	return Port{regs: regs}, nil
}

// ConfigureAsOutput sets the pin's function to output.
//
// The other pins sharing the function select register are unaffected.
func (p Port) ConfigureAsOutput(pin int) error {
	return p.SetFunction(pin, FunctionOutput)
}

// SetFunction sets the function selected for the pin.
//
// This is a read-modify-write of the pin's function select register.
func (p Port) SetFunction(pin int, f Function) error {
	idx, err := fselIndex(pin)
	if err != nil {
		return err
	}
	v, err := p.regs.FunctionSelect(idx)
	if err != nil {
		return err
	}
	shift := fselShift(pin)
	v &^= selectMask << shift
	v |= (uint32(f) & selectMask) << shift
	return p.regs.SetFunctionSelect(idx, v)
}

// Function returns the function currently selected for the pin.
func (p Port) Function(pin int) (Function, error) {
	idx, err := fselIndex(pin)
	if err != nil {
		return FunctionInput, err
	}
	v, err := p.regs.FunctionSelect(idx)
	if err != nil {
		return FunctionInput, err
	}
	return Function((v >> fselShift(pin)) & selectMask), nil
}

// SetValue drives the pin high, for a value of 1, or low otherwise.
//
// Only the pin's bit is written to the set or clear register, so no
// read-modify-write is required.
func (p Port) SetValue(pin int, value int) error {
	bank, err := bankIndex(pin)
	if err != nil {
		return err
	}
	if value == LevelActive {
		return p.regs.WritePinSet(bank, bankMask(pin))
	}
	return p.regs.WritePinClear(bank, bankMask(pin))
}

// Level returns the current level of the pin.
func (p Port) Level(pin int) (int, error) {
	bank, err := bankIndex(pin)
	if err != nil {
		return LevelInactive, err
	}
	v, err := p.regs.PinLevel(bank)
	if err != nil {
		return LevelInactive, err
	}
	if v&bankMask(pin) != 0 {
		return LevelActive, nil
	}
	return LevelInactive, nil
}
