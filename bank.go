// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "github.com/pkg/errors"

// MaxPin is the highest pin number exposed by the controller.
const MaxPin = 53

const (
	// The number of pins covered by each function select register.
	pinsPerSelect = 10

	// The width, in bits, of a pin's function select field.
	selectWidth = 3

	// The mask for a single function select field.
	selectMask uint32 = 1<<selectWidth - 1

	// The number of pins covered by a set, clear or level register.
	pinsPerBank = 32
)

// Function is the mode selected for a pin by its function select field.
//
// The values match the encoding used by the controller.
type Function uint32

const (
	// Pin is an input.
	FunctionInput Function = iota

	// Pin is an output.
	FunctionOutput

	// Pin is assigned alternate function 5.
	FunctionAlt5

	// Pin is assigned alternate function 4.
	FunctionAlt4

	// Pin is assigned alternate function 0.
	FunctionAlt0

	// Pin is assigned alternate function 1.
	FunctionAlt1

	// Pin is assigned alternate function 2.
	FunctionAlt2

	// Pin is assigned alternate function 3.
	FunctionAlt3
)

const (
	// Line is inactive, i.e. driven low.
	LevelInactive int = iota

	// Line is active, i.e. driven high.
	LevelActive
)

// fselIndex returns the function select register containing the pin's field.
func fselIndex(pin int) (int, error) {
	if pin < 0 {
		return 0, errors.Wrapf(ErrHardwareAddressing, "pin %d", pin)
	}
	idx := pin / pinsPerSelect
	if idx >= numFunctionSelect {
		return 0, errors.Wrapf(ErrHardwareAddressing, "no function select register for pin %d", pin)
	}
	return idx, nil
}

// fselShift returns the bit offset of the pin's field within its function
// select register.
func fselShift(pin int) uint {
	return uint(pin%pinsPerSelect) * selectWidth
}

// bankIndex returns the set/clear/level bank containing the pin.
func bankIndex(pin int) (int, error) {
	if pin < 0 {
		return 0, errors.Wrapf(ErrHardwareAddressing, "pin %d", pin)
	}
	bank := pin / pinsPerBank
	if bank >= numBanks {
		return 0, errors.Wrapf(ErrHardwareAddressing, "no bank for pin %d", pin)
	}
	return bank, nil
}

// bankMask returns the single bit identifying the pin within its bank.
func bankMask(pin int) uint32 {
	return 1 << uint(pin%pinsPerBank)
}
