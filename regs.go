// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Byte offsets of the registers within the controller's register block.
const (
	RegFunctionSelect     = 0x00
	RegPinSet             = 0x1c
	RegPinClear           = 0x28
	RegPinLevel           = 0x34
	RegEventDetectStatus  = 0x40
	RegRisingEdgeEnable   = 0x4c
	RegFallingEdgeEnable  = 0x58
	RegHighLevelEnable    = 0x64
	RegLowLevelEnable     = 0x70
	RegAsyncRisingEnable  = 0x7c
	RegAsyncFallingEnable = 0x88
	RegPullUpDownEnable   = 0x94
	RegPullUpDownClock    = 0x98

	// RegisterBlockSize is the minimum size of the mapped register block.
	RegisterBlockSize = 0xb4
)

const (
	// The number of function select registers.
	numFunctionSelect = 6

	// The number of set/clear/level banks.
	numBanks = 2

	registerWidth = 4
)

// RegisterBlock provides access to the registers of a memory-mapped GPIO
// controller.
//
// The block does not own the memory it views. Whoever provided the memory
// must keep it valid for as long as the block, or any Port built on it, is
// in use.
//
// Register accesses are individual 32-bit loads and stores, and are not
// synchronised beyond that.
//
// Once the mapping is released, accesses return ErrClosed. Releasing the
// mapping must not race with accesses through the block or its Ports.
type RegisterBlock struct {
	// The registers, indexed by word.
	regs []uint32

	// The underlying mapping, if the block was built from mapped bytes.
	mapping []byte
}

// NewRegisterBlock returns a RegisterBlock viewing the provided words.
//
// The words may be memory-mapped hardware or, for testing, plain memory.
func NewRegisterBlock(regs []uint32) (*RegisterBlock, error) {
	if regs == nil {
		return nil, errors.New("nil register block")
	}
	if len(regs)*registerWidth < RegisterBlockSize {
		return nil, errors.Wrapf(ErrRegisterBlockTooSmall, "%d bytes", len(regs)*registerWidth)
	}
	return &RegisterBlock{regs: regs}, nil
}

// mapRegisterBlock returns a RegisterBlock viewing a mapped byte range.
func mapRegisterBlock(mem []byte) (*RegisterBlock, error) {
	if len(mem) < RegisterBlockSize {
		return nil, errors.Wrapf(ErrRegisterBlockTooSmall, "%d bytes", len(mem))
	}
	regs := unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), len(mem)/registerWidth)
	return &RegisterBlock{regs: regs, mapping: mem}, nil
}

// FunctionSelect returns the content of the indexed function select register.
func (rb *RegisterBlock) FunctionSelect(idx int) (uint32, error) {
	if idx < 0 || idx >= numFunctionSelect {
		return 0, errors.Wrapf(ErrHardwareAddressing, "function select register %d", idx)
	}
	if rb.released() {
		return 0, ErrClosed
	}
	return rb.load(RegFunctionSelect + idx*registerWidth), nil
}

// SetFunctionSelect overwrites the indexed function select register.
func (rb *RegisterBlock) SetFunctionSelect(idx int, v uint32) error {
	if idx < 0 || idx >= numFunctionSelect {
		return errors.Wrapf(ErrHardwareAddressing, "function select register %d", idx)
	}
	if rb.released() {
		return ErrClosed
	}
	rb.store(RegFunctionSelect+idx*registerWidth, v)
	return nil
}

// WritePinSet drives high the pins in the bank identified by the bits in mask.
//
// Pins with a zero bit in the mask are unaffected.
func (rb *RegisterBlock) WritePinSet(bank int, mask uint32) error {
	if bank < 0 || bank >= numBanks {
		return errors.Wrapf(ErrHardwareAddressing, "pin set bank %d", bank)
	}
	if rb.released() {
		return ErrClosed
	}
	rb.store(RegPinSet+bank*registerWidth, mask)
	return nil
}

// WritePinClear drives low the pins in the bank identified by the bits in mask.
//
// Pins with a zero bit in the mask are unaffected.
func (rb *RegisterBlock) WritePinClear(bank int, mask uint32) error {
	if bank < 0 || bank >= numBanks {
		return errors.Wrapf(ErrHardwareAddressing, "pin clear bank %d", bank)
	}
	if rb.released() {
		return ErrClosed
	}
	rb.store(RegPinClear+bank*registerWidth, mask)
	return nil
}

// PinLevel returns the current levels of the pins in the bank.
func (rb *RegisterBlock) PinLevel(bank int) (uint32, error) {
	if bank < 0 || bank >= numBanks {
		return 0, errors.Wrapf(ErrHardwareAddressing, "pin level bank %d", bank)
	}
	if rb.released() {
		return 0, ErrClosed
	}
	return rb.load(RegPinLevel + bank*registerWidth), nil
}

// released returns true once the underlying mapping has been released.
func (rb *RegisterBlock) released() bool {
	return rb.regs == nil
}

// load reads the register at the byte offset.
func (rb *RegisterBlock) load(offset int) uint32 {
	return atomic.LoadUint32(&rb.regs[offset/registerWidth])
}

// store writes the register at the byte offset.
func (rb *RegisterBlock) store(offset int, v uint32) {
	atomic.StoreUint32(&rb.regs[offset/registerWidth], v)
}
