// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "github.com/pkg/errors"

var (
	// ErrInvalidCommand indicates the byte at the write offset was neither
	// '0' nor '1'.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrHardwareAddressing indicates a pin or register index outside the
	// range provided by the controller.
	ErrHardwareAddressing = errors.New("hardware addressing fault")

	// ErrInvalidOffset indicates a negative file offset.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrClosed indicates the device or file has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrRegisterBlockTooSmall indicates the memory provided for a register
	// block does not cover all the registers.
	ErrRegisterBlockTooSmall = errors.New("register block too small")
)
