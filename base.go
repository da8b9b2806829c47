// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import (
	"encoding/binary"
	"os"
)

const (
	socRangesPath = "/proc/device-tree/soc/ranges"

	// The offset of the GPIO controller from the peripheral base.
	gpioOffset = 0x200000
)

// GPIOBase returns the physical address of the GPIO controller.
//
// The address is derived from the peripheral base reported by the device
// tree, falling back to DefaultBase if that is not available.
func GPIOBase() uint64 {
	return gpioBaseFrom(socRangesPath)
}

func gpioBaseFrom(ranges string) uint64 {
	data, err := os.ReadFile(ranges)
	if err != nil || len(data) < 8 {
		return DefaultBase
	}
	// the peripheral base in the CPU address space follows the bus
	// address, in one cell on the Pi 2/3 and in two, high cell zero, on
	// the Pi 4
	base := binary.BigEndian.Uint32(data[4:8])
	if base == 0 {
		if len(data) < 12 {
			return DefaultBase
		}
		base = binary.BigEndian.Uint32(data[8:12])
	}
	return uint64(base) + gpioOffset
}
