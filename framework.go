// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "io"

// Mapper provides access to the physical address space.
type Mapper interface {
	// MapPhysical maps size bytes of physical memory starting at base,
	// returning a view of the registers there.
	MapPhysical(base, size uint64) (*RegisterBlock, error)

	// Unmap releases a mapping returned by MapPhysical.
	Unmap(regs *RegisterBlock) error
}

// Opener is implemented by devices that can be opened.
type Opener interface {
	Open() (*File, error)
}

// Registrar makes devices available to users.
type Registrar interface {
	// Register makes the device available under the name.
	//
	// Closing the returned io.Closer removes the registration.
	Register(name string, o Opener) (io.Closer, error)
}

// Framework is the environment hosting a Device.
type Framework interface {
	Mapper
	Registrar
}

type framework struct {
	Mapper
	Registrar
}

// NewFramework combines a Mapper and Registrar into a Framework.
//
// The Mapper may be nil if the device is constructed WithOutput.
func NewFramework(m Mapper, r Registrar) Framework {
	return framework{m, r}
}
