// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpioled

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// GPIOMemPath is the device providing the GPIO registers alone.
	GPIOMemPath = "/dev/gpiomem"

	// MemPath is the device providing the whole physical address space.
	MemPath = "/dev/mem"
)

// DevMem maps registers from a memory device.
type DevMem struct {
	// The path to the memory device.
	Path string

	// Physical indicates the device spans the physical address space, as
	// /dev/mem does, so the base address is used as the offset into it.
	//
	// Otherwise the device provides the register block alone, as
	// /dev/gpiomem does, and the base address is ignored.
	Physical bool
}

// NewDevMem returns a DevMem for /dev/gpiomem, or /dev/mem if gpiomem is
// not available.
func NewDevMem() DevMem {
	if _, err := os.Stat(GPIOMemPath); err == nil {
		return DevMem{Path: GPIOMemPath}
	}
	return DevMem{Path: MemPath, Physical: true}
}

// MapPhysical maps the register block at base.
func (m DevMem) MapPhysical(base, size uint64) (*RegisterBlock, error) {
	if size < RegisterBlockSize {
		return nil, errors.Wrapf(ErrRegisterBlockTooSmall, "%d bytes", size)
	}
	page := uint64(os.Getpagesize())
	var offset uint64
	if m.Physical {
		if base%page != 0 {
			return nil, errors.Errorf("base %#x is not page aligned", base)
		}
		offset = base
	}
	length := (size + page - 1) / page * page

	file, err := os.OpenFile(m.Path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	// the fd is not required once the memory is mapped
	defer file.Close()

	mem, err := unix.Mmap(
		int(file.Fd()),
		int64(offset),
		int(length),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %s", m.Path)
	}
	regs, err := mapRegisterBlock(mem)
	if err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	return regs, nil
}

// Unmap releases a mapping returned by MapPhysical.
func (m DevMem) Unmap(regs *RegisterBlock) error {
	if regs == nil || regs.mapping == nil {
		return errors.New("register block not mapped")
	}
	mem := regs.mapping
	regs.mapping = nil
	regs.regs = nil
	return unix.Munmap(mem)
}
