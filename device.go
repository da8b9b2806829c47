// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import (
	"io"
	"sync"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

const (
	// BufferSize is the size of the device's addressable buffer.
	BufferSize = 0x1000

	// DefaultName is the name a device is registered under unless
	// overridden by WithName.
	DefaultName = "gpioled"

	// DefaultLine is the pin driven unless overridden by WithLine.
	DefaultLine = 17

	// DefaultBase is the physical address of the BCM2837 GPIO controller.
	DefaultBase = 0x3F200000
)

// Commands recognised at the write offset.
const (
	CommandOff byte = '0'
	CommandOn  byte = '1'
)

// Device exposes a single GPIO pin as a byte-addressable buffer.
//
// Writing CommandOff or CommandOn drives the pin low or high.
// The buffer retains whatever was last written to it, and reads return its
// contents.
//
// All buffer and hardware access is serialised by the device's lock.
type Device struct {
	// The name the device is registered under.
	name string

	// The pin being driven.
	line int

	log logr.Logger

	fw Framework

	// The mapped registers, if the device owns a mapping.
	regs *RegisterBlock

	// The registration with the framework.
	reg io.Closer

	// mu covers closed and st, including the hardware behind st.out.
	mu     sync.Mutex
	closed bool
	st     state
}

// state is the device state guarded by the lock.
//
// The output is only reachable through here, so hardware is only touched
// with the lock held.
type state struct {
	buf [BufferSize]byte
	out Output
}

// NewDevice constructs a Device based on the provided options and registers
// it with the framework.
//
// The available options are [WithName], [WithLine], [WithBase],
// [WithOutput] and [WithLogger].
//
// Unless an Output is provided, the controller's register block is mapped
// from the framework and the pin is driven through a Port on it.
func NewDevice(fw Framework, options ...Option) (*Device, error) {
	b := builder{
		name: DefaultName,
		line: DefaultLine,
		base: DefaultBase,
		log:  logr.Discard(),
	}
	for _, o := range options {
		o.applyOption(&b)
	}
	return b.live(fw)
}

// Name returns the name the device is registered under.
func (d *Device) Name() string {
	return d.name
}

// Line returns the pin driven by the device.
func (d *Device) Line() int {
	return d.line
}

// Open returns a new File sharing the device state.
func (d *Device) Open() (*File, error) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	d.log.V(1).Info("open")
	return &File{dev: d}, nil
}

// Close removes the device registration and releases the register mapping.
//
// Files still open on the device return ErrClosed from subsequent
// operations.
func (d *Device) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := d.reg.Close()
	if d.regs != nil {
		if uerr := d.fw.Unmap(d.regs); err == nil {
			err = uerr
		}
		d.regs = nil
	}
	d.log.Info("device closed")
	return err
}

// locked calls fn with the device lock held.
func (d *Device) locked(fn func(s *state) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return fn(&d.st)
}

// read copies the buffer contents, starting at off, into p.
func (d *Device) read(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= BufferSize {
		return 0, io.EOF
	}
	n := 0
	err := d.locked(func(s *state) error {
		n = copy(p, s.buf[off:])
		return nil
	})
	d.log.V(1).Info("read", "offset", off, "count", n)
	return n, err
}

// write copies p into the buffer, starting at off, then drives the pin
// according to the byte now at off.
//
// The copy is committed before the command is checked, so a rejected
// command remains in the buffer.
func (d *Device) write(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= BufferSize {
		return 0, nil
	}
	n := 0
	err := d.locked(func(s *state) error {
		n = copy(s.buf[off:], p)
		// A configure failure is logged and the pin is still driven, so
		// an Output rejecting the line reports it from SetValue.
		if err := s.out.ConfigureAsOutput(d.line); err != nil {
			d.log.Error(err, "configure output failed", "line", d.line)
		}
		switch c := s.buf[off]; c {
		case CommandOff:
			d.log.V(1).Info("led off", "line", d.line)
			return s.out.SetValue(d.line, LevelInactive)
		case CommandOn:
			d.log.V(1).Info("led on", "line", d.line)
			return s.out.SetValue(d.line, LevelActive)
		default:
			return errors.Wrapf(ErrInvalidCommand, "%q at offset %d", c, off)
		}
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// builder contains all the information required to build a device.
type builder struct {
	name   string
	line   int
	base   uint64
	output Output
	log    logr.Logger
}

// live maps and registers the device described by the builder.
func (b *builder) live(fw Framework) (*Device, error) {
	if fw == nil {
		return nil, errors.New("no framework provided")
	}
	if len(b.name) == 0 {
		return nil, errors.New("no device name defined")
	}
	if f, ok := fw.(framework); ok {
		if f.Registrar == nil {
			return nil, errors.New("no registrar provided")
		}
		if f.Mapper == nil && b.output == nil {
			return nil, errors.New("no mapper or output provided")
		}
	}
	d := &Device{
		name: b.name,
		line: b.line,
		log:  b.log.WithValues("device", b.name),
		fw:   fw,
	}
	out := b.output
	if out == nil {
		// a provided Output reports its own addressing errors
		if b.line < 0 || b.line > MaxPin {
			return nil, errors.Wrapf(ErrHardwareAddressing, "line %d", b.line)
		}
		regs, err := fw.MapPhysical(b.base, RegisterBlockSize)
		if err != nil {
			return nil, errors.Wrapf(err, "can't map registers at %#x", b.base)
		}
		port, err := NewPort(regs)
		if err != nil {
			fw.Unmap(regs)
			return nil, err
		}
		d.regs = regs
		out = port
	}
	d.st.out = out
	reg, err := fw.Register(b.name, d)
	if err != nil {
		if d.regs != nil {
			if uerr := fw.Unmap(d.regs); uerr != nil {
				d.log.Error(uerr, "unmap failed")
			}
		}
		return nil, errors.Wrapf(err, "can't register %s", b.name)
	}
	d.reg = reg
	d.log.Info("device initialised", "line", b.line)
	return d, nil
}
