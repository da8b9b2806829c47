// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled

import "sync/atomic"

// File is an open handle on a Device.
//
// All Files opened on a Device share its buffer and pin.
type File struct {
	dev    *Device
	closed atomic.Bool
}

// Name returns the name of the device the file was opened on.
func (f *File) Name() string {
	return f.dev.name
}

// Read copies up to len(p) bytes from the device buffer, starting at off.
//
// Reading at or beyond the end of the buffer returns io.EOF.
// A short read at the end of the buffer returns a nil error, and the next
// read, at the end, returns io.EOF.
func (f *File) Read(p []byte, off int64) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}
	return f.dev.read(p, off)
}

// Write copies p into the device buffer, starting at off, and then drives
// the pin according to the byte at off.
//
// A '0' drives the pin low and a '1' drives it high.
// Any other byte returns ErrInvalidCommand, though the bytes written remain
// in the buffer.
//
// Bytes beyond the end of the buffer are dropped, so the count returned may
// be less than len(p). Writing at or beyond the end of the buffer returns 0
// and a nil error, and neither the buffer nor the pin are changed.
func (f *File) Write(p []byte, off int64) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}
	return f.dev.write(p, off)
}

// Close releases the file.
//
// The device and its other Files are unaffected.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return ErrClosed
	}
	f.dev.log.V(1).Info("release")
	return nil
}
