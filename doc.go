// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package gpioled is a library for exposing a single GPIO pin, typically driving
an LED, as a byte-oriented device file.

Writing the character '0' to the device drives the pin low, and '1' drives it
high.  Any other character is rejected with [ErrInvalidCommand].
The device also provides a 4096 byte buffer that retains whatever was
written, and reads return its contents.

The pin is driven through a [Port], which models the memory-mapped register
block of the BCM2835 family of GPIO controllers, as found on the Raspberry Pi.
The register block is mapped from physical memory by the hosting [Framework],
e.g. using [DevMem], and devices are made available to users by its
[Registrar], e.g. the HTTP based registry provided by the miscdev package.

Alternatively the pin may be driven through the GPIO character device, using
[CdevOutput], or through the go-rpio library, using [RpioOutput].

All access to the buffer and the pin is serialised by the device's lock, so
concurrent writers cannot interleave their configure and drive sequences.

Mapping the registers requires access to /dev/gpiomem or /dev/mem, so the
gpio group or root permissions are typically required.

# Example Usage

Create a device driving the default pin, 17, and turn the LED on:

	reg := miscdev.NewRegistry(logr.Discard())
	dev, err := gpioled.NewDevice(gpioled.NewFramework(gpioled.NewDevMem(), reg))
	defer dev.Close()
	f, err := dev.Open()
	defer f.Close()
	n, err := f.Write([]byte("1"), 0)

Create a device driving pin 4 through the character device:

	out := gpioled.NewCdevOutput("gpiochip0", "gpioled")
	defer out.Close()
	dev, err := gpioled.NewDevice(
		gpioled.NewFramework(nil, reg),
		gpioled.WithName("led4"),
		gpioled.WithLine(4),
		gpioled.WithOutput(out),
	)
*/
package gpioled
