// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpioled_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpioled"
)

func newPort(t *testing.T) ([]uint32, gpioled.Port) {
	mem, rb := newRegisterBlock(t)
	p, err := gpioled.NewPort(rb)
	require.Nil(t, err)
	return mem, p
}

func TestNewPort(t *testing.T) {
	_, err := gpioled.NewPort(nil)
	assert.NotNil(t, err)
}

func TestConfigureAsOutput(t *testing.T) {
	patterns := []struct {
		pin   int
		reg   int
		shift uint
	}{
		{0, 0, 0},
		{9, 0, 27},
		{10, 1, 0},
		{17, 1, 21},
		{53, 5, 9},
		{59, 5, 27},
	}
	for _, p := range patterns {
		mem, port := newPort(t)
		// all other fields must be preserved
		mem[p.reg] = 0xffffffff
		err := port.ConfigureAsOutput(p.pin)
		assert.Nil(t, err, p.pin)
		xv := uint32(0xffffffff)&^(7<<p.shift) | 1<<p.shift
		assert.Equal(t, xv, mem[p.reg], p.pin)
		f, err := port.Function(p.pin)
		assert.Nil(t, err)
		assert.Equal(t, gpioled.FunctionOutput, f, p.pin)

		// idempotent
		err = port.ConfigureAsOutput(p.pin)
		assert.Nil(t, err)
		assert.Equal(t, xv, mem[p.reg], p.pin)
	}
}

func TestConfigureAsOutputRange(t *testing.T) {
	mem, port := newPort(t)
	for _, pin := range []int{-1, 60, 61, 100} {
		err := port.ConfigureAsOutput(pin)
		assert.ErrorIs(t, err, gpioled.ErrHardwareAddressing, pin)
	}
	for i := range mem {
		assert.Zero(t, mem[i])
	}
}

func TestSetFunction(t *testing.T) {
	mem, port := newPort(t)
	err := port.SetFunction(17, gpioled.FunctionAlt5)
	assert.Nil(t, err)
	assert.Equal(t, uint32(gpioled.FunctionAlt5)<<21, mem[1])
	f, err := port.Function(17)
	assert.Nil(t, err)
	assert.Equal(t, gpioled.FunctionAlt5, f)

	err = port.SetFunction(17, gpioled.FunctionInput)
	assert.Nil(t, err)
	assert.Zero(t, mem[1])

	_, err = port.Function(60)
	assert.ErrorIs(t, err, gpioled.ErrHardwareAddressing)
}

func checkSetClear(t *testing.T, mem []uint32, set, clear [2]uint32) {
	t.Helper()
	for bank := 0; bank < 2; bank++ {
		assert.Equal(t, set[bank], mem[word(gpioled.RegPinSet)+bank], "set bank %d", bank)
		assert.Equal(t, clear[bank], mem[word(gpioled.RegPinClear)+bank], "clear bank %d", bank)
	}
}

func TestSetValue(t *testing.T) {
	patterns := []struct {
		pin   int
		value int
		set   [2]uint32
		clear [2]uint32
	}{
		{17, 1, [2]uint32{1 << 17, 0}, [2]uint32{0, 0}},
		{17, 0, [2]uint32{0, 0}, [2]uint32{1 << 17, 0}},
		{0, 1, [2]uint32{1, 0}, [2]uint32{0, 0}},
		{31, 0, [2]uint32{0, 0}, [2]uint32{1 << 31, 0}},
		{32, 1, [2]uint32{0, 1}, [2]uint32{0, 0}},
		{53, 0, [2]uint32{0, 0}, [2]uint32{0, 1 << 21}},
		{63, 1, [2]uint32{0, 1 << 31}, [2]uint32{0, 0}},
	}
	for _, p := range patterns {
		mem, port := newPort(t)
		err := port.SetValue(p.pin, p.value)
		assert.Nil(t, err, p.pin)
		checkSetClear(t, mem, p.set, p.clear)
	}
}

func TestSetValueRange(t *testing.T) {
	mem, port := newPort(t)
	for _, pin := range []int{-1, 64, 65, 100} {
		err := port.SetValue(pin, 1)
		assert.ErrorIs(t, err, gpioled.ErrHardwareAddressing, pin)
		err = port.SetValue(pin, 0)
		assert.ErrorIs(t, err, gpioled.ErrHardwareAddressing, pin)
	}
	checkSetClear(t, mem, [2]uint32{}, [2]uint32{})
}

func TestLevel(t *testing.T) {
	mem, port := newPort(t)
	mem[word(gpioled.RegPinLevel)] = 1 << 17
	mem[word(gpioled.RegPinLevel)+1] = 1 << 3

	v, err := port.Level(17)
	assert.Nil(t, err)
	assert.Equal(t, gpioled.LevelActive, v)
	v, err = port.Level(16)
	assert.Nil(t, err)
	assert.Equal(t, gpioled.LevelInactive, v)
	v, err = port.Level(35)
	assert.Nil(t, err)
	assert.Equal(t, gpioled.LevelActive, v)

	_, err = port.Level(64)
	assert.ErrorIs(t, err, gpioled.ErrHardwareAddressing)
}

func TestPortCopiesShareRegisters(t *testing.T) {
	mem, port := newPort(t)
	cp := port
	err := cp.SetValue(17, 1)
	assert.Nil(t, err)
	assert.Equal(t, uint32(1<<17), mem[word(gpioled.RegPinSet)])
}
