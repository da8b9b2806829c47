// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

package miscdev_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/go-gpioled"
	"github.com/warthog618/go-gpioled/miscdev"
)

// nopMapper maps plain memory.
type nopMapper struct {
	mem []uint32
}

func (m *nopMapper) MapPhysical(base, size uint64) (*gpioled.RegisterBlock, error) {
	return gpioled.NewRegisterBlock(m.mem)
}

func (m *nopMapper) Unmap(regs *gpioled.RegisterBlock) error {
	return nil
}

func newDevice(t *testing.T, r *miscdev.Registry, options ...gpioled.Option) ([]uint32, *gpioled.Device) {
	m := &nopMapper{mem: make([]uint32, gpioled.RegisterBlockSize/4)}
	d, err := gpioled.NewDevice(gpioled.NewFramework(m, r), options...)
	require.Nil(t, err)
	t.Cleanup(func() { d.Close() })
	return m.mem, d
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	data, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	return resp.StatusCode, string(data)
}

func TestRegister(t *testing.T) {
	r := miscdev.NewRegistry(logr.Discard())
	_, d := newDevice(t, r)
	newDevice(t, r, gpioled.WithName("aled"))
	assert.Equal(t, []string{"aled", gpioled.DefaultName}, r.Names())

	// duplicate
	m := &nopMapper{mem: make([]uint32, gpioled.RegisterBlockSize/4)}
	bd, err := gpioled.NewDevice(gpioled.NewFramework(m, r))
	assert.NotNil(t, err)
	assert.Nil(t, bd)

	f, err := r.Open(gpioled.DefaultName)
	require.Nil(t, err)
	f.Close()

	_, err = r.Open("nonexistent")
	assert.ErrorIs(t, err, miscdev.ErrNotFound)

	err = d.Close()
	assert.Nil(t, err)
	assert.Equal(t, []string{"aled"}, r.Names())
	_, err = r.Open(gpioled.DefaultName)
	assert.ErrorIs(t, err, miscdev.ErrNotFound)
}

func TestHandlerList(t *testing.T) {
	r := miscdev.NewRegistry(logr.Discard())
	newDevice(t, r)
	newDevice(t, r, gpioled.WithName("aled"))

	status, body := do(t, r.Handler(), http.MethodGet, "/dev", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "aled\ngpioled\n", body)
}

func TestHandlerWrite(t *testing.T) {
	r := miscdev.NewRegistry(logr.Discard())
	mem, _ := newDevice(t, r)
	h := r.Handler()

	status, body := do(t, h, http.MethodPut, "/dev/gpioled", "1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1\n", body)
	assert.Equal(t, uint32(1)<<17, mem[gpioled.RegPinSet/4])

	status, body = do(t, h, http.MethodPut, "/dev/gpioled?offset=10", "0\n")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2\n", body)
	assert.Equal(t, uint32(1)<<17, mem[gpioled.RegPinClear/4])

	status, _ = do(t, h, http.MethodPut, "/dev/gpioled", "on")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, h, http.MethodPut, "/dev/gpioled?offset=4096", "1")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0\n", body)

	status, _ = do(t, h, http.MethodPut, "/dev/gpioled?offset=-1", "1")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, h, http.MethodPut, "/dev/gpioled?offset=one", "1")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, h, http.MethodPut, "/dev/nonexistent", "1")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandlerRead(t *testing.T) {
	r := miscdev.NewRegistry(logr.Discard())
	newDevice(t, r)
	h := r.Handler()

	status, _ := do(t, h, http.MethodPut, "/dev/gpioled?offset=2", "1 is on")
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, h, http.MethodGet, "/dev/gpioled?offset=2&length=7", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1 is on", body)

	status, body = do(t, h, http.MethodGet, "/dev/gpioled", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, gpioled.BufferSize, len(body))
	assert.Equal(t, "\x00\x001 is on", body[:9])

	status, body = do(t, h, http.MethodGet, "/dev/gpioled?offset=4090&length=100", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 6, len(body))

	status, body = do(t, h, http.MethodGet, "/dev/gpioled?offset=4096", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)

	status, _ = do(t, h, http.MethodGet, "/dev/gpioled?length=5000", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, h, http.MethodGet, "/dev/nonexistent", "")
	assert.Equal(t, http.StatusNotFound, status)
}
