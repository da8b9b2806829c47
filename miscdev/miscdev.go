// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package miscdev provides a registry of gpioled devices, with their file
// operations dispatched over HTTP.
//
// Each request opens the named device, performs a single read or write,
// and releases it, in the same way a shell redirect would on a device node.
//
//	GET /dev                          list the registered devices
//	GET /dev/:name?offset=N&length=M  read from the device
//	PUT /dev/:name?offset=N           write the request body to the device
package miscdev

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpioled"
)

// ErrNotFound indicates no device is registered under the name.
var ErrNotFound = errors.New("no such device")

// Registry holds the registered devices.
//
// Registry implements gpioled.Registrar.
type Registry struct {
	mu      sync.Mutex
	devices map[string]gpioled.Opener
	log     logr.Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry(log logr.Logger) *Registry {
	return &Registry{
		devices: make(map[string]gpioled.Opener),
		log:     log,
	}
}

// Register adds the device to the registry under the name.
func (r *Registry) Register(name string, o gpioled.Opener) (io.Closer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[name]; ok {
		return nil, errors.Errorf("device '%s' already registered", name)
	}
	r.devices[name] = o
	r.log.Info("registered", "device", name)
	return registration{r, name}, nil
}

// Names returns the names of the registered devices, in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.devices))
	for n := range r.devices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open opens the named device.
func (r *Registry) Open(name string) (*gpioled.File, error) {
	r.mu.Lock()
	o, ok := r.devices[name]
	r.mu.Unlock()
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return o.Open()
}

func (r *Registry) unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[name]; !ok {
		return errors.Wrap(ErrNotFound, name)
	}
	delete(r.devices, name)
	r.log.Info("unregistered", "device", name)
	return nil
}

type registration struct {
	r    *Registry
	name string
}

func (g registration) Close() error {
	return g.r.unregister(g.name)
}

// Handler returns the HTTP handler dispatching requests to the registered
// devices.
func (r *Registry) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/dev", r.handleList)
	router.GET("/dev/:name", r.handleRead)
	router.PUT("/dev/:name", r.handleWrite)
	return router
}

func (r *Registry) handleList(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	for _, n := range r.Names() {
		fmt.Fprintln(w, n)
	}
}

func (r *Registry) handleRead(w http.ResponseWriter, req *http.Request, p httprouter.Params) {
	off, err := queryInt(req, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	length, err := queryInt(req, "length", gpioled.BufferSize)
	if err != nil || length < 0 || length > gpioled.BufferSize {
		http.Error(w, "invalid length", http.StatusBadRequest)
		return
	}
	f, err := r.Open(p.ByName("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	buf := make([]byte, length)
	n, err := f.Read(buf, off)
	if err != nil && err != io.EOF {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(buf[:n])
}

func (r *Registry) handleWrite(w http.ResponseWriter, req *http.Request, p httprouter.Params) {
	off, err := queryInt(req, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(io.LimitReader(req.Body, gpioled.BufferSize+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := r.Open(p.ByName("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	n, err := f.Write(data, off)
	if err != nil {
		writeError(w, err)
		return
	}
	fmt.Fprintf(w, "%d\n", n)
}

// writeError maps the error to the corresponding HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, gpioled.ErrInvalidCommand),
		errors.Is(err, gpioled.ErrInvalidOffset):
		status = http.StatusBadRequest
	case errors.Is(err, gpioled.ErrClosed):
		status = http.StatusGone
	}
	http.Error(w, err.Error(), status)
}

func queryInt(req *http.Request, key string, def int64) (int64, error) {
	v := req.URL.Query().Get(key)
	if len(v) == 0 {
		return def, nil
	}
	i, err := strconv.ParseInt(v, 0, 64)
	if err != nil {
		return 0, errors.Errorf("invalid %s: %s", key, v)
	}
	return i, nil
}
