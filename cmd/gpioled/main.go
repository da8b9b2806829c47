// SPDX-FileCopyrightText: 2024 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

// gpioled exposes a GPIO driven LED as a device file served over HTTP.
//
//	curl -X PUT --data 1 http://localhost:8017/dev/gpioled
//	curl http://localhost:8017/dev/gpioled?length=1
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/hubertat/servicemaker"
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpioled"
	"github.com/warthog618/go-gpioled/miscdev"
)

const httpTimeout = 3 * time.Second

var (
	Version string

	name      = flag.String("name", gpioled.DefaultName, "the name the device is registered under")
	line      = flag.Int("line", gpioled.DefaultLine, "the pin driving the LED")
	base      = flag.Uint64("base", 0, "physical address of the GPIO registers (0 to detect)")
	backend   = flag.String("backend", "mem", "how the pin is driven: mem, cdev or rpio")
	devmem    = flag.String("devmem", "", "memory device to map (default /dev/gpiomem, else /dev/mem)")
	chip      = flag.String("chip", "gpiochip0", "gpiochip for the cdev backend")
	listen    = flag.String("listen", ":8017", "HTTP listen address")
	verbosity = flag.Int("v", 0, "log verbosity")
	install   = flag.Bool("install", false, "install as a systemd service")

	service = servicemaker.ServiceMaker{
		User:               "gpioled",
		UserGroups:         []string{"gpio"},
		ServicePath:        "/etc/systemd/system/gpioled.service",
		ServiceDescription: "gpioled: GPIO LED device file served over HTTP. github.com/warthog618/go-gpioled",
		ExecDir:            "/srv/gpioled",
		ExecName:           "gpioled",
	}
)

func main() {
	flag.Parse()
	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))
	logger.Info("gpioled started", "version", Version)

	if *install {
		if err := service.InstallService(); err != nil {
			logger.Error(err, "service install failed")
			os.Exit(1)
		}
		logger.Info("service installed")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		logger.Error(err, "gpioled failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logr.Logger) error {
	reg := miscdev.NewRegistry(logger.WithName("miscdev"))
	mem := gpioled.NewDevMem()
	if len(*devmem) > 0 {
		mem = gpioled.DevMem{Path: *devmem, Physical: *devmem == gpioled.MemPath}
	}
	addr := *base
	if addr == 0 {
		addr = gpioled.GPIOBase()
	}
	options := []gpioled.Option{
		gpioled.WithName(*name),
		gpioled.WithLine(*line),
		gpioled.WithBase(addr),
		gpioled.WithLogger(logger),
	}
	out, err := openOutput(*backend)
	if err != nil {
		return err
	}
	if out != nil {
		defer out.Close()
		options = append(options, gpioled.WithOutput(out))
	}
	dev, err := gpioled.NewDevice(gpioled.NewFramework(mem, reg), options...)
	if err != nil {
		return err
	}
	defer dev.Close()

	server := &http.Server{
		Addr:              *listen,
		Handler:           reg.Handler(),
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
		IdleTimeout:       2 * httpTimeout,
	}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	logger.Info("serving", "addr", *listen, "device", dev.Name())

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type closingOutput interface {
	gpioled.Output
	io.Closer
}

// openOutput returns the Output for the backend, or nil if the device
// should map the registers itself.
func openOutput(backend string) (closingOutput, error) {
	switch backend {
	case "mem":
		return nil, nil
	case "cdev":
		return gpioled.NewCdevOutput(*chip, *name), nil
	case "rpio":
		o, err := gpioled.OpenRpioOutput()
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, errors.Errorf("unknown backend: %s", backend)
	}
}
