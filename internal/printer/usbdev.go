package printer

import (
	"context"
	"fmt"
	"os"
	"time"
)

// usbTransport writes to a USB printer through its character device,
// e.g. /dev/usb/lp0. The usblp kernel driver handles the endpoint
// plumbing, so no userspace USB stack is involved.
type usbTransport struct {
	path    string
	timeout time.Duration
	file    *os.File
}

func newUSBTransport(path string, timeout time.Duration) *usbTransport {
	return &usbTransport{path: path, timeout: timeout}
}

func (t *usbTransport) Open(_ context.Context) error {
	if t.file != nil {
		return nil
	}
	f, err := os.OpenFile(t.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", t.path, err)
	}
	t.file = f
	return nil
}

func (t *usbTransport) Write(p []byte) (int, error) {
	if t.file == nil {
		return 0, ErrTransportClosed
	}
	n, err := t.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.path, err)
	}
	return n, nil
}

func (t *usbTransport) Close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

// Probe checks that the device node exists. The device cannot be
// opened non-disruptively while a job may hold it, so presence is the
// signal, matching what unplugging the printer removes.
func (t *usbTransport) Probe(_ context.Context) (time.Duration, error) {
	start := time.Now()
	_, err := os.Stat(t.path)
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("probing %s: %w", t.path, err)
	}
	return latency, nil
}

func (t *usbTransport) Info() string {
	return t.path
}
