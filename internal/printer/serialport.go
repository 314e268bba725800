package printer

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"
)

// serialTransport drives an RS-232 or USB-serial printer. ESC/POS
// serial printers almost universally run 8N1, so only the baud rate is
// configurable.
type serialTransport struct {
	path    string
	baud    int
	timeout time.Duration
	port    serial.Port
}

func newSerialTransport(path string, baud int, timeout time.Duration) *serialTransport {
	return &serialTransport{path: path, baud: baud, timeout: timeout}
}

func (t *serialTransport) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: t.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

func (t *serialTransport) Open(_ context.Context) error {
	if t.port != nil {
		return nil
	}
	port, err := serial.Open(t.path, t.mode())
	if err != nil {
		return fmt.Errorf("opening %s: %w", t.path, err)
	}
	t.port = port
	return nil
}

func (t *serialTransport) Write(p []byte) (int, error) {
	if t.port == nil {
		return 0, ErrTransportClosed
	}
	n, err := t.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.path, err)
	}
	return n, nil
}

func (t *serialTransport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

// Probe opens and immediately closes the port. An open port stays
// untouched and reports healthy, since holding it is itself proof the
// device is present.
func (t *serialTransport) Probe(_ context.Context) (time.Duration, error) {
	if t.port != nil {
		return 0, nil
	}
	start := time.Now()
	port, err := serial.Open(t.path, t.mode())
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("probing %s: %w", t.path, err)
	}
	_ = port.Close()
	return latency, nil
}

func (t *serialTransport) Info() string {
	return fmt.Sprintf("%s@%d", t.path, t.baud)
}
