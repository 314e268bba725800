package printer

import (
	"context"
	"fmt"
	"time"
)

// Transport moves raw command bytes to a printer. Implementations are
// not safe for concurrent use; the adapter serializes access.
//
// The lifecycle per operation is Open, one or more Writes, Close. A
// keepalive adapter leaves the transport open between operations.
type Transport interface {
	// Open establishes the connection. Opening an already-open
	// transport is a no-op.
	Open(ctx context.Context) error

	// Write sends bytes to the printer. The transport must be open.
	Write(p []byte) (int, error)

	// Close releases the connection. Closing a closed transport is a
	// no-op. For spooled transports this is the point the job is
	// actually submitted.
	Close() error

	// Probe performs a cheap, non-printing reachability check and
	// reports the observed latency. It must not disturb an open
	// connection.
	Probe(ctx context.Context) (time.Duration, error)

	// Info returns a human-readable connection description.
	Info() string
}

// NewTransport builds the transport for a printer entry.
func NewTransport(p *Printer) (Transport, error) {
	switch p.ConnectionType {
	case ConnectionNetwork:
		return newNetworkTransport(p.Host, p.Port, p.Timeout()), nil
	case ConnectionUSB:
		return newUSBTransport(p.DevicePath, p.Timeout()), nil
	case ConnectionSerial:
		return newSerialTransport(p.DevicePath, p.BaudRate, p.Timeout()), nil
	case ConnectionCUPS:
		return newCUPSTransport(p.Queue, p.Timeout()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedConnection, p.ConnectionType)
}
