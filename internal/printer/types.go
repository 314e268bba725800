package printer

import (
	"fmt"
	"time"
)

// ConnectionType identifies how a printer is reached.
type ConnectionType string

const (
	// ConnectionNetwork is a TCP/IP printer, typically on port 9100.
	ConnectionNetwork ConnectionType = "network"

	// ConnectionUSB is a USB printer exposed as a character device,
	// such as /dev/usb/lp0.
	ConnectionUSB ConnectionType = "usb"

	// ConnectionSerial is an RS-232 or USB-serial printer.
	ConnectionSerial ConnectionType = "serial"

	// ConnectionCUPS spools raw bytes to a CUPS queue via lp.
	ConnectionCUPS ConnectionType = "cups"
)

// Valid reports whether the connection type is one of the known values.
func (c ConnectionType) Valid() bool {
	switch c {
	case ConnectionNetwork, ConnectionUSB, ConnectionSerial, ConnectionCUPS:
		return true
	}
	return false
}

// Printer is one registered target device. A single entry maps to
// exactly one physical printer.
type Printer struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	ConnectionType ConnectionType `json:"connection_type"`

	// Network connection fields.
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// USB and serial connection fields.
	DevicePath string `json:"device_path,omitempty"`
	BaudRate   int    `json:"baud_rate,omitempty"`

	// CUPS connection field.
	Queue string `json:"queue,omitempty"`

	// Codepage used for text encoding, e.g. "CP437" or "UTF-8".
	Codepage string `json:"codepage"`

	// Profile selects a capability profile key.
	Profile string `json:"profile"`

	// LineWidth is the column count text is wrapped to. Zero disables
	// wrapping.
	LineWidth int `json:"line_width"`

	// TimeoutSeconds is the per-operation transport timeout.
	TimeoutSeconds float64 `json:"timeout_seconds"`

	// Keepalive holds the transport connection open between operations.
	// Only honoured for network printers.
	Keepalive bool `json:"keepalive"`

	// StatusIntervalSeconds enables periodic reachability probes when
	// greater than zero.
	StatusIntervalSeconds int `json:"status_interval_seconds"`

	// DefaultAlign and DefaultCut apply when an operation omits them.
	DefaultAlign string `json:"default_align"`
	DefaultCut   string `json:"default_cut"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy returns an independent copy of the printer.
func (p *Printer) DeepCopy() *Printer {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// Timeout returns the transport timeout as a duration, falling back to
// four seconds when unset.
func (p *Printer) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 4 * time.Second
	}
	return time.Duration(p.TimeoutSeconds * float64(time.Second))
}

// ConnectionInfo returns a human-readable connection description for
// logs and diagnostics.
func (p *Printer) ConnectionInfo() string {
	switch p.ConnectionType {
	case ConnectionNetwork:
		return fmt.Sprintf("%s:%d", p.Host, p.Port)
	case ConnectionUSB:
		return p.DevicePath
	case ConnectionSerial:
		return fmt.Sprintf("%s@%d", p.DevicePath, p.BaudRate)
	case ConnectionCUPS:
		return "cups:" + p.Queue
	}
	return string(p.ConnectionType)
}

// StatusInterval returns the probe interval, or zero when probing is
// disabled.
func (p *Printer) StatusInterval() time.Duration {
	if p.StatusIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(p.StatusIntervalSeconds) * time.Second
}
