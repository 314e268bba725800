package printer

import (
	"fmt"
	"strings"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/textenc"
)

// Input limits applied before bytes reach a printer. Oversized payloads
// tie up the device and can overrun small printer buffers.
const (
	// MaxTextLength bounds text operations in characters.
	MaxTextLength = 10000

	// MaxQRDataLength bounds QR payloads. Well below the QR model 2
	// ceiling, but far beyond what fits legibly on 80mm paper.
	MaxQRDataLength = 2048

	// MaxIDLength bounds printer identifiers.
	MaxIDLength = 64
)

// ValidateText checks a text payload for text printing operations.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if len([]rune(text)) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// ValidateQRData checks a QR code payload.
func ValidateQRData(data string) error {
	if data == "" {
		return ErrEmptyText
	}
	if len(data) > MaxQRDataLength {
		return ErrQRDataTooLong
	}
	return nil
}

// Validate checks a printer entry for structural problems. Returns an
// error wrapping ErrValidation describing every problem found.
func Validate(p *Printer) error {
	var errs []string

	if p.ID == "" {
		errs = append(errs, "id is required")
	} else {
		if len(p.ID) > MaxIDLength {
			errs = append(errs, "id exceeds maximum length")
		}
		if !validID(p.ID) {
			errs = append(errs, "id must contain only lowercase letters, digits, hyphens, and underscores")
		}
		if p.ID == "all" {
			errs = append(errs, `id "all" is reserved for broadcast targeting`)
		}
	}
	if p.Name == "" {
		errs = append(errs, "name is required")
	}

	switch p.ConnectionType {
	case ConnectionNetwork:
		if p.Host == "" {
			errs = append(errs, "host is required for network printers")
		}
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, "port must be between 1 and 65535")
		}
	case ConnectionUSB:
		if p.DevicePath == "" {
			errs = append(errs, "device_path is required for usb printers")
		}
	case ConnectionSerial:
		if p.DevicePath == "" {
			errs = append(errs, "device_path is required for serial printers")
		}
		if p.BaudRate <= 0 {
			errs = append(errs, "baud_rate must be positive for serial printers")
		}
	case ConnectionCUPS:
		if p.Queue == "" {
			errs = append(errs, "queue is required for cups printers")
		}
	default:
		errs = append(errs, fmt.Sprintf("connection_type %q is not supported", p.ConnectionType))
	}

	if p.Codepage != "" && !textenc.Supported(p.Codepage) {
		errs = append(errs, fmt.Sprintf("codepage %q is not supported", p.Codepage))
	}
	if p.LineWidth < 0 {
		errs = append(errs, "line_width must not be negative")
	}
	if p.TimeoutSeconds < 0 {
		errs = append(errs, "timeout_seconds must not be negative")
	}
	if p.StatusIntervalSeconds < 0 {
		errs = append(errs, "status_interval_seconds must not be negative")
	}

	switch p.DefaultAlign {
	case "", "left", "center", "right":
	default:
		errs = append(errs, "default_align must be left, center, or right")
	}
	switch p.DefaultCut {
	case "", "none", "partial", "full":
	default:
		errs = append(errs, "default_cut must be none, partial, or full")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

func validID(id string) bool {
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
