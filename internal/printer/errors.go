package printer

import "errors"

var (
	// ErrPrinterNotFound is returned when a printer ID does not exist.
	ErrPrinterNotFound = errors.New("printer not found")

	// ErrPrinterExists is returned when creating a printer whose ID is
	// already registered.
	ErrPrinterExists = errors.New("printer already exists")

	// ErrValidation is wrapped by all configuration validation failures.
	ErrValidation = errors.New("printer validation failed")

	// ErrUnsupportedConnection is returned for unknown connection types.
	ErrUnsupportedConnection = errors.New("unsupported connection type")

	// ErrTransportClosed is returned when writing to a closed transport.
	ErrTransportClosed = errors.New("transport not open")

	// ErrEmptyText is returned by text operations with nothing to print.
	ErrEmptyText = errors.New("text is empty")

	// ErrTextTooLong is returned when text exceeds the input limit.
	ErrTextTooLong = errors.New("text exceeds maximum length")

	// ErrQRDataTooLong is returned when QR data exceeds the input limit.
	ErrQRDataTooLong = errors.New("qr data exceeds maximum length")

	// ErrImageSource is wrapped by image fetch and decode failures.
	ErrImageSource = errors.New("invalid image source")

	// ErrImageTooLarge is returned when a fetched image exceeds the
	// download size limit.
	ErrImageTooLarge = errors.New("image exceeds maximum size")
)
