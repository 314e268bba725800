package influxdb

import "errors"

// Sentinel errors for the metrics client. Job metrics are optional,
// so callers typically log these and carry on:
//
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // Run without job metrics
//	}
var (
	// ErrNotConnected indicates the client has been closed or never
	// connected. Metric writes are dropped in this state.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed indicates the startup ping or health check
	// against the metrics server failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrWriteFailed indicates a job or status point could not be
	// written. Batched writes surface failures through the error
	// callback instead.
	ErrWriteFailed = errors.New("influxdb: write failed")

	// ErrDisabled indicates the metrics section of the configuration
	// turned the integration off.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
