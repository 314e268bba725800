package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteJobMetric records a completed print job.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - printerID: Printer the job ran on (e.g., "kitchen")
//   - operation: Operation name (e.g., "print_text", "print_qr")
//   - status: Final job status ("completed" or "failed")
//   - bytes: Number of bytes written to the printer
//   - duration: Wall-clock time the job took
//
// Example:
//
//	client.WriteJobMetric("kitchen", "print_text", "completed", 412, 83*time.Millisecond)
func (c *Client) WriteJobMetric(printerID, operation, status string, bytes int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"print_jobs",
		map[string]string{
			"printer_id": printerID,
			"operation":  operation,
			"status":     status,
		},
		map[string]interface{}{
			"bytes":       bytes,
			"duration_ms": float64(duration.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePrinterStatus records a printer connectivity check result.
//
// Used for tracking printer availability and check latency over time.
//
// Parameters:
//   - printerID: Printer identifier
//   - online: Result of the connectivity check
//   - latency: How long the check took
func (c *Client) WritePrinterStatus(printerID string, online bool, latency time.Duration) {
	if !c.IsConnected() {
		return
	}

	onlineValue := 0
	if online {
		onlineValue = 1
	}

	point := write.NewPoint(
		"printer_status",
		map[string]string{
			"printer_id": printerID,
		},
		map[string]interface{}{
			"online":     onlineValue,
			"latency_ms": float64(latency.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
