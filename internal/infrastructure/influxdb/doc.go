// Package influxdb provides optional time-series metrics for print jobs.
//
// When enabled in configuration, escposd records one point per completed
// print job (measurement "print_jobs") and one point per printer status
// check (measurement "printer_status"). Writes are batched and
// non-blocking; a failed InfluxDB connection never delays printing.
//
// Usage:
//
//	metrics, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    metrics = nil // metrics are optional
//	}
//	if metrics != nil {
//	    defer metrics.Close()
//	    metrics.WriteJobMetric("kitchen", "print_text", "completed", 412, elapsed)
//	}
package influxdb
