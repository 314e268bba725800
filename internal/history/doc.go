// Package history records print job outcomes.
//
// Every operation, whether it arrived over MQTT or the REST API,
// produces one Job row in SQLite with its status, byte count, and
// duration. The Recorder wraps operation execution, prunes old rows,
// forwards metrics to InfluxDB when configured, and notifies listeners
// feeding the WebSocket event stream.
package history
