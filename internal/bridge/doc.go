// Package bridge connects MQTT to the printer fleet.
//
// Commands arrive on escpos/command/{printer_id}/{operation} with a
// JSON parameter payload; every command produces an ack on the
// matching escpos/ack topic. The printer_id "all" fans out to every
// registered printer. Printer reachability is mirrored retained on
// escpos/state/{printer_id}, and Home Assistant MQTT discovery configs
// are published per printer so each appears as a connectivity
// binary_sensor without manual YAML.
package bridge
