package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the escposd bridge.
//
// Command topics use the flat scheme: escpos/{category}/{printer_id}/{operation}
const (
	// TopicPrefix is the base for all bridge topics.
	TopicPrefix = "escpos"

	// TopicPrefixBridge is the base for bridge lifecycle topics.
	TopicPrefixBridge = "escpos/bridge"
)

// Topics provides builders for escposd MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.Command("kitchen", "print_text")
//	// Returns: "escpos/command/kitchen/print_text"
type Topics struct{}

// Command returns the topic for print commands to a specific printer.
//
// The printer ID "all" fans the command out to every registered printer.
//
// Example: escpos/command/kitchen/print_text
func (Topics) Command(printerID, operation string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, printerID, operation)
}

// Ack returns the topic for command acknowledgements.
//
// Example: escpos/ack/kitchen/print_text
func (Topics) Ack(printerID, operation string) string {
	return fmt.Sprintf("%s/ack/%s/%s", TopicPrefix, printerID, operation)
}

// PrinterState returns the retained topic for printer connectivity state.
//
// Example: escpos/state/kitchen
func (Topics) PrinterState(printerID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, printerID)
}

// BridgeStatus returns the retained bridge status topic.
// This topic also carries the LWT payload on unexpected disconnect.
//
// Example: escpos/bridge/status
func (Topics) BridgeStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixBridge)
}

// DiscoveryConfig returns the Home Assistant discovery config topic for a
// printer's connectivity binary_sensor.
//
// Example: homeassistant/binary_sensor/escpos_kitchen/config
func (Topics) DiscoveryConfig(prefix, printerID string) string {
	return fmt.Sprintf("%s/binary_sensor/escpos_%s/config", prefix, printerID)
}

// AllCommands returns a pattern matching all print commands.
//
// Pattern: escpos/command/+/+
func (Topics) AllCommands() string {
	return fmt.Sprintf("%s/command/+/+", TopicPrefix)
}

// AllAcks returns a pattern matching all command acknowledgements.
//
// Pattern: escpos/ack/+/+
func (Topics) AllAcks() string {
	return fmt.Sprintf("%s/ack/+/+", TopicPrefix)
}

// AllPrinterStates returns a pattern matching all printer state topics.
//
// Pattern: escpos/state/+
func (Topics) AllPrinterStates() string {
	return fmt.Sprintf("%s/state/+", TopicPrefix)
}

// AllTopics returns a pattern matching all bridge topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: escpos/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

// ParseCommandTopic extracts the printer ID and operation from a command
// topic received via the AllCommands() wildcard.
//
// Returns an error if the topic does not match escpos/command/{id}/{op}.
func ParseCommandTopic(topic string) (printerID, operation string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != "command" {
		return "", "", fmt.Errorf("%w: %q is not a command topic", ErrInvalidTopic, topic)
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %q has empty segments", ErrInvalidTopic, topic)
	}
	return parts[2], parts[3], nil
}
