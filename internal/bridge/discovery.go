package bridge

import (
	"context"
	"encoding/json"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/capabilities"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
)

// discoveryAvailability points Home Assistant at the bridge status
// topic. The status payload is JSON, so a template extracts the field.
type discoveryAvailability struct {
	Topic         string `json:"topic"`
	ValueTemplate string `json:"value_template"`
}

// discoveryDevice groups the entity under one device in the Home
// Assistant registry.
type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
}

// discoveryPayload is a Home Assistant MQTT discovery config for a
// connectivity binary_sensor.
type discoveryPayload struct {
	Name         string                  `json:"name"`
	UniqueID     string                  `json:"unique_id"`
	DeviceClass  string                  `json:"device_class"`
	StateTopic   string                  `json:"state_topic"`
	PayloadOn    string                  `json:"payload_on"`
	PayloadOff   string                  `json:"payload_off"`
	Availability []discoveryAvailability `json:"availability"`
	Device       discoveryDevice         `json:"device"`
}

// publishDiscovery announces one printer to Home Assistant as a
// retained connectivity binary_sensor config.
func (b *Bridge) publishDiscovery(p *printer.Printer) {
	if !b.cfg.Discovery.Enabled {
		return
	}

	profile := capabilities.Get(p.Profile)
	payload := discoveryPayload{
		Name:        p.Name,
		UniqueID:    "escpos_" + p.ID + "_status",
		DeviceClass: "connectivity",
		StateTopic:  b.topics.PrinterState(p.ID),
		PayloadOn:   StateOnline,
		PayloadOff:  StateOffline,
		Availability: []discoveryAvailability{{
			Topic:         b.topics.BridgeStatus(),
			ValueTemplate: "{{ value_json.status }}",
		}},
		Device: discoveryDevice{
			Identifiers:  []string{"escpos_" + p.ID},
			Name:         p.Name,
			Manufacturer: profile.Vendor,
			Model:        profile.Name,
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("marshalling discovery config", "printer_id", p.ID, "error", err)
		return
	}

	topic := b.topics.DiscoveryConfig(b.cfg.Discovery.Prefix, p.ID)
	if err := b.client.PublishRetained(topic, data); err != nil {
		b.logger.Warn("publishing discovery config", "printer_id", p.ID, "error", err)
		return
	}
	b.logger.Debug("discovery config published", "printer_id", p.ID, "topic", topic)
}

// removeDiscovery retracts a printer's discovery config. Home
// Assistant removes entities when their config topic goes empty.
func (b *Bridge) removeDiscovery(printerID string) {
	if !b.cfg.Discovery.Enabled {
		return
	}
	topic := b.topics.DiscoveryConfig(b.cfg.Discovery.Prefix, printerID)
	if err := b.client.PublishRetained(topic, nil); err != nil {
		b.logger.Warn("removing discovery config", "printer_id", printerID, "error", err)
		return
	}
	// Clear the retained state too so a re-added printer starts clean.
	if err := b.client.PublishRetained(b.topics.PrinterState(printerID), nil); err != nil {
		b.logger.Warn("clearing printer state", "printer_id", printerID, "error", err)
	}
}

// publishAllDiscovery announces every registered printer. Run at
// startup and after every MQTT reconnect.
func (b *Bridge) publishAllDiscovery(ctx context.Context) {
	printers, err := b.registry.List(ctx)
	if err != nil {
		b.logger.Error("listing printers for discovery", "error", err)
		return
	}
	for i := range printers {
		b.publishDiscovery(&printers[i])
	}
}
