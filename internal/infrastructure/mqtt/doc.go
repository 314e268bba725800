// Package mqtt provides MQTT connectivity for the escposd bridge.
//
// It wraps eclipse/paho.mqtt.golang with:
//   - Connection lifecycle management and health checks
//   - Automatic reconnection with subscription restoration
//   - Last Will and Testament on escpos/bridge/status
//   - Panic recovery around message handlers
//   - Topic builders for the escpos/ command scheme and Home Assistant
//     discovery topics
//
// Topic layout:
//
//	escpos/command/{printer_id}/{operation}   commands (not retained)
//	escpos/ack/{printer_id}/{operation}       command results (not retained)
//	escpos/state/{printer_id}                 connectivity state (retained)
//	escpos/bridge/status                      bridge status + LWT (retained)
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Subscribe(mqtt.Topics{}.AllCommands(), 1, handleCommand)
package mqtt
