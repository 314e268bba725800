package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDB{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.InfluxDB{
		Enabled: true,
		URL:     "http://127.0.0.1:19999",
		Token:   "test-token",
		Org:     "test",
		Bucket:  "test",
	}

	_, err := Connect(cfg)
	if err == nil {
		t.Fatal("Connect() expected error for unreachable server")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{connected: false}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v, want nil", err)
	}
}

func TestFlush_Disconnected(t *testing.T) {
	// Flush on a zero client must not panic
	c := &Client{}
	c.Flush()
}

func TestWriteMetrics_Disconnected(t *testing.T) {
	// Writes on a disconnected client are silently dropped
	c := &Client{connected: false}
	c.WriteJobMetric("kitchen", "print_text", "completed", 100, 50*time.Millisecond)
	c.WritePrinterStatus("kitchen", true, 5*time.Millisecond)
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1})
	c.WritePointWithTime("custom", nil, map[string]interface{}{"v": 1}, time.Now())
}

func TestIsConnected(t *testing.T) {
	c := &Client{connected: true}
	if !c.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	if c.IsConnected() {
		t.Error("IsConnected() = true, want false")
	}
}
