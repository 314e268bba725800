package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	logger := New(config.Logging{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "1.2.3")

	if logger == nil {
		t.Fatal("New returned nil")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Error("info level should be enabled")
	}
	if logger.Enabled(nil, slog.LevelDebug) {
		t.Error("debug level should not be enabled at info")
	}
}

func TestLogger_ServiceAndVersionFields(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := handler.WithAttrs([]slog.Attr{
		slog.String("service", "escposd"),
		slog.String("version", "test"),
	})
	logger := &Logger{Logger: slog.New(h)}

	logger.Info("hello", "printer_id", "kitchen")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}
	if entry["service"] != "escposd" {
		t.Errorf("service = %v, want escposd", entry["service"])
	}
	if entry["version"] != "test" {
		t.Errorf("version = %v, want test", entry["version"])
	}
	if entry["printer_id"] != "kitchen" {
		t.Errorf("printer_id = %v, want kitchen", entry["printer_id"])
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := &Logger{Logger: slog.New(handler)}

	scoped := logger.With("component", "bridge")
	scoped.Info("started")

	if !strings.Contains(buf.String(), "component=bridge") {
		t.Errorf("expected component attribute in output, got: %s", buf.String())
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	if logger == nil {
		t.Fatal("Default returned nil")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Error("default logger should log at info level")
	}
}
