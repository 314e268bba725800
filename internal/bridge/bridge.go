package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/mqtt"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
)

// Logger defines the logging interface used by the Bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// publisher is the slice of the MQTT client the bridge uses. Narrowed
// to an interface so tests run without a broker.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// commandTimeout bounds a single command's execution, covering
// transport connect and write for the slowest configured printer.
const commandTimeout = 60 * time.Second

// Bridge connects MQTT command topics to printer operations and
// mirrors printer state back to Home Assistant.
type Bridge struct {
	client   publisher
	registry *printer.Registry
	manager  *printer.Manager
	recorder *history.Recorder
	cfg      config.MQTT
	logger   Logger
	topics   mqtt.Topics
}

// New builds a bridge. The recorder may be nil when job history is
// disabled.
func New(client publisher, registry *printer.Registry, manager *printer.Manager, recorder *history.Recorder, cfg config.MQTT, logger Logger) *Bridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{
		client:   client,
		registry: registry,
		manager:  manager,
		recorder: recorder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start subscribes to the command topic tree and wires discovery and
// state publishing to registry and adapter events.
func (b *Bridge) Start(ctx context.Context) error {
	b.manager.OnStatus(func(printerID string, online bool) {
		b.publishState(printerID, online)
	})

	b.registry.OnChange(func(kind printer.ChangeKind, p *printer.Printer) {
		switch kind {
		case printer.ChangeCreated, printer.ChangeUpdated:
			b.publishDiscovery(p)
		case printer.ChangeDeleted:
			b.removeDiscovery(p.ID)
		}
	})

	if err := b.client.Subscribe(b.topics.AllCommands(), byte(b.cfg.QoS), b.handleCommand); err != nil {
		return fmt.Errorf("subscribing to command topics: %w", err)
	}

	b.publishAllDiscovery(ctx)
	b.logger.Info("mqtt bridge started", "command_topic", b.topics.AllCommands())
	return nil
}

// handleCommand dispatches one command message. Errors are both acked
// and returned so the client wrapper logs them.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	printerID, operation, err := mqtt.ParseCommandTopic(topic)
	if err != nil {
		return fmt.Errorf("parsing command topic %s: %w", topic, err)
	}

	targets := []string{printerID}
	if printerID == BroadcastTarget {
		targets = b.registry.IDs()
		if len(targets) == 0 {
			b.logger.Warn("broadcast command with no registered printers", "operation", operation)
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var firstErr error
	for _, target := range targets {
		if err := b.execute(ctx, target, operation, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// execute runs one command against one printer and publishes the ack.
func (b *Bridge) execute(ctx context.Context, printerID, operation string, payload []byte) error {
	adapter, err := b.manager.Adapter(ctx, printerID)
	if err != nil {
		if errors.Is(err, printer.ErrPrinterNotFound) {
			b.ack(printerID, operation, err, CodePrinterNotFound)
			return err
		}
		b.ack(printerID, operation, err, CodeOperationFailed)
		return err
	}

	run := func(ctx context.Context) (int, error) {
		return b.dispatch(ctx, adapter, operation, payload)
	}

	if b.recorder != nil {
		err = b.recorder.Track(ctx, printerID, operation, history.SourceMQTT, run)
	} else {
		_, err = run(ctx)
	}

	if err != nil {
		code := CodeOperationFailed
		switch {
		case errors.Is(err, errUnknownOperation):
			code = CodeUnknownOperation
		case errors.Is(err, errInvalidPayload):
			code = CodeInvalidPayload
		}
		b.ack(printerID, operation, err, code)
		return err
	}
	b.ack(printerID, operation, nil, "")
	return nil
}

var (
	errUnknownOperation = errors.New("unknown operation")
	errInvalidPayload   = errors.New("invalid command payload")
)

// dispatch decodes the payload for the named operation and runs it.
func (b *Bridge) dispatch(ctx context.Context, a *printer.Adapter, operation string, payload []byte) (int, error) {
	switch operation {
	case OpPrintText:
		var opts printer.TextOptions
		if err := decode(payload, &opts); err != nil {
			return 0, err
		}
		return a.PrintText(ctx, opts)

	case OpPrintTextUTF8:
		var opts printer.TextOptions
		if err := decode(payload, &opts); err != nil {
			return 0, err
		}
		return a.PrintTextUTF8(ctx, opts)

	case OpPrintQR:
		var opts printer.QROptions
		if err := decode(payload, &opts); err != nil {
			return 0, err
		}
		return a.PrintQR(ctx, opts)

	case OpPrintBarcode:
		var opts printer.BarcodeOptions
		if err := decode(payload, &opts); err != nil {
			return 0, err
		}
		return a.PrintBarcode(ctx, opts)

	case OpPrintImage:
		var opts printer.ImageOptions
		if err := decode(payload, &opts); err != nil {
			return 0, err
		}
		return a.PrintImage(ctx, b.manager.Fetcher(), opts)

	case OpFeed:
		var p feedPayload
		if err := decode(payload, &p); err != nil {
			return 0, err
		}
		return a.Feed(ctx, p.Lines)

	case OpCut:
		var p cutPayload
		if err := decode(payload, &p); err != nil {
			return 0, err
		}
		return a.Cut(ctx, p.Mode)

	case OpBeep:
		var p beepPayload
		if err := decode(payload, &p); err != nil {
			return 0, err
		}
		return a.Beep(ctx, p.Times, p.Duration)
	}
	return 0, fmt.Errorf("%w: %q", errUnknownOperation, operation)
}

// decode unmarshals a command payload. An empty payload decodes to the
// zero value so operations with all-default parameters work with no
// body at all.
func decode(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

// ack publishes the command outcome.
func (b *Bridge) ack(printerID, operation string, opErr error, code string) {
	ack := Ack{
		PrinterID: printerID,
		Operation: operation,
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}
	if opErr != nil {
		ack.Status = "error"
		ack.Error = opErr.Error()
		ack.Code = code
	}

	payload, err := json.Marshal(ack)
	if err != nil {
		b.logger.Error("marshalling ack", "error", err)
		return
	}
	if err := b.client.Publish(b.topics.Ack(printerID, operation), payload, byte(b.cfg.QoS), false); err != nil {
		b.logger.Warn("publishing ack", "printer_id", printerID, "operation", operation, "error", err)
	}
}

// publishState publishes a retained online/offline state for a
// printer. Retained so Home Assistant sees the latest state on
// reconnect, not just transitions.
func (b *Bridge) publishState(printerID string, online bool) {
	state := StateOffline
	if online {
		state = StateOnline
	}
	if err := b.client.PublishRetained(b.topics.PrinterState(printerID), []byte(state)); err != nil {
		b.logger.Warn("publishing printer state", "printer_id", printerID, "error", err)
	}
}
