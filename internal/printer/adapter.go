package printer

import (
	"context"
	"sync"
	"time"
)

// Status is the tri-state reachability of a printer. A printer that
// has never been probed or printed to is StatusUnknown.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Diagnostics carries status probe history for a printer.
type Diagnostics struct {
	LastCheck       *time.Time `json:"last_check"`
	LastOK          *time.Time `json:"last_ok"`
	LastError       *time.Time `json:"last_error"`
	LastLatencyMS   *int64     `json:"last_latency_ms"`
	LastErrorReason string     `json:"last_error_reason,omitempty"`
}

// StatusListener receives online/offline transitions.
type StatusListener func(online bool)

// Adapter owns the transport for one printer and serializes all
// operations against it. Connections are per-operation unless the
// printer enables keepalive, which only network printers honour.
type Adapter struct {
	printer   *Printer
	transport Transport
	logger    Logger

	// mu serializes printing operations on the physical device.
	mu        sync.Mutex
	keepalive bool
	open      bool

	stateMu   sync.Mutex
	status    Status
	diag      Diagnostics
	listeners []StatusListener

	stopStatus context.CancelFunc
	statusDone chan struct{}
}

// NewAdapter builds an adapter for a printer entry.
func NewAdapter(p *Printer, logger Logger) (*Adapter, error) {
	transport, err := NewTransport(p)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Adapter{
		printer:   p.DeepCopy(),
		transport: transport,
		logger:    logger,
		keepalive: p.Keepalive && p.ConnectionType == ConnectionNetwork,
		status:    StatusUnknown,
	}, nil
}

// newAdapterWithTransport exists for tests that inject a fake.
func newAdapterWithTransport(p *Printer, t Transport) *Adapter {
	return &Adapter{
		printer:   p.DeepCopy(),
		transport: t,
		logger:    noopLogger{},
		keepalive: p.Keepalive && p.ConnectionType == ConnectionNetwork,
		status:    StatusUnknown,
	}
}

// Printer returns a copy of the adapter's printer entry.
func (a *Adapter) Printer() *Printer {
	return a.printer.DeepCopy()
}

// Start establishes the keepalive connection when configured and
// launches the periodic status loop when a probe interval is set.
func (a *Adapter) Start(ctx context.Context) error {
	if a.keepalive {
		a.mu.Lock()
		err := a.openLocked(ctx)
		a.mu.Unlock()
		if err != nil {
			a.logger.Warn("initial printer connection failed",
				"printer_id", a.printer.ID, "error", err)
		}
	}

	interval := a.printer.StatusInterval()
	if interval > 0 {
		loopCtx, cancel := context.WithCancel(context.Background())
		a.stopStatus = cancel
		a.statusDone = make(chan struct{})
		go a.statusLoop(loopCtx, interval)
		a.CheckStatus(ctx)
	}
	return nil
}

// Stop halts the status loop and closes any held connection.
func (a *Adapter) Stop() {
	if a.stopStatus != nil {
		a.stopStatus()
		<-a.statusDone
		a.stopStatus = nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.open {
		if err := a.transport.Close(); err != nil {
			a.logger.Debug("closing printer connection", "printer_id", a.printer.ID, "error", err)
		}
		a.open = false
	}
}

func (a *Adapter) statusLoop(ctx context.Context, interval time.Duration) {
	defer close(a.statusDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.CheckStatus(ctx)
		}
	}
}

// CheckStatus runs a reachability probe and records the result.
func (a *Adapter) CheckStatus(ctx context.Context) {
	latency, err := a.transport.Probe(ctx)
	now := time.Now().UTC()
	latencyMS := latency.Milliseconds()

	a.stateMu.Lock()
	a.diag.LastCheck = &now
	a.diag.LastLatencyMS = &latencyMS
	if err != nil {
		a.diag.LastError = &now
		a.diag.LastErrorReason = err.Error()
	} else {
		a.diag.LastOK = &now
		a.diag.LastErrorReason = ""
	}
	a.stateMu.Unlock()

	if err != nil {
		a.logger.Debug("printer probe failed",
			"printer_id", a.printer.ID, "connection", a.transport.Info(), "error", err)
		a.transition(false)
		return
	}
	a.transition(true)
}

// Status returns the last known reachability.
func (a *Adapter) Status() Status {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.status
}

// Diagnostics returns a copy of the probe history.
func (a *Adapter) Diagnostics() Diagnostics {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.diag
}

// AddStatusListener registers a transition callback and returns an
// unsubscribe function.
func (a *Adapter) AddStatusListener(fn StatusListener) func() {
	a.stateMu.Lock()
	a.listeners = append(a.listeners, fn)
	idx := len(a.listeners) - 1
	a.stateMu.Unlock()

	return func() {
		a.stateMu.Lock()
		defer a.stateMu.Unlock()
		if idx < len(a.listeners) {
			a.listeners[idx] = nil
		}
	}
}

// transition updates status and notifies listeners on change.
func (a *Adapter) transition(online bool) {
	next := StatusOffline
	if online {
		next = StatusOnline
	}

	a.stateMu.Lock()
	changed := a.status != next
	a.status = next
	var listeners []StatusListener
	if changed {
		listeners = make([]StatusListener, len(a.listeners))
		copy(listeners, a.listeners)
	}
	a.stateMu.Unlock()

	if !changed {
		return
	}
	if !online {
		a.logger.Warn("printer not reachable",
			"printer_id", a.printer.ID, "connection", a.transport.Info())
	}
	for _, fn := range listeners {
		if fn != nil {
			fn(online)
		}
	}
}

// markSuccess records a completed operation. A successful write is
// proof of reachability, independent of the probe loop.
func (a *Adapter) markSuccess() {
	now := time.Now().UTC()
	a.stateMu.Lock()
	a.diag.LastCheck = &now
	a.diag.LastOK = &now
	a.diag.LastErrorReason = ""
	a.stateMu.Unlock()
	a.transition(true)
}

func (a *Adapter) markFailure(err error) {
	now := time.Now().UTC()
	a.stateMu.Lock()
	a.diag.LastCheck = &now
	a.diag.LastError = &now
	a.diag.LastErrorReason = err.Error()
	a.stateMu.Unlock()
	a.transition(false)
}

func (a *Adapter) openLocked(ctx context.Context) error {
	if a.open {
		return nil
	}
	if err := a.transport.Open(ctx); err != nil {
		return err
	}
	a.open = true
	return nil
}

// send delivers one complete command payload to the printer. The
// operation mutex must not be held by the caller.
func (a *Adapter) send(ctx context.Context, payload []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.openLocked(ctx); err != nil {
		a.markFailure(err)
		return 0, err
	}

	n, err := a.transport.Write(payload)
	if err != nil {
		// The connection is suspect after a failed write. Drop it so
		// the next operation reconnects.
		_ = a.transport.Close()
		a.open = false
		a.markFailure(err)
		return n, err
	}

	if !a.keepalive {
		if err := a.transport.Close(); err != nil {
			a.open = false
			a.markFailure(err)
			return n, err
		}
		a.open = false
	}

	a.markSuccess()
	return n, nil
}
