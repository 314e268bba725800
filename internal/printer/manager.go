package printer

import (
	"context"
	"sync"
)

// StatusEventFunc receives printer online/offline transitions with the
// printer they belong to.
type StatusEventFunc func(printerID string, online bool)

// Manager owns one adapter per registered printer. Adapters are
// created lazily on first use and torn down when the registry entry
// changes or disappears, so a config edit always takes effect on the
// next operation.
type Manager struct {
	registry *Registry
	fetcher  *ImageFetcher
	logger   Logger
	defaults Defaults

	mu       sync.Mutex
	adapters map[string]*Adapter
	closed   bool

	statusMu sync.Mutex
	onStatus []StatusEventFunc
}

// NewManager builds a manager bound to a registry. Registry mutations
// invalidate the affected adapter.
func NewManager(registry *Registry, fetcher *ImageFetcher, logger Logger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	m := &Manager{
		registry: registry,
		fetcher:  fetcher,
		logger:   logger,
		adapters: make(map[string]*Adapter),
	}
	registry.OnChange(func(kind ChangeKind, p *Printer) {
		if kind == ChangeUpdated || kind == ChangeDeleted {
			m.invalidate(p.ID)
		}
	})
	return m
}

// OnStatus registers a callback for printer status transitions. The
// callback attaches to every existing adapter and to adapters created
// later, so registration order relative to StartAll does not matter.
func (m *Manager) OnStatus(fn StatusEventFunc) {
	m.statusMu.Lock()
	m.onStatus = append(m.onStatus, fn)
	m.statusMu.Unlock()

	m.mu.Lock()
	adapters := make([]*Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.mu.Unlock()

	for _, a := range adapters {
		id := a.Printer().ID
		a.AddStatusListener(func(online bool) { fn(id, online) })
	}
}

// SetDefaults stores the configuration defaults applied to printers
// before their adapters are built. Call before the first adapter is
// created; existing adapters keep the values they were built with
// until invalidated.
func (m *Manager) SetDefaults(d Defaults) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults = d
}

// Fetcher returns the shared image fetcher.
func (m *Manager) Fetcher() *ImageFetcher {
	return m.fetcher
}

// Adapter returns the adapter for a printer, creating and starting it
// on first use. Returns ErrPrinterNotFound for unknown IDs.
func (m *Manager) Adapter(ctx context.Context, id string) (*Adapter, error) {
	m.mu.Lock()
	if a, ok := m.adapters[id]; ok {
		m.mu.Unlock()
		return a, nil
	}
	m.mu.Unlock()

	p, err := m.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defaults := m.defaults
	m.mu.Unlock()
	defaults.Apply(p)

	a, err := NewAdapter(p, m.logger)
	if err != nil {
		return nil, err
	}

	m.statusMu.Lock()
	for _, fn := range m.onStatus {
		fn := fn
		a.AddStatusListener(func(online bool) { fn(p.ID, online) })
	}
	m.statusMu.Unlock()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		a.Stop()
		return nil, ErrTransportClosed
	}
	if existing, ok := m.adapters[id]; ok {
		// Lost the creation race; keep the established adapter.
		m.mu.Unlock()
		return existing, nil
	}
	m.adapters[id] = a
	m.mu.Unlock()

	if err := a.Start(ctx); err != nil {
		m.invalidate(id)
		return nil, err
	}
	return a, nil
}

// StartAll eagerly creates adapters for every registered printer.
// Called at daemon startup so keepalive connections and status loops
// begin without waiting for the first job.
func (m *Manager) StartAll(ctx context.Context) {
	for _, id := range m.registry.IDs() {
		if _, err := m.Adapter(ctx, id); err != nil {
			m.logger.Warn("starting printer adapter", "printer_id", id, "error", err)
		}
	}
}

// invalidate stops and removes the adapter for a printer.
func (m *Manager) invalidate(id string) {
	m.mu.Lock()
	a, ok := m.adapters[id]
	delete(m.adapters, id)
	m.mu.Unlock()
	if ok {
		a.Stop()
	}
}

// Close stops every adapter. The manager rejects new adapters after.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	adapters := make([]*Adapter, 0, len(m.adapters))
	for _, a := range m.adapters {
		adapters = append(adapters, a)
	}
	m.adapters = make(map[string]*Adapter)
	m.mu.Unlock()

	for _, a := range adapters {
		a.Stop()
	}
}
