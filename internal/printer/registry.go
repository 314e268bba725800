package printer

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeKind identifies what happened to a printer entry.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeListener receives registry mutations. Used to tear down
// adapters and republish Home Assistant discovery configs.
type ChangeListener func(kind ChangeKind, p *Printer)

// Registry provides printer management with caching and thread safety.
// It wraps a Repository and keeps an in-memory cache synchronized by
// the mutating operations.
//
// All public methods are thread-safe. Returned printers are deep
// copies; callers can modify them freely.
type Registry struct {
	repo    Repository
	cache   map[string]*Printer
	cacheMu sync.RWMutex
	logger  Logger

	listeners   []ChangeListener
	listenersMu sync.Mutex
}

// NewRegistry creates a new printer registry.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Printer),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// OnChange registers a listener invoked after every successful
// mutation. Listeners run synchronously on the mutating goroutine.
func (r *Registry) OnChange(fn ChangeListener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Registry) notify(kind ChangeKind, p *Printer) {
	r.listenersMu.Lock()
	listeners := make([]ChangeListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(kind, p.DeepCopy())
	}
}

// RefreshCache reloads all printers from the repository. Call once on
// startup before serving requests.
func (r *Registry) RefreshCache(ctx context.Context) error {
	printers, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading printers: %w", err)
	}

	r.cacheMu.Lock()
	r.cache = make(map[string]*Printer, len(printers))
	for i := range printers {
		p := printers[i]
		r.cache[p.ID] = p.DeepCopy()
	}
	r.cacheMu.Unlock()

	r.logger.Info("printer cache refreshed", "count", len(printers))
	return nil
}

// Get retrieves a printer by ID.
// Returns ErrPrinterNotFound if it does not exist.
func (r *Registry) Get(ctx context.Context, id string) (*Printer, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()
	if ok {
		return cached.DeepCopy(), nil
	}

	p, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()
	return p, nil
}

// List returns all printers sorted by the repository's ordering.
func (r *Registry) List(ctx context.Context) ([]Printer, error) {
	return r.repo.List(ctx)
}

// IDs returns the cached printer IDs. Useful for broadcast fan-out
// without a repository round trip.
func (r *Registry) IDs() []string {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	ids := make([]string, 0, len(r.cache))
	for id := range r.cache {
		ids = append(ids, id)
	}
	return ids
}

// Create validates and inserts a new printer.
func (r *Registry) Create(ctx context.Context, p *Printer) error {
	if err := Validate(p); err != nil {
		return err
	}
	if err := r.repo.Create(ctx, p); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("printer created", "printer_id", p.ID, "connection", p.ConnectionInfo())
	r.notify(ChangeCreated, p)
	return nil
}

// Update validates and modifies an existing printer.
func (r *Registry) Update(ctx context.Context, p *Printer) error {
	if err := Validate(p); err != nil {
		return err
	}
	if err := r.repo.Update(ctx, p); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[p.ID] = p.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("printer updated", "printer_id", p.ID, "connection", p.ConnectionInfo())
	r.notify(ChangeUpdated, p)
	return nil
}

// Delete removes a printer by ID.
func (r *Registry) Delete(ctx context.Context, id string) error {
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("printer deleted", "printer_id", id)
	r.notify(ChangeDeleted, p)
	return nil
}

// Count returns the number of cached printers.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
