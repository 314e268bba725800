package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsWriter receives job metrics. Satisfied by the influxdb client;
// a nil writer disables metrics.
type MetricsWriter interface {
	WriteJobMetric(printerID, operation, status string, bytes int, duration time.Duration)
}

// DefaultRetain is the number of job records kept by pruning.
const DefaultRetain = 1000

// pruneInterval is how many inserts pass between prune sweeps.
const pruneInterval = 100

// Recorder wraps print operations with job bookkeeping: a SQLite
// record, optional InfluxDB metrics, and listener notification for
// the WebSocket event stream.
type Recorder struct {
	repo    *Repository
	metrics MetricsWriter
	logger  Logger
	retain  int

	mu           sync.Mutex
	listeners    []func(Job)
	insertsSince int
}

// NewRecorder builds a recorder. metrics may be nil; retain <= 0
// applies DefaultRetain.
func NewRecorder(repo *Repository, metrics MetricsWriter, logger Logger, retain int) *Recorder {
	if logger == nil {
		logger = noopLogger{}
	}
	if retain <= 0 {
		retain = DefaultRetain
	}
	return &Recorder{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		retain:  retain,
	}
}

// OnJob registers a listener invoked after every recorded job.
func (r *Recorder) OnJob(fn func(Job)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Track runs a print operation and records its outcome. The operation
// error passes through unchanged; recording failures are logged, not
// returned, so a full history table never blocks printing.
func (r *Recorder) Track(ctx context.Context, printerID, operation, source string, fn func(context.Context) (int, error)) error {
	start := time.Now().UTC()
	bytesWritten, opErr := fn(ctx)
	completed := time.Now().UTC()

	job := Job{
		ID:           uuid.New().String(),
		PrinterID:    printerID,
		Operation:    operation,
		Source:       source,
		Status:       StatusOK,
		BytesWritten: bytesWritten,
		DurationMS:   completed.Sub(start).Milliseconds(),
		CreatedAt:    start,
		CompletedAt:  &completed,
	}
	if opErr != nil {
		job.Status = StatusError
		job.Error = opErr.Error()
	}

	if err := r.repo.Insert(ctx, &job); err != nil {
		r.logger.Error("recording print job", "job_id", job.ID, "error", err)
	} else {
		r.maybePrune(ctx)
	}

	if r.metrics != nil {
		r.metrics.WriteJobMetric(printerID, operation, job.Status,
			bytesWritten, completed.Sub(start))
	}

	r.mu.Lock()
	listeners := make([]func(Job), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(job)
	}

	return opErr
}

func (r *Recorder) maybePrune(ctx context.Context) {
	r.mu.Lock()
	r.insertsSince++
	due := r.insertsSince >= pruneInterval
	if due {
		r.insertsSince = 0
	}
	r.mu.Unlock()
	if !due {
		return
	}

	removed, err := r.repo.Prune(ctx, r.retain)
	if err != nil {
		r.logger.Warn("pruning job history", "error", err)
		return
	}
	if removed > 0 {
		r.logger.Debug("job history pruned", "removed", removed, "retain", r.retain)
	}
}
