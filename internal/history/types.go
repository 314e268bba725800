package history

import "time"

// Job statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Job sources.
const (
	SourceMQTT = "mqtt"
	SourceAPI  = "api"
)

// Job is one recorded print operation, successful or not.
type Job struct {
	ID           string     `json:"id"`
	PrinterID    string     `json:"printer_id"`
	Operation    string     `json:"operation"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	Error        string     `json:"error,omitempty"`
	BytesWritten int        `json:"bytes_written"`
	DurationMS   int64      `json:"duration_ms"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
