package printer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// cupsTransport spools raw bytes to a CUPS queue by shelling out to
// lp. The queue must be configured raw (no filter chain), otherwise
// CUPS mangles the ESC/POS stream. Writes buffer in memory and the
// job is submitted on Close.
type cupsTransport struct {
	queue   string
	timeout time.Duration
	buf     *bytes.Buffer
}

func newCUPSTransport(queue string, timeout time.Duration) *cupsTransport {
	return &cupsTransport{queue: queue, timeout: timeout}
}

func (t *cupsTransport) Open(_ context.Context) error {
	if t.buf == nil {
		t.buf = &bytes.Buffer{}
	}
	return nil
}

func (t *cupsTransport) Write(p []byte) (int, error) {
	if t.buf == nil {
		return 0, ErrTransportClosed
	}
	return t.buf.Write(p)
}

// Close submits the buffered job. An empty buffer submits nothing.
func (t *cupsTransport) Close() error {
	if t.buf == nil {
		return nil
	}
	data := t.buf.Bytes()
	t.buf = nil
	if len(data) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "lp", "-d", t.queue, "-o", "raw", "-s", "--")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("spooling to queue %s: %w: %s", t.queue, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Probe asks lpstat whether the queue exists and is enabled.
func (t *cupsTransport) Probe(ctx context.Context) (time.Duration, error) {
	probeCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	out, err := exec.CommandContext(probeCtx, "lpstat", "-p", t.queue).CombinedOutput()
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("probing queue %s: %w: %s", t.queue, err, strings.TrimSpace(string(out)))
	}
	if strings.Contains(strings.ToLower(string(out)), "disabled") {
		return latency, fmt.Errorf("probing queue %s: queue is disabled", t.queue)
	}
	return latency, nil
}

func (t *cupsTransport) Info() string {
	return "cups:" + t.queue
}
