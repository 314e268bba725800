package printer

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// probeTimeoutCeiling caps reachability probes so a generous operation
// timeout does not stall the status loop.
const probeTimeoutCeiling = 3 * time.Second

// networkTransport drives a TCP/IP printer, conventionally on port
// 9100 (JetDirect raw printing).
type networkTransport struct {
	host    string
	port    int
	timeout time.Duration
	conn    net.Conn
}

func newNetworkTransport(host string, port int, timeout time.Duration) *networkTransport {
	return &networkTransport{host: host, port: port, timeout: timeout}
}

func (t *networkTransport) addr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

func (t *networkTransport) Open(ctx context.Context) error {
	if t.conn != nil {
		return nil
	}
	dialer := net.Dialer{Timeout: t.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr())
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", t.addr(), err)
	}
	t.conn = conn
	return nil
}

func (t *networkTransport) Write(p []byte) (int, error) {
	if t.conn == nil {
		return 0, ErrTransportClosed
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
		return 0, fmt.Errorf("setting write deadline: %w", err)
	}
	n, err := t.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to %s: %w", t.addr(), err)
	}
	return n, nil
}

func (t *networkTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// Probe opens a throwaway TCP connection to measure reachability. The
// keepalive connection, if any, stays untouched.
func (t *networkTransport) Probe(ctx context.Context) (time.Duration, error) {
	timeout := t.timeout
	if timeout > probeTimeoutCeiling {
		timeout = probeTimeoutCeiling
	}
	dialer := net.Dialer{Timeout: timeout}
	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", t.addr())
	latency := time.Since(start)
	if err != nil {
		return latency, fmt.Errorf("probing %s: %w", t.addr(), err)
	}
	_ = conn.Close()
	return latency, nil
}

func (t *networkTransport) Info() string {
	return t.addr()
}
