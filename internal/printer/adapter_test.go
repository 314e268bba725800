package printer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

// fakeTransport records transport calls for adapter tests.
type fakeTransport struct {
	opens   int
	closes  int
	writes  [][]byte
	opened  bool
	failOpen  error
	failWrite error
	failProbe error
}

func (f *fakeTransport) Open(context.Context) error {
	if f.failOpen != nil {
		return f.failOpen
	}
	f.opens++
	f.opened = true
	return nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.failWrite != nil {
		return 0, f.failWrite
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	f.writes = append(f.writes, cp)
	return len(p), nil
}

func (f *fakeTransport) Close() error {
	f.closes++
	f.opened = false
	return nil
}

func (f *fakeTransport) Probe(context.Context) (time.Duration, error) {
	if f.failProbe != nil {
		return time.Millisecond, f.failProbe
	}
	return time.Millisecond, nil
}

func (f *fakeTransport) Info() string { return "fake" }

// payload returns all written bytes concatenated.
func (f *fakeTransport) payload() []byte {
	var buf bytes.Buffer
	for _, w := range f.writes {
		buf.Write(w)
	}
	return buf.Bytes()
}

func testAdapter(t *testing.T, mutate func(*Printer)) (*Adapter, *fakeTransport) {
	t.Helper()
	p := validNetworkPrinter()
	if mutate != nil {
		mutate(p)
	}
	ft := &fakeTransport{}
	return newAdapterWithTransport(p, ft), ft
}

func TestSend_PerOperationConnection(t *testing.T) {
	a, ft := testAdapter(t, nil)

	n, err := a.send(context.Background(), []byte{0x1B, '@'})
	if err != nil {
		t.Fatalf("send() error = %v", err)
	}
	if n != 2 {
		t.Errorf("send() n = %d, want 2", n)
	}
	if ft.opens != 1 || ft.closes != 1 {
		t.Errorf("opens = %d closes = %d, want 1 and 1", ft.opens, ft.closes)
	}
	if a.Status() != StatusOnline {
		t.Errorf("Status() = %s, want online after successful send", a.Status())
	}
}

func TestSend_KeepaliveHoldsConnection(t *testing.T) {
	a, ft := testAdapter(t, func(p *Printer) { p.Keepalive = true })

	for i := 0; i < 3; i++ {
		if _, err := a.send(context.Background(), []byte{'x'}); err != nil {
			t.Fatalf("send() error = %v", err)
		}
	}
	if ft.opens != 1 {
		t.Errorf("opens = %d, want 1 with keepalive", ft.opens)
	}
	if ft.closes != 0 {
		t.Errorf("closes = %d, want 0 with keepalive", ft.closes)
	}

	a.Stop()
	if ft.closes != 1 {
		t.Errorf("closes after Stop = %d, want 1", ft.closes)
	}
}

func TestSend_WriteFailureDropsConnection(t *testing.T) {
	a, ft := testAdapter(t, func(p *Printer) { p.Keepalive = true })
	ft.failWrite = errors.New("broken pipe")

	if _, err := a.send(context.Background(), []byte{'x'}); err == nil {
		t.Fatal("send() error = nil, want error")
	}
	if ft.closes != 1 {
		t.Errorf("closes = %d, want 1 after failed write", ft.closes)
	}
	if a.Status() != StatusOffline {
		t.Errorf("Status() = %s, want offline after failed write", a.Status())
	}
	diag := a.Diagnostics()
	if diag.LastErrorReason == "" {
		t.Error("Diagnostics().LastErrorReason empty after failure")
	}
	if diag.LastError == nil {
		t.Error("Diagnostics().LastError nil after failure")
	}

	// The next send reconnects.
	ft.failWrite = nil
	if _, err := a.send(context.Background(), []byte{'x'}); err != nil {
		t.Fatalf("send() after recovery error = %v", err)
	}
	if ft.opens != 2 {
		t.Errorf("opens = %d, want 2 after reconnect", ft.opens)
	}
}

func TestCheckStatus_Transitions(t *testing.T) {
	a, ft := testAdapter(t, nil)

	var events []bool
	a.AddStatusListener(func(online bool) { events = append(events, online) })

	a.CheckStatus(context.Background())
	if a.Status() != StatusOnline {
		t.Fatalf("Status() = %s, want online", a.Status())
	}

	ft.failProbe = errors.New("connection refused")
	a.CheckStatus(context.Background())
	a.CheckStatus(context.Background()) // no duplicate notification
	if a.Status() != StatusOffline {
		t.Fatalf("Status() = %s, want offline", a.Status())
	}

	want := []bool{true, false}
	if len(events) != len(want) {
		t.Fatalf("listener events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, events[i], want[i])
		}
	}

	diag := a.Diagnostics()
	if diag.LastCheck == nil || diag.LastOK == nil || diag.LastError == nil {
		t.Error("Diagnostics timestamps incomplete after online and offline checks")
	}
	if diag.LastLatencyMS == nil {
		t.Error("Diagnostics().LastLatencyMS nil")
	}
}

func TestAddStatusListener_Unsubscribe(t *testing.T) {
	a, ft := testAdapter(t, nil)

	var calls int
	remove := a.AddStatusListener(func(bool) { calls++ })
	remove()

	ft.failProbe = errors.New("down")
	a.CheckStatus(context.Background())
	if calls != 0 {
		t.Errorf("listener called %d times after unsubscribe", calls)
	}
}

func TestNewAdapter_KeepaliveOnlyForNetwork(t *testing.T) {
	p := validNetworkPrinter()
	p.ConnectionType = ConnectionUSB
	p.DevicePath = "/dev/usb/lp0"
	p.Keepalive = true

	a, err := NewAdapter(p, nil)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	if a.keepalive {
		t.Error("keepalive honoured for usb printer")
	}
}
