package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/database"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/logging"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
	_ "github.com/cognitivegears/ha-escpos-thermal-printer/migrations"
)

const (
	testJWTSecret = "test-secret-0123456789abcdef0123456789abcdef"
	testAdminPass = "hunter2hunter2"
)

// memoryRepo is a map-backed printer.Repository.
type memoryRepo struct {
	mu       sync.Mutex
	printers map[string]*printer.Printer
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{printers: make(map[string]*printer.Printer)}
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*printer.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.printers[id]
	if !ok {
		return nil, printer.ErrPrinterNotFound
	}
	return p.DeepCopy(), nil
}

func (r *memoryRepo) List(context.Context) ([]printer.Printer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.printers))
	for id := range r.printers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]printer.Printer, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.printers[id].DeepCopy())
	}
	return out, nil
}

func (r *memoryRepo) Create(_ context.Context, p *printer.Printer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[p.ID]; ok {
		return printer.ErrPrinterExists
	}
	r.printers[p.ID] = p.DeepCopy()
	return nil
}

func (r *memoryRepo) Update(_ context.Context, p *printer.Printer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[p.ID]; !ok {
		return printer.ErrPrinterNotFound
	}
	r.printers[p.ID] = p.DeepCopy()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.printers[id]; !ok {
		return printer.ErrPrinterNotFound
	}
	delete(r.printers, id)
	return nil
}

// printerSink is a TCP listener standing in for a network printer.
type printerSink struct {
	listener net.Listener
	mu       sync.Mutex
	received []byte
	done     chan struct{}
}

func newPrinterSink(t *testing.T) *printerSink {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("starting printer sink: %v", err)
	}
	s := &printerSink{listener: ln, done: make(chan struct{}, 1)}
	t.Cleanup(func() { ln.Close() })
	go s.accept()
	return s
}

func (s *printerSink) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		data, _ := io.ReadAll(conn)
		conn.Close()
		s.mu.Lock()
		s.received = append(s.received, data...)
		s.mu.Unlock()
		select {
		case s.done <- struct{}{}:
		default:
		}
	}
}

func (s *printerSink) hostPort(t *testing.T) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(s.listener.Addr().String())
	if err != nil {
		t.Fatalf("parsing sink address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

func (s *printerSink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.received...)
}

func testLogger() *logging.Logger {
	return logging.New(config.Logging{Level: "error", Format: "json", Output: "stdout"}, "test")
}

func testAPIConfig() config.API {
	return config.API{
		Timeouts: config.APITimeouts{Read: 5, Write: 5, Idle: 10},
		WebSocket: config.WebSocket{
			PingInterval:   30,
			PongTimeout:    60,
			MaxMessageSize: 65536,
		},
	}
}

func testSecurity() config.Security {
	return config.Security{
		JWT: config.JWT{
			Secret:         testJWTSecret,
			AccessTokenTTL: 60,
		},
		Admin: config.Admin{
			Username: "admin",
			Password: testAdminPass,
		},
	}
}

// newTestServer builds a Server over an in-memory registry and a temp
// SQLite history store, exposed through httptest.
func newTestServer(t *testing.T) (*Server, *httptest.Server, *printer.Registry) {
	t.Helper()

	reg := printer.NewRegistry(newMemoryRepo())
	manager := printer.NewManager(reg, printer.NewImageFetcher(nil, 0), nil)
	t.Cleanup(manager.Close)

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	jobs := history.NewRepository(db.DB)
	recorder := history.NewRecorder(jobs, nil, nil, history.DefaultRetain)

	s, err := New(Deps{
		Config:   testAPIConfig(),
		Security: testSecurity(),
		Logger:   testLogger(),
		Registry: reg,
		Manager:  manager,
		Recorder: recorder,
		Jobs:     jobs,
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.hub = NewHub(s.cfg.WebSocket, s.logger)
	go s.hub.Run(ctx)

	ts := httptest.NewServer(s.buildRouter())
	t.Cleanup(ts.Close)
	return s, ts, reg
}

// login obtains a bearer token from the login endpoint.
func login(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body := `{"username":"admin","password":"` + testAdminPass + `"}`
	resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	return lr.AccessToken
}

// doRequest performs an authenticated JSON request against the test server.
func doRequest(t *testing.T, ts *httptest.Server, token, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeMap(t, resp)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

func TestLogin(t *testing.T) {
	_, ts, _ := newTestServer(t)

	token := login(t, ts)
	if token == "" {
		t.Fatal("expected non-empty access token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"username":"admin","password":"nope"}`},
		{"wrong username", `{"username":"root","password":"` + testAdminPass + `"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/auth/login", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("login request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	_, ts, _ := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, ts, tt.token, http.MethodGet, "/api/v1/printers", "")
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	_, ts, _ := newTestServer(t)

	// Token signed by a different server instance with a different secret.
	other, err := New(Deps{
		Config: testAPIConfig(),
		Security: config.Security{
			JWT:   config.JWT{Secret: "another-secret-another-secret-ab", AccessTokenTTL: 60},
			Admin: config.Admin{Username: "admin", Password: testAdminPass},
		},
		Logger:   testLogger(),
		Registry: printer.NewRegistry(newMemoryRepo()),
		Manager:  printer.NewManager(printer.NewRegistry(newMemoryRepo()), nil, nil),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	otherTS := httptest.NewServer(other.buildRouter())
	defer otherTS.Close()

	token := login(t, otherTS)
	resp := doRequest(t, ts, token, http.MethodGet, "/api/v1/printers", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestNew_MissingDeps(t *testing.T) {
	reg := printer.NewRegistry(newMemoryRepo())
	manager := printer.NewManager(reg, nil, nil)
	defer manager.Close()

	tests := []struct {
		name string
		deps Deps
	}{
		{"no logger", Deps{Registry: reg, Manager: manager, Security: testSecurity()}},
		{"no registry", Deps{Logger: testLogger(), Manager: manager, Security: testSecurity()}},
		{"no manager", Deps{Logger: testLogger(), Registry: reg, Security: testSecurity()}},
		{"no secret", Deps{Logger: testLogger(), Registry: reg, Manager: manager}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}
