package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/history"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/config"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/infrastructure/logging"
	"github.com/cognitivegears/ha-escpos-thermal-printer/internal/printer"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.API
	Security config.Security
	Logger   *logging.Logger
	Registry *printer.Registry
	Manager  *printer.Manager
	Recorder *history.Recorder
	Jobs     *history.Repository
	Version  string
}

// Server is the HTTP API server for escposd.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.API
	secCfg   config.Security
	logger   *logging.Logger
	registry *printer.Registry
	manager  *printer.Manager
	recorder *history.Recorder
	jobs     *history.Repository
	version  string
	server   *http.Server
	hub      *Hub
	tickets  *ticketStore
	cancel   context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("printer registry is required")
	}
	if deps.Manager == nil {
		return nil, fmt.Errorf("printer manager is required")
	}
	if deps.Security.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &Server{
		cfg:      deps.Config,
		secCfg:   deps.Security,
		logger:   deps.Logger,
		registry: deps.Registry,
		manager:  deps.Manager,
		recorder: deps.Recorder,
		jobs:     deps.Jobs,
		version:  deps.Version,
		tickets:  newTicketStore(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, wires job completion and
// printer status events into the hub, and launches the HTTP listener in a
// background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.cfg.WebSocket, s.logger)
	go s.hub.Run(srvCtx)
	go s.cleanTicketsLoop(srvCtx)

	// Relay job completions and status transitions to WebSocket subscribers.
	if s.recorder != nil {
		s.recorder.OnJob(func(job history.Job) {
			s.hub.Broadcast(ChannelJobCompleted, job)
		})
	}
	s.manager.OnStatus(func(printerID string, online bool) {
		s.hub.Broadcast(ChannelPrinterStatus, statusEvent{
			PrinterID: printerID,
			Online:    online,
		})
	})

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// statusEvent is the payload broadcast on printer status transitions.
type statusEvent struct {
	PrinterID string `json:"printer_id"`
	Online    bool   `json:"online"`
}
