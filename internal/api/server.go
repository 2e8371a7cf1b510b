// Package api provides the diagnostics HTTP API and WebSocket stream
// for the Topband bridge.
//
// It exposes the device registry read-only (the write path is the
// entity layer, not HTTP) and relays every inbound point update to
// connected WebSocket clients. The server follows the same lifecycle
// pattern as the other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/topband-bridge/internal/device"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/config"
	"github.com/nerrad567/topband-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/topband-bridge/internal/point"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Registry *device.Registry
	Version  string
}

// Server is the diagnostics HTTP server.
//
// It manages the HTTP listener, routes, the WebSocket hub, and the
// point listeners feeding it. The server is created with New() and
// started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	registry *device.Registry
	version  string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc

	// detach undoes the per-point listener registrations on Close.
	detach []func()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		registry: deps.Registry,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, registers one listener per data point so
// inbound updates reach WebSocket clients, and launches the HTTP
// listener in a background goroutine. The server is stopped with
// Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.watchPoints()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It detaches the point listeners, stops the WebSocket hub, and waits
// up to 10 seconds for in-flight requests to complete.
func (s *Server) Close() error {
	for _, detach := range s.detach {
		detach()
	}
	s.detach = nil

	if s.cancel != nil {
		s.cancel()
	}

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// buildRouter creates the HTTP router with all routes.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Route("/api/devices", func(r chi.Router) {
		r.Get("/", s.handleListDevices)
		r.Route("/{mac}", func(r chi.Router) {
			r.Get("/", s.handleGetDevice)
			r.Get("/points", s.handleDevicePoints)
		})
	})
	r.Get(s.wsCfg.Path, s.handleWebSocket)

	return r
}

// handleHealth returns basic liveness information.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.registry.Count(),
	})
}

// watchPoints registers a hub-broadcast listener on every data point of
// every registered device. Registration happens once at startup; the
// registry is static after bootstrap.
func (s *Server) watchPoints() {
	for _, dev := range s.registry.All() {
		mac := dev.MAC
		for _, p := range dev.Points() {
			p := p
			handle := p.AddListener(func() {
				s.broadcastPointUpdate(mac, p)
			})
			s.detach = append(s.detach, func() { p.RemoveListener(handle) })
		}
	}
}

// broadcastPointUpdate pushes one point's current value to all
// connected WebSocket clients.
func (s *Server) broadcastPointUpdate(mac string, p *point.Point) {
	value, err := p.Value()
	if err != nil {
		// Codec failure: relay the raw wire value rather than dropping
		// the update.
		value = p.Raw()
	}
	s.hub.Broadcast(pointUpdate{
		MAC:   mac,
		Point: p.Name(),
		Value: value,
	})
}

// pointUpdate is one WebSocket stream event.
type pointUpdate struct {
	MAC   string `json:"mac"`
	Point string `json:"point"`
	Value any    `json:"value"`
}
