package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/netdevd/internal/brand"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/metrics"
	"grimm.is/netdevd/internal/profile"
	"grimm.is/netdevd/internal/setting"
)

const maxBodyBytes = 1 << 20

// ServerConfig holds HTTP server timeouts and limits.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration // Slowloris prevention
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Websocket streams outlive any write timeout; they set their own
		// per-message deadlines.
		WriteTimeout:   0,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

// DeviceManager is the part of the device manager the API drives.
type DeviceManager interface {
	Devices() []device.Info
	Device(name string) (device.Info, bool)
	SetManaged(name string, managed bool) error
	AvailableConnections(name string) ([]*setting.Connection, error)
	GenerateConnection(name string) (*setting.Connection, error)
	RepairConnection(name, uuid string) (*setting.Connection, error)
	ProfileChanged(uuid string) ([]string, error)
}

// Server handles API requests.
type Server struct {
	devices  DeviceManager
	store    profile.Store
	hub      *events.Hub
	metrics  *metrics.Registry
	gatherer prometheus.Gatherer
	log      *logging.Logger

	mux *http.ServeMux
}

// ServerOptions holds dependencies for the API server
type ServerOptions struct {
	Devices DeviceManager
	Store   profile.Store
	Hub     *events.Hub // Optional: enables /api/ws/events
	Metrics *metrics.Registry
	// Gatherer backs /metrics; defaults to the default Prometheus registry.
	Gatherer prometheus.Gatherer
	Logger   *logging.Logger
}

// NewServer creates a new API server with the provided options
func NewServer(opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.WithComponent("api")
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		devices:  opts.Devices,
		store:    opts.Store,
		hub:      opts.Hub,
		metrics:  opts.Metrics,
		gatherer: gatherer,
		log:      logger,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := s.mux

	mux.HandleFunc("GET /api/version", s.handleVersion)

	mux.HandleFunc("GET /api/devices", s.handleDevices)
	mux.HandleFunc("GET /api/devices/{name}", s.handleDevice)
	mux.HandleFunc("GET /api/devices/{name}/profiles", s.handleDeviceProfiles)
	mux.HandleFunc("POST /api/devices/{name}/profile", s.handleDeviceProfile)
	mux.HandleFunc("PUT /api/devices/{name}/managed", s.handleDeviceManaged)

	mux.HandleFunc("GET /api/profiles", s.handleProfiles)
	mux.HandleFunc("PUT /api/profiles/{uuid}", s.handlePutProfile)
	mux.HandleFunc("DELETE /api/profiles/{uuid}", s.handleDeleteProfile)

	mux.HandleFunc("GET /api/logs", s.handleLogs)
	mux.HandleFunc("GET /api/ws/events", s.handleEventsWS)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.accessLog(s.mux)
}

// Serve serves the API on l until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	cfg := DefaultServerConfig()
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(l)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.log.Info("API server starting", "addr", l.Addr().String())
	return s.Serve(ctx, l)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"name":    brand.Name,
		"version": brand.Version,
		"commit":  brand.GitCommit,
	})
}
