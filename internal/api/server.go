package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/transcodeargs/internal/api/models"
	"github.com/smazurov/transcodeargs/internal/events"
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
	"github.com/smazurov/transcodeargs/internal/logging"
	"github.com/smazurov/transcodeargs/internal/state"
	"github.com/smazurov/transcodeargs/internal/version"
)

// StateStore is the read side of the state file.
type StateStore interface {
	Get(name string) (*state.StreamState, error)
	Names() []string
}

// Options configures the API server.
type Options struct {
	AuthUsername string
	AuthPassword string

	// Resolver returns the resolver for the current profile. Required.
	Resolver func() *ffmpeg.Resolver
	// States serves /api/states. Optional.
	States StateStore
	// EventBus receives resolution events and feeds /api/events. Optional.
	EventBus *events.Bus
	// PrometheusHandler is mounted at /metrics without auth. Optional.
	PrometheusHandler http.Handler
}

// Server is the HTTP adapter around the resolver.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer builds the mux, the huma API and all routes.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	cors := DefaultCORSConfig()
	AddCORSHandler(mux, cors)

	config := huma.DefaultConfig("transcodeargs API", version.Get().Version)
	config.Info.Description = "Resolves ffmpeg arguments for progressive transcodes from negotiated stream states"
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {Type: "http", Scheme: "basic"},
	}

	api := humago.New(mux, config)

	bus := opts.EventBus
	if bus == nil {
		bus = events.New()
	}

	s := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		eventBus: bus,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(cors))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	s.registerRoutes()
	return s
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server", "addr", addr, "docs", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
// SSE connections are closed when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{Body: models.HealthData{Status: "ok", Message: "API is healthy"}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get()}, nil
	})

	s.registerCodecRoutes()
	s.registerResolveRoutes()
	s.registerStateRoutes()
	s.registerEventRoutes()
	s.registerLogRoutes()
}

// withAuth marks an operation as requiring basic auth when it is enabled.
func withAuth() []map[string][]string {
	return []map[string][]string{{"basicAuth": {}}}
}
