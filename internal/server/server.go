package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/abhijit2512/EDUTALK-WEBAPP/internal/video"
)

// StateReporter reports the store connectivity state for /health
type StateReporter interface {
	State() string
}

// Options configures the HTTP surface
type Options struct {
	// Gate guards create and delete routes; nil leaves them open
	Gate *video.Gate
	// APIKeyHeader is the request header carrying the shared secret
	APIKeyHeader string
	// Health reports the store state; nil reports "unknown"
	Health StateReporter
	// Static holds front-end bundle roots, searched in order
	Static []fs.FS
	// CORSOrigins lists allowed origins; "*" allows all
	CORSOrigins []string
	// RequestsPerMinute limits API requests per client IP
	RequestsPerMinute int
	// WritesPerSecond and WriteBurst throttle mutating routes globally
	WritesPerSecond float64
	WriteBurst      int
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	DBState string `json:"dbState"`
	Uptime  string `json:"uptime"`
}

// Server handles HTTP requests for the video API, metrics and the front-end bundle
type Server struct {
	videos    *video.Service
	opts      Options
	router    chi.Router
	server    *http.Server
	static    *staticHandler
	writes    *rate.Limiter
	startTime time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(videos *video.Service, opts Options) *Server {
	if opts.Gate == nil {
		opts.Gate = video.NewGate("")
	}
	if opts.APIKeyHeader == "" {
		opts.APIKeyHeader = "X-API-Key"
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 600
	}
	if opts.WritesPerSecond <= 0 {
		opts.WritesPerSecond = 20
	}
	if opts.WriteBurst <= 0 {
		opts.WriteBurst = 40
	}

	s := &Server{
		videos:    videos,
		opts:      opts,
		static:    newStaticHandler(opts.Static),
		writes:    rate.NewLimiter(rate.Limit(opts.WritesPerSecond), opts.WriteBurst),
		startTime: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes.
// API routes are registered before the static bundle so the SPA fallback
// can never shadow a JSON endpoint.
func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(cors(s.opts.CORSOrigins, s.opts.APIKeyHeader))
	r.Use(countRequests)

	limit := perIPLimit(s.opts.RequestsPerMinute)
	api := func(r chi.Router) {
		r.Use(limit)

		r.Get("/health", s.handleHealth)
		r.Get("/videos", s.handleList)
		r.With(s.requireAPIKey, s.throttleWrites).Post("/videos", s.handleCreate)
		r.With(s.requireAPIKey, s.throttleWrites).Delete("/videos", s.handleBulkDelete)
		r.With(s.throttleWrites).Post("/videos/{id}/comments", s.handleAddComment)
		r.With(s.throttleWrites).Post("/videos/{id}/ratings", s.handleAddRating)
		r.With(s.requireAPIKey, s.throttleWrites).Delete("/videos/{id}", s.handleDelete)
	}

	// 1. API, canonical paths and the legacy /api prefix
	r.Group(api)
	r.Route("/api", func(r chi.Router) {
		api(r)
		r.NotFound(handleNotFound)
		r.MethodNotAllowed(handleMethodNotAllowed)
	})
	r.Handle("/metrics", promhttp.Handler())

	// 2. Explicit static files, 3. SPA fallback
	r.Get("/", s.static.serveRoot)
	r.Get("/*", s.static.ServeHTTP)
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	s.router = r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles the /health endpoint.
// It always answers 200; dbState carries the store connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "unknown"
	if s.opts.Health != nil {
		state = s.opts.Health.State()
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		DBState: state,
		Uptime:  s.GetUptime().Round(time.Second).String(),
	})
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
