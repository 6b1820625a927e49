// Package server wires the bloomgrid HTTP surface: static distribution
// hosting, the JSON API, the viewer page, and its SSE handlers.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/urbanbloom/bloomgrid/internal/api"
	"github.com/urbanbloom/bloomgrid/internal/observability"
	"github.com/urbanbloom/bloomgrid/internal/store"
	"github.com/urbanbloom/bloomgrid/internal/templates"
	"github.com/urbanbloom/bloomgrid/internal/viewer"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Path to web/ directory for the viewer page and fragments
	// StoreURL is the base URL the view controller fetches distribution
	// files from. Empty means this server's own /geojson/ mount.
	StoreURL string
	Logger   zerolog.Logger
}

// Server is the bloomgrid HTTP server.
type Server struct {
	config     Config
	mux        *http.ServeMux
	humaAPI    huma.API
	store      *store.Store
	presenter  *viewer.Presenter
	controller *viewer.Controller
	renderer   *templates.Renderer
	logger     zerolog.Logger
}

// New creates a new bloomgrid server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("bloomgrid API", api.Version)
	humaConfig.Info.Description = "Flowering-tree hexagon distribution API: per-month H3 cells, derived legends, and the interactive viewer."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}

	humaAPI := humago.New(mux, humaConfig)

	storeURL := cfg.StoreURL
	if storeURL == "" {
		storeURL = fmt.Sprintf("http://%s:%s", displayHost(cfg.Host), cfg.Port)
	}

	metrics := observability.NewMetrics()
	fetcher := store.NewFetcher(storeURL, 30*time.Second, cfg.Logger)
	presenter := viewer.NewPresenter(viewer.BangaloreViewport)
	controller := viewer.NewController(fetcher, presenter, metrics, cfg.Logger)

	var renderer *templates.Renderer
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		if r, err := templates.New(fragmentsDir); err == nil {
			renderer = r
		} else {
			cfg.Logger.Warn().Err(err).Str("dir", fragmentsDir).Msg("viewer fragments not loaded")
		}
	}

	s := &Server{
		config:     cfg,
		mux:        mux,
		humaAPI:    humaAPI,
		store:      store.New(cfg.DataDir),
		presenter:  presenter,
		controller: controller,
		renderer:   renderer,
		logger:     cfg.Logger,
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	RequestLogger(s.logger, s.mux).ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close releases the presenter binding; no SSE pushes fire afterward.
func (s *Server) Close() error {
	s.presenter.Close()
	return nil
}

func (s *Server) routes() {
	// JSON API (OpenAPI-documented)
	handler := api.NewAPIHandler(s.store, s.config.DataDir)
	handler.RegisterRoutes(s.humaAPI)

	// Viewer SSE routes need the fragment templates
	if s.renderer != nil {
		viewerHandler := api.NewViewerHandler(s.controller, s.presenter, s.renderer)
		viewerHandler.RegisterRoutes(s.humaAPI)
	}

	// Raw distribution files, the contract consumed by the fetcher
	s.mux.Handle("/geojson/", http.StripPrefix("/geojson/", s.handleDistribution()))

	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

// handleDistribution serves the per-month GeoJSON files with CORS
// headers so remote viewers can consume them directly.
func (s *Server) handleDistribution() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.FileServer(http.Dir(s.store.Dir())).ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"service":"bloomgrid","status":"running"}`)
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	templatePath := filepath.Join(s.config.WebDir, "templates", "viewer.html")
	http.ServeFile(w, r, templatePath)
}

// displayHost maps the wildcard bind address to something dialable.
func displayHost(host string) string {
	if host == "0.0.0.0" || host == "" {
		return "localhost"
	}
	return host
}
