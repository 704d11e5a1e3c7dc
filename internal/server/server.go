// Package server provides the HTTP server for the swing analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/config"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/server/api"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store    *store.Store
	Runner   *pipeline.Runner
	Settings config.Config
}

// Server represents the HTTP server for the analysis service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// artifactResources are the run subresources served from recorded artifacts.
var artifactResources = []string{"/evaluation", "/phases", "/metrics", "/contact"}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		runsHandler := api.NewRunsHandler(s.config.Store, starter(s.config.Runner))
		artifactsHandler := api.NewArtifactsHandler(s.config.Store)
		videoHandler := NewVideoHandler(s.config.Store, s.config.Settings.FPS)

		// Route between run CRUD and its subresources:
		// /api/runs/{id}/{evaluation,phases,metrics,contact,video}
		runsRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/video"):
				videoHandler.ServeHTTP(w, r)
			case isArtifactResource(r.URL.Path):
				artifactsHandler.ServeHTTP(w, r)
			default:
				runsHandler.ServeHTTP(w, r)
			}
		})

		s.mux.Handle("/api/runs", runsRouter)
		s.mux.Handle("/api/runs/", runsRouter)
	}

	// Register the progress WebSocket if a runner is configured
	if s.config.Runner != nil {
		progressHandler := NewProgressHandler()
		s.config.Runner.Subscribe(progressHandler)
		s.mux.Handle("/ws/progress", progressHandler)
	}
}

// starter adapts a possibly-nil Runner to the api.Starter interface without
// handing the api package a typed nil.
func starter(r *pipeline.Runner) api.Starter {
	if r == nil {
		return nil
	}
	return r
}

func isArtifactResource(path string) bool {
	for _, suffix := range artifactResources {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
