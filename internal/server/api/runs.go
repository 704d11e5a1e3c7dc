// Package api provides the HTTP API handlers for the analysis service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

// Starter launches analysis runs in the background.
type Starter interface {
	Start(input string) (*store.Run, error)
}

// RunsHandler handles HTTP requests for run resources.
type RunsHandler struct {
	store  *store.Store
	runner Starter
}

// NewRunsHandler creates a new RunsHandler with the given store and runner.
func NewRunsHandler(s *store.Store, runner Starter) *RunsHandler {
	return &RunsHandler{store: s, runner: runner}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/runs or /api/runs/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/runs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createRunRequest struct {
	VideoURL string `json:"video_url"`
}

type runResponse struct {
	ID        string `json:"id"`
	VideoURL  string `json:"video_url"`
	VideoPath string `json:"video_path,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listRunsResponse struct {
	Runs []runResponse `json:"runs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toRunResponse converts a store.Run to a runResponse.
func toRunResponse(run *store.Run) runResponse {
	return runResponse{
		ID:        run.ID,
		VideoURL:  run.VideoURL,
		VideoPath: run.VideoPath,
		Status:    string(run.Status),
		Error:     run.Error,
		CreatedAt: run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: run.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/runs and returns all runs, newest first.
func (h *RunsHandler) list(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.Runs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	response := listRunsResponse{
		Runs: make([]runResponse, 0, len(runs)),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/runs/{id} and returns a single run.
func (h *RunsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	run, err := h.store.Runs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, toRunResponse(run))
}

// create handles POST /api/runs: it records the run and starts the analysis
// pipeline in the background.
func (h *RunsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VideoURL == "" {
		writeError(w, http.StatusBadRequest, "video_url is required")
		return
	}
	if h.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "Analysis runner not available")
		return
	}

	run, err := h.runner.Start(req.VideoURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start run")
		return
	}

	writeJSON(w, http.StatusAccepted, toRunResponse(run))
}

// delete handles DELETE /api/runs/{id} and removes a run with its artifacts.
func (h *RunsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Runs().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete run")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
