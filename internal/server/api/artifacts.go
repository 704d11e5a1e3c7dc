package api

import (
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/analysis"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

// ArtifactsHandler serves the analysis artifacts of a run as JSON:
// /api/runs/{id}/evaluation, /phases, /metrics and /contact.
type ArtifactsHandler struct {
	store *store.Store
}

// NewArtifactsHandler creates a new ArtifactsHandler with the given store.
func NewArtifactsHandler(s *store.Store) *ArtifactsHandler {
	return &ArtifactsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *ArtifactsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected path: /api/runs/{id}/{resource}
	path := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	id, resource := parts[0], parts[1]

	if _, err := h.store.Runs().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get run")
		return
	}

	artifact, err := h.store.Artifacts().GetByRunAndStage(id, resource)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Artifact not available")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get artifact")
		return
	}

	switch resource {
	case "evaluation":
		h.evaluation(w, artifact.Path)
	case "phases":
		h.phases(w, artifact.Path)
	case "metrics":
		h.metrics(w, artifact.Path)
	case "contact":
		h.contact(w, artifact.Path)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type listPhasesResponse struct {
	Phases []analysis.Segment `json:"phases"`
}

// metricRecordResponse mirrors analysis.Record with nulls for missing
// values, which encoding/json cannot represent as NaN.
type metricRecordResponse struct {
	Frame            int            `json:"frame"`
	ElbowAngle       *float64       `json:"elbow_angle"`
	SpineAngle       *float64       `json:"spine_angle"`
	HeadKneeDistance *float64       `json:"head_knee_distance"`
	FootAngle        *float64       `json:"foot_angle"`
	Bat              *analysis.BBox `json:"bat,omitempty"`
}

type listMetricsResponse struct {
	Metrics []metricRecordResponse `json:"metrics"`
}

// nullable returns nil for NaN so the JSON encoding carries null.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func toMetricResponse(rec analysis.Record) metricRecordResponse {
	return metricRecordResponse{
		Frame:            rec.Frame,
		ElbowAngle:       nullable(rec.ElbowAngle),
		SpineAngle:       nullable(rec.SpineAngle),
		HeadKneeDistance: nullable(rec.HeadKneeDistance),
		FootAngle:        nullable(rec.FootAngle),
		Bat:              rec.Bat,
	}
}

func (h *ArtifactsHandler) evaluation(w http.ResponseWriter, path string) {
	eval, err := analysis.ReadEvaluationJSON(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read evaluation")
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

func (h *ArtifactsHandler) phases(w http.ResponseWriter, path string) {
	segments, err := analysis.ReadPhasesCSV(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read phases")
		return
	}
	writeJSON(w, http.StatusOK, listPhasesResponse{Phases: segments})
}

func (h *ArtifactsHandler) metrics(w http.ResponseWriter, path string) {
	records, err := analysis.ReadMetricsCSV(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read metrics")
		return
	}

	response := listMetricsResponse{
		Metrics: make([]metricRecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		response.Metrics = append(response.Metrics, toMetricResponse(rec))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ArtifactsHandler) contact(w http.ResponseWriter, path string) {
	est, err := analysis.ReadContactJSON(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read contact estimate")
		return
	}
	writeJSON(w, http.StatusOK, est)
}
