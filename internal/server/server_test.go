package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/config"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pipeline"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

type testServer struct {
	server *Server
	store  *store.Store
	runner *pipeline.Runner
	input  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()

	s, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	input := filepath.Join(dir, "input.mp4")
	if err := os.WriteFile(input, []byte("raw footage"), 0o644); err != nil {
		t.Fatalf("failed to write input video: %v", err)
	}

	settings := config.Default()
	settings.OutputDir = filepath.Join(dir, "output")

	poseSource := pose.NewMockSource()
	poseSource.SetFrames(pose.CoverDriveFrames(100))

	batDetector := bat.NewMockDetector()
	batDetector.SetDetections(bat.SwingDetections(100, 55))

	runner := pipeline.New(pipeline.Config{
		Store:      s,
		Settings:   settings,
		Pose:       poseSource,
		Bat:        batDetector,
		Downloader: &pipeline.MockDownloader{},
		Normalizer: &pipeline.MockNormalizer{},
		Renderer:   &pipeline.MockRenderer{},
	})

	srv := New(Config{Store: s, Runner: runner, Settings: settings})
	return &testServer{server: srv, store: s, runner: runner, input: input}
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
}

func TestServer_Health_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestServer_ListRuns_Empty(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Runs []any `json:"runs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Runs) != 0 {
		t.Errorf("expected no runs, got %d", len(resp.Runs))
	}
}

func TestServer_RoutesArtifactSubresources(t *testing.T) {
	ts := newTestServer(t)

	// An unknown run should reach the artifacts handler and 404 as JSON.
	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope/evaluation", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error from artifacts handler, got content type %q", ct)
	}
}

func TestServer_VideoForUnknownRunNotFound(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope/video", nil)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
