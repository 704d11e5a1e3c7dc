package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestRun() *Run {
	return &Run{
		ID:       uuid.New().String(),
		VideoURL: "https://youtube.com/shorts/vSX3IRxGnNY",
	}
}

func TestRunRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := newTestRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if run.Status != RunStatusPending {
		t.Errorf("expected default status %q, got %q", RunStatusPending, run.Status)
	}
	if run.CreatedAt.IsZero() {
		t.Error("created_at should be set on create")
	}
}

func TestRunRepository_GetByID(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := newTestRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}

	if got.ID != run.ID {
		t.Errorf("expected id %q, got %q", run.ID, got.ID)
	}
	if got.VideoURL != run.VideoURL {
		t.Errorf("expected video url %q, got %q", run.VideoURL, got.VideoURL)
	}
	if got.Status != RunStatusPending {
		t.Errorf("expected status %q, got %q", RunStatusPending, got.Status)
	}
}

func TestRunRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Runs().GetByID(uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	for i := 0; i < 3; i++ {
		if err := repo.Create(newTestRun()); err != nil {
			t.Fatalf("failed to create run %d: %v", i, err)
		}
	}

	runs, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 runs, got %d", len(runs))
	}
}

func TestRunRepository_SetStatus(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := newTestRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := repo.SetStatus(run.ID, RunStatusFailed, "pose estimation failed"); err != nil {
		t.Fatalf("failed to set status: %v", err)
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.Status != RunStatusFailed {
		t.Errorf("expected status %q, got %q", RunStatusFailed, got.Status)
	}
	if got.Error != "pose estimation failed" {
		t.Errorf("expected error text to be persisted, got %q", got.Error)
	}
}

func TestRunRepository_SetStatus_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Runs().SetStatus(uuid.New().String(), RunStatusRunning, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := newTestRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	run.VideoPath = "/tmp/output/video_raw.mp4"
	run.Status = RunStatusRunning
	if err := repo.Update(run); err != nil {
		t.Fatalf("failed to update run: %v", err)
	}

	got, err := repo.GetByID(run.ID)
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if got.VideoPath != run.VideoPath {
		t.Errorf("expected video path %q, got %q", run.VideoPath, got.VideoPath)
	}
	if got.Status != RunStatusRunning {
		t.Errorf("expected status %q, got %q", RunStatusRunning, got.Status)
	}
}

func TestRunRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Runs()

	run := newTestRun()
	if err := repo.Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := repo.Delete(run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	_, err := repo.GetByID(run.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRunRepository_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Runs().Delete(uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunRepository_Delete_CascadesArtifacts(t *testing.T) {
	s := newTestStore(t)

	run := newTestRun()
	if err := s.Runs().Create(run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	artifact := &Artifact{
		ID:     uuid.New().String(),
		RunID:  run.ID,
		Stage:  "pose",
		Path:   "/tmp/output/pose.csv",
		SHA256: "abc123",
	}
	if err := s.Artifacts().Upsert(artifact); err != nil {
		t.Fatalf("failed to upsert artifact: %v", err)
	}

	if err := s.Runs().Delete(run.ID); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}

	artifacts, err := s.Artifacts().ListByRun(run.ID)
	if err != nil {
		t.Fatalf("failed to list artifacts: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("expected artifacts to cascade on run delete, got %d remaining", len(artifacts))
	}
}
