package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Values(t *testing.T) {
	cfg := Default()

	if cfg.FPS != 30 {
		t.Errorf("default fps = %v, want 30", cfg.FPS)
	}
	if cfg.Width() != 1280 || cfg.Height() != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", cfg.Width(), cfg.Height())
	}
	if cfg.Bat.Confidence != 0.3 {
		t.Errorf("default bat confidence = %v, want 0.3", cfg.Bat.Confidence)
	}
	if cfg.Evaluation.ElbowAngleThreshold != 110 {
		t.Errorf("default elbow threshold = %v, want 110", cfg.Evaluation.ElbowAngleThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	content := []byte(`
video_url: "https://example.com/drive.mp4"
fps: 25
resolution: [640, 480]
bat:
  confidence: 0.5
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.VideoURL != "https://example.com/drive.mp4" {
		t.Errorf("video_url = %q", cfg.VideoURL)
	}
	if cfg.FPS != 25 {
		t.Errorf("fps = %v, want 25", cfg.FPS)
	}
	if cfg.Width() != 640 || cfg.Height() != 480 {
		t.Errorf("resolution = %dx%d, want 640x480", cfg.Width(), cfg.Height())
	}
	if cfg.Bat.Confidence != 0.5 {
		t.Errorf("bat confidence = %v, want 0.5", cfg.Bat.Confidence)
	}

	// Settings absent from the file keep their defaults.
	if cfg.OutputDir != "output" {
		t.Errorf("output_dir = %q, want default", cfg.OutputDir)
	}
	if cfg.Evaluation.SpineLeanThreshold != 10 {
		t.Errorf("spine threshold = %v, want default 10", cfg.Evaluation.SpineLeanThreshold)
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit settings path")
	}
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "settings.yaml")

	if err := os.WriteFile(path, []byte("fps: -5\n"), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative fps")
	}
}

func TestValidate_Resolution(t *testing.T) {
	cfg := Default()
	cfg.Resolution = []int{1280}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for one-element resolution")
	}

	cfg.Resolution = []int{0, 720}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestBatWeightsPath(t *testing.T) {
	cfg := Default()
	cfg.ModelsDir = "models"
	cfg.Bat.Weights = "bat.onnx"

	want := filepath.Join("models", "bat.onnx")
	if got := cfg.BatWeightsPath(); got != want {
		t.Errorf("BatWeightsPath() = %q, want %q", got, want)
	}
}
