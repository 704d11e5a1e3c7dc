package pose

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadCSV_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pose.csv")

	frames := []Frame{
		baseFrame(0),
		EmptyFrame(1),
		baseFrame(2),
	}
	// Knock out a single landmark to exercise per-cell nulls.
	frames[2].Points[LeftKnee] = MissingPoint()

	if err := WriteCSV(path, frames); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(got) != len(frames) {
		t.Fatalf("read %d frames, want %d", len(got), len(frames))
	}

	for i := range frames {
		if got[i].Index != frames[i].Index {
			t.Errorf("frame %d index = %d, want %d", i, got[i].Index, frames[i].Index)
		}
		for j := 0; j < NumLandmarks; j++ {
			want := frames[i].Points[j]
			have := got[i].Points[j]
			if want.Missing() != have.Missing() {
				t.Fatalf("frame %d landmark %d missing = %v, want %v", i, j, have.Missing(), want.Missing())
			}
			if want.Missing() {
				continue
			}
			if math.Abs(want.X-have.X) > 1e-12 || math.Abs(want.Y-have.Y) > 1e-12 {
				t.Errorf("frame %d landmark %d = (%v,%v), want (%v,%v)", i, j, have.X, have.Y, want.X, want.Y)
			}
		}
	}
}

func TestWriteCSV_EmptySequence(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pose.csv")

	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no frames, got %d", len(got))
	}
}

func TestReadCSV_MissingFile(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadCSV_BadHeader(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pose.csv")

	if err := os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := ReadCSV(path); err == nil {
		t.Fatal("expected error for malformed header")
	}
}
