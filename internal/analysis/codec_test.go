package analysis

import (
	"math"
	"path/filepath"
	"testing"
)

func TestPhasesCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phases.csv")
	segments := []Segment{
		{Phase: PhaseStance, Start: 0, End: 30},
		{Phase: PhaseDownswing, Start: 31, End: 50},
		{Phase: PhaseRecovery, Start: 51, End: 99},
	}

	if err := WritePhasesCSV(path, segments); err != nil {
		t.Fatalf("WritePhasesCSV() error = %v", err)
	}
	got, err := ReadPhasesCSV(path)
	if err != nil {
		t.Fatalf("ReadPhasesCSV() error = %v", err)
	}

	if len(got) != len(segments) {
		t.Fatalf("got %d segments, want %d", len(got), len(segments))
	}
	for i := range got {
		if got[i] != segments[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], segments[i])
		}
	}
}

func TestMetricsCSV_NullsAndBatBoxesSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")
	records := []Record{
		{Frame: 0, ElbowAngle: 123.4, SpineAngle: 8.2, HeadKneeDistance: 0.12, FootAngle: 31.0,
			Bat: &BBox{X1: 10, Y1: 20, X2: 30, Y2: 40}},
		{Frame: 1, ElbowAngle: math.NaN(), SpineAngle: math.NaN(),
			HeadKneeDistance: math.NaN(), FootAngle: math.NaN()},
	}

	if err := WriteMetricsCSV(path, records); err != nil {
		t.Fatalf("WriteMetricsCSV() error = %v", err)
	}
	got, err := ReadMetricsCSV(path)
	if err != nil {
		t.Fatalf("ReadMetricsCSV() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Bat == nil || *got[0].Bat != *records[0].Bat {
		t.Errorf("bat box = %+v, want %+v", got[0].Bat, records[0].Bat)
	}
	if got[0].ElbowAngle != 123.4 {
		t.Errorf("elbow = %v, want 123.4", got[0].ElbowAngle)
	}
	if !math.IsNaN(got[1].ElbowAngle) || !math.IsNaN(got[1].FootAngle) {
		t.Error("null metrics must read back as NaN")
	}
	if got[1].Bat != nil {
		t.Error("absent bat box must read back as nil")
	}
}

func TestContactJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contact.json")
	est := Estimate{ContactFrame: 52, WindowStart: 40, WindowEnd: 60}

	if err := WriteContactJSON(path, est); err != nil {
		t.Fatalf("WriteContactJSON() error = %v", err)
	}
	got, err := ReadContactJSON(path)
	if err != nil {
		t.Fatalf("ReadContactJSON() error = %v", err)
	}
	if got != est {
		t.Errorf("estimate = %+v, want %+v", got, est)
	}
}

func TestEvaluationJSON_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluation.json")
	eval := Evaluate(flatRecords(10, 130, 5, 10, 32), nil, DefaultThresholds())

	if err := WriteEvaluationJSON(path, eval); err != nil {
		t.Fatalf("WriteEvaluationJSON() error = %v", err)
	}
	got, err := ReadEvaluationJSON(path)
	if err != nil {
		t.Fatalf("ReadEvaluationJSON() error = %v", err)
	}

	for _, cat := range allCategories {
		if got.Scores[cat] != eval.Scores[cat] {
			t.Errorf("%s score = %v, want %v", cat, got.Scores[cat], eval.Scores[cat])
		}
		if got.Feedback[cat] != eval.Feedback[cat] {
			t.Errorf("%s feedback differs after round trip", cat)
		}
	}
}
