package analysis

import (
	"errors"
	"testing"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

func TestEstimateContact_RequiresPose(t *testing.T) {
	segments := []Segment{{Phase: PhaseStance, Start: 0, End: 9}}

	_, err := EstimateContact(nil, nil, segments)

	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingInputError", err)
	}
}

func TestEstimateContact_RequiresPhases(t *testing.T) {
	_, err := EstimateContact(pose.StillFrames(10), nil, nil)

	var missing *MissingInputError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingInputError", err)
	}
}

func TestEstimateContact_WindowContainsContact(t *testing.T) {
	frames := pose.CoverDriveFrames(120)
	segments, err := SegmentPhases(frames)
	if err != nil {
		t.Fatalf("SegmentPhases() error = %v", err)
	}

	est, err := EstimateContact(frames, nil, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}

	if est.ContactFrame < est.WindowStart || est.ContactFrame > est.WindowEnd {
		t.Errorf("contact %d outside window [%d,%d]", est.ContactFrame, est.WindowStart, est.WindowEnd)
	}
}

func TestEstimateContact_WindowMatchesDownswing(t *testing.T) {
	frames := pose.CoverDriveFrames(120)
	segments := []Segment{
		{Phase: PhaseStance, Start: 0, End: 39},
		{Phase: PhaseDownswing, Start: 40, End: 60},
		{Phase: PhaseImpact, Start: 61, End: 65},
		{Phase: PhaseRecovery, Start: 66, End: 119},
	}

	est, err := EstimateContact(frames, nil, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}

	// The first Downswing-or-Impact segment defines the window.
	if est.WindowStart != 40 || est.WindowEnd != 60 {
		t.Errorf("window [%d,%d], want [40,60]", est.WindowStart, est.WindowEnd)
	}
}

func TestEstimateContact_NoSwingPhaseFallsBackToFullRange(t *testing.T) {
	frames := pose.CoverDriveFrames(80)
	segments := []Segment{{Phase: PhaseStance, Start: 0, End: 79}}

	est, err := EstimateContact(frames, nil, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}

	if est.WindowStart != 0 || est.WindowEnd != 79 {
		t.Errorf("window [%d,%d], want full range [0,79]", est.WindowStart, est.WindowEnd)
	}
}

func TestEstimateContact_EmptyBatDetections(t *testing.T) {
	frames := pose.CoverDriveFrames(100)
	segments, err := SegmentPhases(frames)
	if err != nil {
		t.Fatalf("SegmentPhases() error = %v", err)
	}

	// Without detections the bat term is a flat zero curve; the wrist
	// signal alone must still produce a valid estimate.
	est, err := EstimateContact(frames, nil, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}
	if est.ContactFrame < est.WindowStart || est.ContactFrame > est.WindowEnd {
		t.Errorf("contact %d outside window [%d,%d]", est.ContactFrame, est.WindowStart, est.WindowEnd)
	}
}

func TestEstimateContact_FlatSignalPicksFirstFrameOfWindow(t *testing.T) {
	frames := pose.StillFrames(50)
	segments := []Segment{{Phase: PhaseStance, Start: 0, End: 49}}

	est, err := EstimateContact(frames, nil, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}

	// All-zero curve: argmax ties resolve to the first frame.
	if est.ContactFrame != 0 {
		t.Errorf("contact = %d, want 0 on a flat curve", est.ContactFrame)
	}
}

func TestEstimateContact_BatSpeedPullsPeak(t *testing.T) {
	frames := pose.StillFrames(60)
	segments := []Segment{{Phase: PhaseStance, Start: 0, End: 59}}

	// Wrists never move; a bat box jumping at frame 30 is the only
	// motion signal, so the fused peak must land there.
	var detections []bat.Detection
	for f := 0; f < 60; f++ {
		d := bat.Detection{Frame: f, X1: 100, Y1: 100, X2: 140, Y2: 200, Confidence: 0.9}
		if f >= 30 {
			d = bat.Detection{Frame: f, X1: 400, Y1: 300, X2: 440, Y2: 400, Confidence: 0.9}
		}
		detections = append(detections, d)
	}

	est, err := EstimateContact(frames, detections, segments)
	if err != nil {
		t.Fatalf("EstimateContact() error = %v", err)
	}

	if est.ContactFrame < 28 || est.ContactFrame > 32 {
		t.Errorf("contact = %d, want near the bat jump at 30", est.ContactFrame)
	}
}
