package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

func TestExtractMetrics_RowPerFrame(t *testing.T) {
	frames := pose.CoverDriveFrames(40)

	records := ExtractMetrics(frames, nil)
	if len(records) != 40 {
		t.Fatalf("got %d records, want 40", len(records))
	}
	for i, r := range records {
		if r.Frame != frames[i].Index {
			t.Errorf("record %d has frame %d, want %d", i, r.Frame, frames[i].Index)
		}
	}
}

func TestExtractMetrics_ElbowRightAngle(t *testing.T) {
	f := pose.EmptyFrame(0)
	// Shoulder straight above the elbow, wrist straight right of it.
	f.Points[pose.LeftShoulder] = pose.Point{X: 0.5, Y: 0.4, Visibility: 1}
	f.Points[pose.LeftElbow] = pose.Point{X: 0.5, Y: 0.5, Visibility: 1}
	f.Points[pose.LeftWrist] = pose.Point{X: 0.6, Y: 0.5, Visibility: 1}

	records := ExtractMetrics([]pose.Frame{f}, nil)
	if got := records[0].ElbowAngle; math.Abs(got-90) > 1e-9 {
		t.Errorf("elbow angle = %v, want 90", got)
	}
}

func TestExtractMetrics_FlatFootIsZeroDegrees(t *testing.T) {
	f := pose.EmptyFrame(0)
	f.Points[pose.LeftHeel] = pose.Point{X: 0.4, Y: 0.9, Visibility: 1}
	f.Points[pose.LeftFootIndex] = pose.Point{X: 0.5, Y: 0.9, Visibility: 1}

	records := ExtractMetrics([]pose.Frame{f}, nil)
	if got := records[0].FootAngle; got != 0 {
		t.Errorf("foot angle = %v, want 0 for a level foot", got)
	}
}

func TestExtractMetrics_MissingLandmarksYieldNulls(t *testing.T) {
	frames := pose.StillFrames(10)
	for i := range frames {
		frames[i].Points[pose.Nose] = pose.MissingPoint()
		frames[i].Points[pose.LeftKnee] = pose.MissingPoint()
	}

	records := ExtractMetrics(frames, nil)
	for i, r := range records {
		if !math.IsNaN(r.HeadKneeDistance) {
			t.Errorf("record %d head-knee = %v, want NaN with missing landmarks", i, r.HeadKneeDistance)
		}
		// Other metrics are unaffected.
		if math.IsNaN(r.ElbowAngle) {
			t.Errorf("record %d elbow should still be computed", i)
		}
	}
}

func TestExtractMetrics_BatJoinFirstDetectionWins(t *testing.T) {
	frames := pose.StillFrames(5)
	detections := []bat.Detection{
		{Frame: 2, X1: 10, Y1: 20, X2: 30, Y2: 40, Confidence: 0.4},
		{Frame: 2, X1: 99, Y1: 99, X2: 100, Y2: 100, Confidence: 0.9},
	}

	records := ExtractMetrics(frames, detections)

	if records[2].Bat == nil {
		t.Fatal("frame 2 should carry a bat box")
	}
	if records[2].Bat.X1 != 10 {
		t.Errorf("bat x1 = %v, want the first detection in input order", records[2].Bat.X1)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if records[i].Bat != nil {
			t.Errorf("frame %d should have no bat box", i)
		}
	}
}

func TestExtractMetrics_OrderIndependent(t *testing.T) {
	frames := pose.CoverDriveFrames(50)
	detections := []bat.Detection{
		{Frame: 10, X1: 1, Y1: 2, X2: 3, Y2: 4, Confidence: 0.8},
		{Frame: 25, X1: 5, Y1: 6, X2: 7, Y2: 8, Confidence: 0.7},
	}

	byFrame := make(map[int]Record)
	for _, r := range ExtractMetrics(frames, detections) {
		byFrame[r.Frame] = r
	}

	shuffled := make([]pose.Frame, len(frames))
	copy(shuffled, frames)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, r := range ExtractMetrics(shuffled, detections) {
		want := byFrame[r.Frame]
		if !sameRecord(r, want) {
			t.Fatalf("frame %d differs after permutation: %+v vs %+v", r.Frame, r, want)
		}
	}
}

func sameRecord(a, b Record) bool {
	if a.Frame != b.Frame {
		return false
	}
	if !sameFloat(a.ElbowAngle, b.ElbowAngle) ||
		!sameFloat(a.SpineAngle, b.SpineAngle) ||
		!sameFloat(a.HeadKneeDistance, b.HeadKneeDistance) ||
		!sameFloat(a.FootAngle, b.FootAngle) {
		return false
	}
	if (a.Bat == nil) != (b.Bat == nil) {
		return false
	}
	return a.Bat == nil || *a.Bat == *b.Bat
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
