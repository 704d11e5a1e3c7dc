package analysis

import (
	"math"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

// normEpsilon guards min-max normalization against zero-range signals; a
// flat signal normalizes to all zeros instead of dividing by zero.
const normEpsilon = 1e-6

// Estimate locates the likely bat-ball contact frame inside its search
// window.
type Estimate struct {
	ContactFrame int `json:"contact_frame"`
	WindowStart  int `json:"window_start"`
	WindowEnd    int `json:"window_end"`
}

// EstimateContact fuses the wrist-speed and bat-box-speed signals into one
// score curve and returns the peak inside a phase-constrained window.
//
// Pose frames and phase segments are hard requirements. Bat detections are
// optional: without them the bat term is a flat zero curve and the wrist
// term alone decides the peak.
func EstimateContact(frames []pose.Frame, detections []bat.Detection, segments []Segment) (Estimate, error) {
	if len(frames) == 0 {
		return Estimate{}, &MissingInputError{Artifact: "pose landmarks"}
	}
	if len(segments) == 0 {
		return Estimate{}, &MissingInputError{Artifact: "phase segments"}
	}

	wristV := WristSpeed(frames)
	maxFrame := frames[len(frames)-1].Index

	// Dense bat-center sequence over [0, maxFrame]: the highest-confidence
	// detection per frame (first on ties) contributes its bbox center,
	// frames without a detection stay at the origin.
	cx := make([]float64, maxFrame+1)
	cy := make([]float64, maxFrame+1)
	best := make(map[int]bat.Detection, len(detections))
	for _, d := range detections {
		if d.Frame < 0 || d.Frame > maxFrame {
			continue
		}
		if b, ok := best[d.Frame]; !ok || d.Confidence > b.Confidence {
			best[d.Frame] = d
		}
	}
	for f, d := range best {
		cx[f], cy[f] = d.Center()
	}

	gx := gradient(cx)
	gy := gradient(cy)
	batV := make([]float64, maxFrame+1)
	for i := range batV {
		batV[i] = math.Hypot(gx[i], gy[i])
	}

	wristZ := minMaxNormalize(wristV)
	batZ := minMaxNormalize(batV)

	n := len(wristZ)
	if len(batZ) < n {
		n = len(batZ)
	}
	curve := make([]float64, n)
	for i := range curve {
		curve[i] = 0.6*wristZ[i] + 0.4*batZ[i]
	}

	// Search window: the first segment labeled Downswing or Impact, else
	// the entire frame range.
	start, end := 0, maxFrame
	for _, s := range segments {
		if s.Phase == PhaseDownswing || s.Phase == PhaseImpact {
			start, end = s.Start, s.End
			break
		}
	}

	if start < 0 {
		start = 0
	}
	if end > n-1 {
		end = n - 1
	}

	contact := start
	for f := start; f <= end; f++ {
		if curve[f] > curve[contact] {
			contact = f
		}
	}

	return Estimate{ContactFrame: contact, WindowStart: start, WindowEnd: end}, nil
}

// minMaxNormalize rescales x to [0,1] by its own minimum and range.
func minMaxNormalize(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	min, max := x[0], x[0]
	for _, v := range x {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	out := make([]float64, len(x))
	span := max - min + normEpsilon
	for i, v := range x {
		out[i] = (v - min) / span
	}
	return out
}
