package analysis

import (
	"math"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

// BBox is a bat bounding box joined onto a metric row, in pixel space.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Record holds the biomechanical measurements for one frame. Angle and
// distance fields are NaN when the source landmarks are missing; Bat is
// nil when no detection matched the frame.
type Record struct {
	Frame            int
	ElbowAngle       float64
	SpineAngle       float64
	HeadKneeDistance float64
	FootAngle        float64
	Bat              *BBox
}

// ExtractMetrics computes the per-frame measurements from raw landmark
// geometry, joined with bat detections by frame index. Each row depends
// only on its own frame, so rows can be computed in any order.
func ExtractMetrics(frames []pose.Frame, detections []bat.Detection) []Record {
	// First detection in input order per frame.
	batByFrame := make(map[int]*BBox, len(detections))
	for _, d := range detections {
		if _, ok := batByFrame[d.Frame]; !ok {
			batByFrame[d.Frame] = &BBox{X1: d.X1, Y1: d.Y1, X2: d.X2, Y2: d.Y2}
		}
	}

	records := make([]Record, len(frames))
	for i := range frames {
		f := &frames[i]
		records[i] = Record{
			Frame: f.Index,
			ElbowAngle: interiorAngle(
				f.Points[pose.LeftShoulder],
				f.Points[pose.LeftElbow],
				f.Points[pose.LeftWrist],
			),
			SpineAngle:       spineLean(f.Points[pose.LeftHip], f.Points[pose.LeftShoulder]),
			HeadKneeDistance: headKneeDistance(f.Points[pose.Nose], f.Points[pose.LeftKnee]),
			FootAngle:        footAngle(f.Points[pose.LeftHeel], f.Points[pose.LeftFootIndex]),
			Bat:              batByFrame[f.Index],
		}
	}
	return records
}

// interiorAngle returns the angle at b formed by the vectors b->a and b->c,
// in degrees, normalized into [0,360) before the absolute value is taken.
// NaN when any point is missing.
func interiorAngle(a, b, c pose.Point) float64 {
	if a.Missing() || b.Missing() || c.Missing() {
		return math.NaN()
	}
	ang := (math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)) * 180 / math.Pi
	if ang >= 0 {
		return math.Abs(ang)
	}
	return math.Abs(ang + 360)
}

// spineLean returns the absolute angle in degrees between the hip-shoulder
// line and vertical. The atan2 arguments are swapped so the reference axis
// is vertical rather than horizontal.
func spineLean(hip, shoulder pose.Point) float64 {
	if hip.Missing() || shoulder.Missing() {
		return math.NaN()
	}
	dx := shoulder.X - hip.X
	dy := shoulder.Y - hip.Y
	return math.Abs(math.Atan2(dx, dy) * 180 / math.Pi)
}

// headKneeDistance returns the head-to-front-knee distance in the landmark
// coordinate space, a proxy for how steady the head stays over the knee.
func headKneeDistance(head, knee pose.Point) float64 {
	if head.Missing() || knee.Missing() {
		return math.NaN()
	}
	return pose.Distance(head, knee)
}

// footAngle returns the absolute angle in degrees of the heel-to-toe
// vector against horizontal.
func footAngle(heel, toe pose.Point) float64 {
	if heel.Missing() || toe.Missing() {
		return math.NaN()
	}
	return math.Abs(math.Atan2(toe.Y-heel.Y, toe.X-heel.X) * 180 / math.Pi)
}
