// Package pose provides body landmark types and pose estimation sources
// for swing analysis.
package pose

import "math"

// Body landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Point represents one body landmark in normalized image coordinates,
// with x and y in [0,1] of frame width/height. A landmark the estimator
// could not place has NaN coordinates.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

// Missing reports whether the landmark was not detected in its frame.
func (p Point) Missing() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// MissingPoint returns the sentinel value for an undetected landmark.
func MissingPoint() Point {
	return Point{X: math.NaN(), Y: math.NaN(), Visibility: math.NaN()}
}

// Frame holds the 33 body landmarks estimated for one video frame.
type Frame struct {
	Index  int                 `json:"frame"`
	Points [NumLandmarks]Point `json:"points"`
}

// EmptyFrame returns a Frame with every landmark missing, used for frames
// where the estimator found no subject.
func EmptyFrame(index int) Frame {
	f := Frame{Index: index}
	for i := range f.Points {
		f.Points[i] = MissingPoint()
	}
	return f
}

// Point returns the landmark at index i and whether it was detected.
func (f *Frame) Point(i int) (Point, bool) {
	p := f.Points[i]
	return p, !p.Missing()
}

// Distance returns the Euclidean distance between two landmarks.
// The result is NaN when either point is missing.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ShoulderWidth returns the inter-shoulder distance for the frame, the
// scale reference used to normalize pixel-space motion.
func (f *Frame) ShoulderWidth() float64 {
	return Distance(f.Points[LeftShoulder], f.Points[RightShoulder])
}
