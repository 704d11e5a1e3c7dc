package pose

import (
	"context"
	"math"
)

// MockSource is a test implementation of the Source interface.
// It allows tests to control the estimation results.
type MockSource struct {
	frames []Frame
	err    error
}

// NewMockSource creates a new MockSource instance.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// SetFrames sets the frames that will be returned by EstimateVideo.
func (m *MockSource) SetFrames(frames []Frame) {
	m.frames = frames
}

// SetError sets the error that will be returned by EstimateVideo.
func (m *MockSource) SetError(err error) {
	m.err = err
}

// EstimateVideo returns the pre-configured frames or error.
func (m *MockSource) EstimateVideo(ctx context.Context, videoPath string) ([]Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.frames, nil
}

// Close is a no-op for the mock source.
func (m *MockSource) Close() error {
	return nil
}

// baseFrame returns a batter standing side-on, all 33 landmarks placed.
func baseFrame(index int) Frame {
	f := Frame{Index: index}

	set := func(i int, x, y float64) {
		f.Points[i] = Point{X: x, Y: y, Visibility: 0.99}
	}

	set(Nose, 0.50, 0.20)
	set(LeftEyeInner, 0.51, 0.19)
	set(LeftEye, 0.52, 0.19)
	set(LeftEyeOuter, 0.53, 0.19)
	set(RightEyeInner, 0.49, 0.19)
	set(RightEye, 0.48, 0.19)
	set(RightEyeOuter, 0.47, 0.19)
	set(LeftEar, 0.54, 0.20)
	set(RightEar, 0.46, 0.20)
	set(MouthLeft, 0.51, 0.22)
	set(MouthRight, 0.49, 0.22)

	set(LeftShoulder, 0.55, 0.35)
	set(RightShoulder, 0.45, 0.35)
	set(LeftElbow, 0.58, 0.45)
	set(RightElbow, 0.42, 0.45)
	set(LeftWrist, 0.56, 0.55)
	set(RightWrist, 0.44, 0.55)
	set(LeftPinky, 0.57, 0.57)
	set(RightPinky, 0.43, 0.57)
	set(LeftIndex, 0.57, 0.58)
	set(RightIndex, 0.43, 0.58)
	set(LeftThumb, 0.55, 0.56)
	set(RightThumb, 0.45, 0.56)

	set(LeftHip, 0.53, 0.55)
	set(RightHip, 0.47, 0.55)
	set(LeftKnee, 0.54, 0.70)
	set(RightKnee, 0.46, 0.70)
	set(LeftAnkle, 0.54, 0.85)
	set(RightAnkle, 0.46, 0.85)
	set(LeftHeel, 0.55, 0.88)
	set(RightHeel, 0.45, 0.88)
	set(LeftFootIndex, 0.59, 0.87)
	set(RightFootIndex, 0.41, 0.87)

	return f
}

// StillFrames returns n identical frames of a motionless batter.
func StillFrames(n int) []Frame {
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		frames[i] = baseFrame(i)
	}
	return frames
}

// CoverDriveFrames returns a synthetic landmark sequence approximating a
// cover drive: a still stance, a short stride, a downswing accelerating to
// a wrist-speed peak, then decay back to a resting recovery. The wrists
// sweep an arc while the torso rotates a few degrees through the shot.
func CoverDriveFrames(n int) []Frame {
	frames := make([]Frame, n)

	const radius = 0.25
	phi := math.Pi / 2

	for i := 0; i < n; i++ {
		f := baseFrame(i)
		rotateShoulders(&f, torsoAngleAt(i, n))

		phi += wristStep(i, n) / radius
		wx := 0.5 + radius*math.Cos(phi)
		wy := 0.5 + radius*math.Sin(phi)
		f.Points[LeftWrist] = Point{X: wx, Y: wy, Visibility: 0.99}
		f.Points[RightWrist] = Point{X: wx - 0.02, Y: wy + 0.01, Visibility: 0.99}

		frames[i] = f
	}
	return frames
}

// wristStep is the per-frame wrist displacement for CoverDriveFrames:
// near-still stance, gentle stride, a ramp to the swing peak, then decay.
func wristStep(i, n int) float64 {
	stanceEnd := 35 * n / 100
	strideEnd := 45 * n / 100
	peak := 55 * n / 100
	decayEnd := 75 * n / 100

	switch {
	case i < stanceEnd:
		return 0.0005
	case i < strideEnd:
		return 0.002
	case i <= peak:
		t := float64(i-strideEnd) / math.Max(1, float64(peak-strideEnd))
		return 0.008 + t*(0.05-0.008)
	case i < decayEnd:
		t := float64(i-peak) / math.Max(1, float64(decayEnd-peak))
		return 0.04 - t*(0.04-0.003)
	default:
		return 0.0005
	}
}

// torsoAngleAt gives the shoulder-line rotation in degrees, a smooth bump
// through the active part of the swing and zero while standing still.
func torsoAngleAt(i, n int) float64 {
	a := 35 * n / 100
	b := 75 * n / 100
	if i < a || i >= b || b <= a {
		return 0
	}
	t := float64(i-a) / float64(b-a)
	return 3 * math.Sin(math.Pi*t)
}

// rotateShoulders rotates both shoulder landmarks about the torso centre.
func rotateShoulders(f *Frame, deg float64) {
	if deg == 0 {
		return
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	const cx, cy = 0.5, 0.35

	for _, idx := range []int{LeftShoulder, RightShoulder} {
		p := f.Points[idx]
		dx, dy := p.X-cx, p.Y-cy
		f.Points[idx] = Point{
			X:          cx + dx*cos - dy*sin,
			Y:          cy + dx*sin + dy*cos,
			Visibility: p.Visibility,
		}
	}
}
