// Package analysis implements the motion-signal analysis and scoring
// pipeline for a cover drive: kinematic feature derivation, phase
// segmentation, contact-frame estimation, biomechanical metrics, and the
// 1-10 category evaluation.
package analysis

import (
	"math"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

// shoulderEpsilon floors the inter-shoulder distance so velocity
// normalization never divides by zero.
const shoulderEpsilon = 1e-6

// gradient returns the discrete gradient of x: central differences in the
// interior, one-sided differences at the boundaries.
func gradient(x []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = x[1] - x[0]
	g[n-1] = x[n-1] - x[n-2]
	for i := 1; i < n-1; i++ {
		g[i] = (x[i+1] - x[i-1]) / 2
	}
	return g
}

// sanitize replaces NaN and Inf with zero so a missing landmark degrades
// to a motionless signal instead of poisoning downstream statistics.
func sanitize(x []float64) []float64 {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			x[i] = 0
		}
	}
	return x
}

// JointVelocity returns the per-frame speed of one landmark, normalized by
// the inter-shoulder distance of the same frame to reduce sensitivity to
// subject scale. Frames with missing landmarks contribute zero.
func JointVelocity(frames []pose.Frame, joint int) []float64 {
	n := len(frames)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range frames {
		xs[i] = frames[i].Points[joint].X
		ys[i] = frames[i].Points[joint].Y
	}

	vx := gradient(xs)
	vy := gradient(ys)

	v := make([]float64, n)
	for i := range v {
		w := math.Max(shoulderEpsilon, frames[i].ShoulderWidth())
		v[i] = math.Hypot(vx[i], vy[i]) / w
	}
	return sanitize(v)
}

// WristSpeed combines left and right wrist velocity by taking the per-frame
// maximum, so the batter's handedness need not be known in advance.
func WristSpeed(frames []pose.Frame) []float64 {
	left := JointVelocity(frames, pose.LeftWrist)
	right := JointVelocity(frames, pose.RightWrist)
	v := make([]float64, len(frames))
	for i := range v {
		v[i] = math.Max(left[i], right[i])
	}
	return v
}

// TorsoAngle returns the shoulder-line orientation per frame, in degrees,
// as the angle of the left-to-right shoulder vector. Missing shoulders
// yield zero.
func TorsoAngle(frames []pose.Frame) []float64 {
	ang := make([]float64, len(frames))
	for i := range frames {
		l := frames[i].Points[pose.LeftShoulder]
		r := frames[i].Points[pose.RightShoulder]
		ang[i] = math.Atan2(r.Y-l.Y, r.X-l.X) * 180 / math.Pi
	}
	return sanitize(ang)
}

// TorsoRotationRate returns the absolute per-frame change of the torso
// angle, the rotation signal driving phase transitions.
func TorsoRotationRate(frames []pose.Frame) []float64 {
	rate := gradient(TorsoAngle(frames))
	for i, v := range rate {
		rate[i] = math.Abs(v)
	}
	return sanitize(rate)
}
