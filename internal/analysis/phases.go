package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

// Phase names one stage of the swing motion.
type Phase string

// Swing phases in canonical order. Stance is the initial state, Recovery
// the terminal one; a phase whose trigger never fires is skipped and no
// phase recurs once passed.
const (
	PhaseStance        Phase = "Stance"
	PhaseStride        Phase = "Stride"
	PhaseDownswing     Phase = "Downswing"
	PhaseImpact        Phase = "Impact"
	PhaseFollowThrough Phase = "Follow-through"
	PhaseRecovery      Phase = "Recovery"
)

// Segment is one labeled, contiguous span of frames. The full segment list
// covers the frame range gaplessly with no overlap.
type Segment struct {
	Phase Phase `json:"phase"`
	Start int   `json:"start"`
	End   int   `json:"end"`
}

// Len returns the segment duration in frames, inclusive of both ends.
func (s Segment) Len() int {
	return s.End - s.Start + 1
}

// percentile returns the pth percentile of x with linear interpolation.
func percentile(x []float64, p float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil)
}

// SegmentPhases walks the wrist-velocity and torso-rotation signals through
// a deterministic state machine and returns the labeled phase intervals.
//
// Thresholds are computed once over the whole sequence (20th and 75th
// percentile of wrist speed, 70th of rotation rate), so segmentation is two
// explicit passes: statistics, then the state walk.
func SegmentPhases(frames []pose.Frame) ([]Segment, error) {
	if len(frames) == 0 {
		return nil, &MissingInputError{Artifact: "pose landmarks"}
	}

	wristV := WristSpeed(frames)
	rotRate := TorsoRotationRate(frames)

	idleV := percentile(wristV, 20)
	swingV := percentile(wristV, 75)
	rotateThr := percentile(rotRate, 70)

	var segments []Segment
	state := PhaseStance
	startFrame := frames[0].Index

	push := func(phase Phase, start, end int) {
		segments = append(segments, Segment{Phase: phase, Start: start, End: end})
	}

	for i := 1; i < len(frames); i++ {
		v := wristV[i]
		rot := rotRate[i]
		frame := frames[i].Index
		prev := frames[i-1].Index

		switch state {
		case PhaseStance:
			if v > idleV*1.5 || rot > rotateThr*0.7 {
				push(PhaseStance, startFrame, prev)
				state = PhaseStride
				startFrame = frame
			}

		case PhaseStride:
			// approaching bat lift / early motion
			if v > swingV*0.7 || rot > rotateThr {
				push(PhaseStride, startFrame, prev)
				state = PhaseDownswing
				startFrame = frame
			}

		case PhaseDownswing:
			// peak wrist velocity typically near impact; a drop just
			// after a peak above swingV means impact happened. The peak
			// frame stays in Downswing, Impact opens at the next frame.
			if i > 2 && wristV[i-1] > v && wristV[i-1] > swingV {
				push(PhaseDownswing, startFrame, prev)
				state = PhaseImpact
				startFrame = frame
			}

		case PhaseImpact:
			// Impact is brief; move quickly to Follow-through.
			if v < swingV*0.9 {
				push(PhaseImpact, startFrame, prev)
				state = PhaseFollowThrough
				startFrame = frame
			}

		case PhaseFollowThrough:
			// velocities decaying
			if v < idleV*1.2 && rot < rotateThr*0.5 {
				push(PhaseFollowThrough, startFrame, prev)
				state = PhaseRecovery
				startFrame = frame
			}

		case PhaseRecovery:
			// terminal
		}
	}

	// The open phase is flushed unconditionally at the final frame, so
	// coverage is gapless whatever state the walk ended in.
	push(state, startFrame, frames[len(frames)-1].Index)

	return segments, nil
}
