package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Evaluation category names, the keys of Evaluation.Scores and Feedback.
const (
	CategoryFootwork      = "Footwork"
	CategoryHeadPosition  = "Head Position"
	CategorySwingControl  = "Swing Control"
	CategoryBalance       = "Balance"
	CategoryFollowThrough = "Follow-through"
)

// footTarget is the ideal front-foot angle in degrees: an open but not
// over-rotated stance.
const footTarget = 30.0

// goodCutoff separates the "good" feedback line from the "needs
// improvement" one, on the normalized [0,1] sub-score.
const goodCutoff = 0.6

// Thresholds are the scoring reference values, configurable per run.
type Thresholds struct {
	ElbowAngle       float64
	SpineLean        float64
	HeadKneeDistance float64
}

// DefaultThresholds returns the stock scoring thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ElbowAngle:       110,
		SpineLean:        10,
		HeadKneeDistance: 15,
	}
}

// Evaluation is the final summary artifact: a 1-10 score and one feedback
// line per category.
type Evaluation struct {
	Scores   map[string]float64 `json:"scores"`
	Feedback map[string]string  `json:"feedback"`
}

// feedbackLines holds the two fixed strings per category: [0] when the
// sub-score clears goodCutoff, [1] otherwise.
var feedbackLines = map[string][2]string{
	CategoryFootwork: {
		"Nice base. Try adjusting your front-foot angle closer to ~30° for cleaner alignment.",
		"Work on planting the front foot ~30° open; over/under rotation is affecting stability.",
	},
	CategoryHeadPosition: {
		"Head stays steady over the knee — solid!",
		"Keep your head more stable through the shot; minimize side drift.",
	},
	CategorySwingControl: {
		"Elbow extension looks controlled through impact.",
		"Avoid over-folding the elbow before impact; feel the bat extend through the line.",
	},
	CategoryBalance: {
		"Spine angle is compact — good balance.",
		"Reduce spine lean; think 'tall chest' to keep balance over the stance.",
	},
	CategoryFollowThrough: {
		"Follow-through duration is healthy; let the bat finish high.",
		"Let the bat continue naturally after impact; avoid cutting the swing short.",
	},
}

// Evaluate converts aggregate metric statistics and phase durations into
// the five category scores with feedback. A metric whose mean cannot be
// computed (all rows null) substitutes its threshold, giving a
// deterministic fallback score rather than an error; absent phase data
// falls back to a neutral 0.6 for Follow-through.
func Evaluate(records []Record, segments []Segment, thr Thresholds) Evaluation {
	elbow, elbowOK := metricMean(records, func(r Record) float64 { return r.ElbowAngle })
	spine, spineOK := metricMean(records, func(r Record) float64 { return r.SpineAngle })
	hk, hkOK := metricMean(records, func(r Record) float64 { return r.HeadKneeDistance })
	foot, footOK := metricMean(records, func(r Record) float64 { return r.FootAngle })

	if !elbowOK {
		elbow = thr.ElbowAngle
	}
	if !spineOK {
		spine = thr.SpineLean
	}
	if !hkOK {
		hk = thr.HeadKneeDistance
	}
	if !footOK {
		foot = footTarget
	}

	norms := map[string]float64{
		// Footwork rewards a foot angle near the 30° target; deviation
		// beyond 40° floors at zero.
		CategoryFootwork: 1 - math.Min(1, math.Abs(foot-footTarget)/40),
		// Head Position rewards a small head-knee distance.
		CategoryHeadPosition: 1 - math.Min(1, hk/(2*thr.HeadKneeDistance)),
		// Swing Control rewards elbow extension above the threshold, up
		// to +40°.
		CategorySwingControl: clamp01((elbow - thr.ElbowAngle) / 40),
		// Balance penalizes spine lean.
		CategoryBalance: 1 - math.Min(1, spine/(2*thr.SpineLean)),
		// Follow-through compares its duration to the downswing's;
		// longer than half the downswing is okay, 1.5x or more is great.
		CategoryFollowThrough: followThroughNorm(segments),
	}

	eval := Evaluation{
		Scores:   make(map[string]float64, len(norms)),
		Feedback: make(map[string]string, len(norms)),
	}
	for category, v := range norms {
		eval.Scores[category] = math.Round((1+9*v)*10) / 10
		lines := feedbackLines[category]
		if v >= goodCutoff {
			eval.Feedback[category] = lines[0]
		} else {
			eval.Feedback[category] = lines[1]
		}
	}
	return eval
}

// followThroughNorm scores the follow-through duration relative to the
// downswing. Without both segments it returns the neutral 0.6 placeholder,
// a preserved policy constant rather than a derived value.
func followThroughNorm(segments []Segment) float64 {
	var downswing, follow *Segment
	for i := range segments {
		switch segments[i].Phase {
		case PhaseDownswing:
			if downswing == nil {
				downswing = &segments[i]
			}
		case PhaseFollowThrough:
			if follow == nil {
				follow = &segments[i]
			}
		}
	}
	if downswing == nil || follow == nil {
		return 0.6
	}

	dsLen := downswing.Len()
	if dsLen < 1 {
		dsLen = 1
	}
	ratio := float64(follow.Len()) / float64(dsLen)
	return clamp01((ratio - 0.5) / 1.0)
}

// metricMean averages the non-null values of one metric column. ok is
// false when every row is null.
func metricMean(records []Record, field func(Record) float64) (mean float64, ok bool) {
	var values []float64
	for _, r := range records {
		if v := field(r); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
