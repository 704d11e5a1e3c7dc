// Package overlay renders the annotated analysis video: pose skeleton,
// bat boxes, metric panel, phase labels, and the contact banner.
package overlay

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/analysis"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/bat"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/pose"
)

// skeletonPairs are the landmark connections drawn per frame.
var skeletonPairs = [][2]int{
	{pose.LeftShoulder, pose.LeftElbow}, {pose.LeftElbow, pose.LeftWrist},
	{pose.RightShoulder, pose.RightElbow}, {pose.RightElbow, pose.RightWrist},
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftHip, pose.LeftKnee}, {pose.LeftKnee, pose.LeftAnkle},
	{pose.RightHip, pose.RightKnee}, {pose.RightKnee, pose.RightAnkle},
	{pose.LeftHip, pose.RightHip},
	{pose.LeftShoulder, pose.LeftHip}, {pose.RightShoulder, pose.RightHip},
}

// minVisibility hides landmarks the estimator was unsure about.
const minVisibility = 0.3

const watermark = "AthleteRise: Cover Drive Analysis"

var (
	white     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	batGreen  = color.RGBA{R: 60, G: 220, B: 60, A: 255}
	phaseCyan = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	alertRed  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	softGray  = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	black     = color.RGBA{A: 255}
)

// Input bundles the artifacts one render consumes. Any of the analysis
// layers may be absent; a missing layer simply is not drawn.
type Input struct {
	VideoPath string
	OutPath   string
	Frames    []pose.Frame
	Bats      []bat.Detection
	Metrics   []analysis.Record
	Segments  []analysis.Segment
	Contact   *analysis.Estimate
}

// Renderer draws analysis layers onto the normalized video.
type Renderer struct {
	Thresholds analysis.Thresholds
}

// NewRenderer creates a Renderer flagging metrics against the given
// thresholds.
func NewRenderer(thresholds analysis.Thresholds) *Renderer {
	return &Renderer{Thresholds: thresholds}
}

// Render writes the annotated video for in.
func (r *Renderer) Render(ctx context.Context, in Input) error {
	log := logging.NewLogger("overlay")

	capture, err := gocv.VideoCaptureFile(in.VideoPath)
	if err != nil {
		return fmt.Errorf("open video %s: %w", in.VideoPath, err)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	w := int(capture.Get(gocv.VideoCaptureFrameWidth))
	h := int(capture.Get(gocv.VideoCaptureFrameHeight))

	writer, err := gocv.VideoWriterFile(in.OutPath, "mp4v", fps, w, h, true)
	if err != nil {
		return fmt.Errorf("create video writer %s: %w", in.OutPath, err)
	}
	defer writer.Close()

	poseByFrame := make(map[int]*pose.Frame, len(in.Frames))
	for i := range in.Frames {
		poseByFrame[in.Frames[i].Index] = &in.Frames[i]
	}
	batsByFrame := make(map[int][]bat.Detection)
	for _, d := range in.Bats {
		batsByFrame[d.Frame] = append(batsByFrame[d.Frame], d)
	}
	metricsByFrame := make(map[int]*analysis.Record, len(in.Metrics))
	for i := range in.Metrics {
		metricsByFrame[in.Metrics[i].Frame] = &in.Metrics[i]
	}

	mat := gocv.NewMat()
	defer mat.Close()

	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&mat); !ok || mat.Empty() {
			break
		}

		if f, ok := poseByFrame[idx]; ok {
			drawSkeleton(&mat, f, w, h)
		}
		drawBats(&mat, batsByFrame[idx])
		if m, ok := metricsByFrame[idx]; ok {
			r.drawMetricsPanel(&mat, m)
		}
		if phase, ok := phaseAt(in.Segments, idx); ok {
			gocv.PutText(&mat, fmt.Sprintf("Phase: %s", phase),
				image.Pt(10, h-40), gocv.FontHersheySimplex, 0.7, phaseCyan, 2)
		}
		if in.Contact != nil && idx == in.Contact.ContactFrame {
			gocv.PutText(&mat, "CONTACT",
				image.Pt(w/2-80, h/2), gocv.FontHersheySimplex, 1.2, alertRed, 3)
		}
		gocv.PutText(&mat, watermark,
			image.Pt(10, h-12), gocv.FontHersheySimplex, 0.6, softGray, 2)

		if err := writer.Write(mat); err != nil {
			return fmt.Errorf("write frame %d: %w", idx, err)
		}
		if (idx+1)%50 == 0 {
			log.Debug().Int("frames", idx+1).Msg("overlay progress")
		}
	}

	log.Info().Str("path", in.OutPath).Msg("annotated video written")
	return nil
}

// phaseAt returns the phase covering a frame, if any segment does.
func phaseAt(segments []analysis.Segment, frame int) (analysis.Phase, bool) {
	for _, s := range segments {
		if frame >= s.Start && frame <= s.End {
			return s.Phase, true
		}
	}
	return "", false
}

func drawSkeleton(mat *gocv.Mat, f *pose.Frame, w, h int) {
	visible := func(p pose.Point) bool {
		return !p.Missing() && (math.IsNaN(p.Visibility) || p.Visibility > minVisibility)
	}
	at := func(p pose.Point) image.Point {
		return image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}

	for i := 0; i < pose.NumLandmarks; i++ {
		if p := f.Points[i]; visible(p) {
			gocv.Circle(mat, at(p), 3, white, -1)
		}
	}
	for _, pair := range skeletonPairs {
		a, b := f.Points[pair[0]], f.Points[pair[1]]
		if visible(a) && visible(b) {
			gocv.Line(mat, at(a), at(b), white, 2)
		}
	}
}

func drawBats(mat *gocv.Mat, detections []bat.Detection) {
	for _, d := range detections {
		rect := image.Rect(int(d.X1), int(d.Y1), int(d.X2), int(d.Y2))
		gocv.Rectangle(mat, rect, batGreen, 2)

		labelY := int(d.Y1) - 8
		if labelY < 15 {
			labelY = 15
		}
		gocv.PutText(mat, fmt.Sprintf("Bat %.2f", d.Confidence),
			image.Pt(int(d.X1), labelY), gocv.FontHersheySimplex, 0.6, batGreen, 2)
	}
}

// drawMetricsPanel renders the live metric readout with pass/fail flags
// against the configured thresholds.
func (r *Renderer) drawMetricsPanel(mat *gocv.Mat, m *analysis.Record) {
	gocv.Rectangle(mat, image.Rect(10, 10, 330, 110), black, -1)
	gocv.Rectangle(mat, image.Rect(10, 10, 330, 110), white, 1)

	lines := []string{
		fmt.Sprintf("Elbow Angle: %s  %s", metricText(m.ElbowAngle, 1),
			thresholdFlag(m.ElbowAngle, r.Thresholds.ElbowAngle, false)),
		fmt.Sprintf("Spine Lean : %s  %s", metricText(m.SpineAngle, 1),
			thresholdFlag(m.SpineAngle, r.Thresholds.SpineLean, true)),
		fmt.Sprintf("Head-Knee  : %s  %s", metricText(m.HeadKneeDistance, 3),
			thresholdFlag(m.HeadKneeDistance, r.Thresholds.HeadKneeDistance, true)),
		fmt.Sprintf("Foot Angle : %s", metricText(m.FootAngle, 1)),
	}

	y := 35
	for _, text := range lines {
		gocv.PutText(mat, text, image.Pt(20, y), gocv.FontHersheySimplex, 0.55, white, 1)
		y += 20
	}
}

func metricText(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

// thresholdFlag marks a metric OK when it sits on the good side of its
// threshold; goodWhenLess flips the comparison.
func thresholdFlag(v, thr float64, goodWhenLess bool) string {
	if math.IsNaN(v) {
		return ""
	}
	ok := v > thr
	if goodWhenLess {
		ok = v < thr
	}
	if ok {
		return "OK"
	}
	return "!"
}
