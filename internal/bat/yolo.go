package bat

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
)

const (
	// yoloInputSize is the square input resolution the ONNX model expects.
	yoloInputSize = 640
	// nmsThreshold is the IoU cutoff for non-maximum suppression.
	nmsThreshold = 0.45
)

// YOLODetector runs a single-class bat detection model through the OpenCV
// DNN backend.
type YOLODetector struct {
	net        gocv.Net
	confidence float64
	loaded     bool
	log        zerolog.Logger
}

// NewYOLODetector loads the ONNX model at modelPath. A missing model file
// is not an error: detection simply yields no boxes, and the pipeline
// degrades to wrist-only contact estimation.
func NewYOLODetector(modelPath string, confidence float64) (*YOLODetector, error) {
	d := &YOLODetector{
		confidence: confidence,
		log:        logging.NewLogger("bat"),
	}

	if _, err := os.Stat(modelPath); err != nil {
		d.log.Warn().Str("model", modelPath).Msg("bat model not found, detection will be empty")
		return d, nil
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("load bat model %s: network is empty", modelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	d.net = net
	d.loaded = true
	return d, nil
}

// DetectVideo runs the model over every frame of the video at path and
// returns all detections above the confidence threshold.
func (d *YOLODetector) DetectVideo(ctx context.Context, videoPath string) ([]Detection, error) {
	if !d.loaded {
		return nil, nil
	}

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", videoPath, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	var detections []Detection
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := capture.Read(&mat); !ok || mat.Empty() {
			break
		}

		frameDets, err := d.detectFrame(&mat, idx)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", idx, err)
		}
		detections = append(detections, frameDets...)

		if (idx+1)%50 == 0 {
			d.log.Debug().Int("frames", idx+1).Msg("bat detection progress")
		}
	}

	d.log.Info().Int("detections", len(detections)).Msg("bat detection complete")
	return detections, nil
}

// detectFrame runs one forward pass and maps the boxes back from the
// letterboxed model input to pixel space.
func (d *YOLODetector) detectFrame(mat *gocv.Mat, frameIdx int) ([]Detection, error) {
	srcW := float64(mat.Cols())
	srcH := float64(mat.Rows())

	// Letterbox scale: fit the frame into the square input, padding the
	// short side.
	scale := yoloInputSize / srcW
	if s := yoloInputSize / srcH; s < scale {
		scale = s
	}
	padX := (yoloInputSize - srcW*scale) / 2
	padY := (yoloInputSize - srcH*scale) / 2

	blob := gocv.BlobFromImage(*mat, 1.0/255.0,
		image.Pt(yoloInputSize, yoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// Output layout: 1 x (4+classes) x anchors, channels-first.
	dims := output.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	channels := dims[1]
	anchors := dims[2]
	if channels < 5 {
		return nil, fmt.Errorf("model output has %d channels, want at least 5", channels)
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}

	at := func(channel, anchor int) float64 {
		return float64(data[channel*anchors+anchor])
	}

	var rects []image.Rectangle
	var scores []float32
	for i := 0; i < anchors; i++ {
		conf := at(4, i)
		if conf < d.confidence {
			continue
		}

		cx := (at(0, i) - padX) / scale
		cy := (at(1, i) - padY) / scale
		w := at(2, i) / scale
		h := at(3, i) / scale

		rects = append(rects, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, float32(conf))
	}

	var detections []Detection
	for _, keep := range gocv.NMSBoxes(rects, scores, float32(d.confidence), nmsThreshold) {
		r := rects[keep]
		detections = append(detections, Detection{
			Frame:      frameIdx,
			X1:         float64(r.Min.X),
			Y1:         float64(r.Min.Y),
			X2:         float64(r.Max.X),
			Y2:         float64(r.Max.Y),
			Confidence: float64(scores[keep]),
		})
	}
	return detections, nil
}

// Close releases the DNN network.
func (d *YOLODetector) Close() error {
	if d.loaded {
		d.loaded = false
		return d.net.Close()
	}
	return nil
}
