package video

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
)

// Normalizer re-encodes a video to a fixed resolution and frame rate so
// every downstream stage sees uniform geometry and timing.
type Normalizer struct {
	Width  int
	Height int
	FPS    float64
}

// NewNormalizer creates a Normalizer targeting the given geometry.
func NewNormalizer(width, height int, fps float64) *Normalizer {
	return &Normalizer{Width: width, Height: height, FPS: fps}
}

// Normalize decodes the video at in, resizes every frame, and writes the
// result to out at the target frame rate.
func (n *Normalizer) Normalize(ctx context.Context, in, out string) error {
	log := logging.NewLogger("normalize")

	capture, err := gocv.VideoCaptureFile(in)
	if err != nil {
		return fmt.Errorf("open video %s: %w", in, err)
	}
	defer capture.Close()

	srcFPS := capture.Get(gocv.VideoCaptureFPS)
	srcFrames := int(capture.Get(gocv.VideoCaptureFrameCount))
	log.Info().
		Float64("source_fps", srcFPS).
		Int("source_frames", srcFrames).
		Int("width", n.Width).
		Int("height", n.Height).
		Float64("fps", n.FPS).
		Msg("normalizing video")

	writer, err := gocv.VideoWriterFile(out, "mp4v", n.FPS, n.Width, n.Height, true)
	if err != nil {
		return fmt.Errorf("create video writer %s: %w", out, err)
	}
	defer writer.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	resized := gocv.NewMat()
	defer resized.Close()

	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}

		gocv.Resize(frame, &resized, image.Pt(n.Width, n.Height), 0, 0, gocv.InterpolationLinear)
		if err := writer.Write(resized); err != nil {
			return fmt.Errorf("write frame %d: %w", count, err)
		}
		count++
	}

	if count == 0 {
		return fmt.Errorf("video %s contained no readable frames", in)
	}

	log.Info().Int("frames", count).Str("path", out).Msg("normalized video written")
	return nil
}
