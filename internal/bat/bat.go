// Package bat provides bat bounding-box types and object detection sources
// for swing analysis.
package bat

import "context"

// Detection is one bat bounding box found in a video frame. Coordinates are
// in pixel space of the analyzed video.
type Detection struct {
	Frame      int     `json:"frame"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

// Center returns the bounding-box centre point.
func (d Detection) Center() (x, y float64) {
	return (d.X1 + d.X2) / 2, (d.Y1 + d.Y2) / 2
}

// Detector defines the interface for bat detection implementations.
// DetectVideo returns zero or more detections per video frame; frames
// without a bat contribute nothing.
type Detector interface {
	DetectVideo(ctx context.Context, videoPath string) ([]Detection, error)
	Close() error
}
