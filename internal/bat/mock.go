package bat

import "context"

// MockDetector is a test implementation of the Detector interface.
type MockDetector struct {
	detections []Detection
	err        error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetections sets the detections returned by DetectVideo.
func (m *MockDetector) SetDetections(detections []Detection) {
	m.detections = detections
}

// SetError sets the error returned by DetectVideo.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// DetectVideo returns the pre-configured detections or error.
func (m *MockDetector) DetectVideo(ctx context.Context, videoPath string) ([]Detection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.detections, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// SwingDetections returns a synthetic bat track: the box rises through the
// downswing window and sweeps fastest around the contact frame.
func SwingDetections(n, contact int) []Detection {
	var detections []Detection
	for f := n / 3; f < n; f++ {
		speed := 4.0
		if d := f - contact; d > -5 && d < 5 {
			speed = 40.0
		}
		x := 300 + float64(f)*speed
		y := 500 - float64(f)*speed/2
		detections = append(detections, Detection{
			Frame:      f,
			X1:         x,
			Y1:         y,
			X2:         x + 60,
			Y2:         y + 180,
			Confidence: 0.85,
		})
	}
	return detections
}
