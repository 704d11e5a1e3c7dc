package pose

import "context"

// Source defines the interface for pose estimation implementations.
// EstimateVideo returns one Frame per video frame, in frame order, with an
// all-missing Frame for frames where no subject was found.
type Source interface {
	EstimateVideo(ctx context.Context, videoPath string) ([]Frame, error)
	Close() error
}

// Config holds configuration for pose estimation sources.
type Config struct {
	ModelComplexity        int
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
}

// DefaultConfig returns the default pose estimation configuration.
func DefaultConfig() Config {
	return Config{
		ModelComplexity:        1,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}
