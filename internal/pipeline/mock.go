package pipeline

import (
	"context"
	"os"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/overlay"
)

// MockDownloader is a test implementation of the Downloader interface. It
// writes a placeholder file instead of fetching anything.
type MockDownloader struct {
	Err   error
	Calls []string
}

// Download records the request and writes a stand-in video file.
func (m *MockDownloader) Download(ctx context.Context, url, dest string) error {
	m.Calls = append(m.Calls, url)
	if m.Err != nil {
		return m.Err
	}
	return os.WriteFile(dest, []byte("video: "+url), 0o644)
}

// MockNormalizer is a test implementation of the Normalizer interface. It
// copies the input file verbatim.
type MockNormalizer struct {
	Err   error
	Calls int
}

// Normalize records the call and copies in to out.
func (m *MockNormalizer) Normalize(ctx context.Context, in, out string) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

// MockRenderer is a test implementation of the Renderer interface. It
// captures the inputs it was asked to draw.
type MockRenderer struct {
	Err    error
	Inputs []overlay.Input
}

// Render records the input and writes a stand-in annotated file.
func (m *MockRenderer) Render(ctx context.Context, in overlay.Input) error {
	m.Inputs = append(m.Inputs, in)
	if m.Err != nil {
		return m.Err
	}
	return os.WriteFile(in.OutPath, []byte("annotated"), 0o644)
}
