package pose

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// MediaPipeSource implements Source using a Python MediaPipe subprocess.
// Frames are streamed to the sidecar as length-prefixed JPEG images and
// landmark rows come back as one JSON line per frame.
type MediaPipeSource struct {
	config  Config
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
}

// NewMediaPipeSource creates a new MediaPipe pose source.
// The Python process is started lazily on first use.
func NewMediaPipeSource(config Config) (*MediaPipeSource, error) {
	if findPoseScript() == "" {
		return nil, fmt.Errorf("pose_service.py not found")
	}
	return &MediaPipeSource{config: config}, nil
}

// EstimateVideo runs pose estimation over every frame of the video at path.
func (s *MediaPipeSource) EstimateVideo(ctx context.Context, videoPath string) ([]Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", videoPath, err)
	}
	defer capture.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	var frames []Frame
	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := capture.Read(&mat); !ok || mat.Empty() {
			break
		}

		frame, err := s.estimateFrame(&mat, idx)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", idx, err)
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// estimateFrame sends one frame to the sidecar and parses its response.
func (s *MediaPipeSource) estimateFrame(mat *gocv.Mat, idx int) (Frame, error) {
	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		return Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := s.stdin.Write(length); err != nil {
		return Frame{}, fmt.Errorf("write length: %w", err)
	}
	if _, err := s.stdin.Write(data); err != nil {
		return Frame{}, fmt.Errorf("write data: %w", err)
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return Frame{}, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Points []jsonPoint `json:"points"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return Frame{}, fmt.Errorf("parse response: %w", err)
	}

	// A null points field means no subject in this frame.
	if response.Points == nil {
		return EmptyFrame(idx), nil
	}

	frame := EmptyFrame(idx)
	for i := 0; i < NumLandmarks && i < len(response.Points); i++ {
		frame.Points[i] = Point{
			X:          response.Points[i].X,
			Y:          response.Points[i].Y,
			Visibility: response.Points[i].Visibility,
		}
	}
	return frame, nil
}

// Close shuts down the Python process.
func (s *MediaPipeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown()
}

func (s *MediaPipeSource) ensureStarted() error {
	if s.started {
		return nil
	}

	scriptPath := findPoseScript()
	if scriptPath == "" {
		return fmt.Errorf("pose_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	s.cmd = exec.Command(pythonPath, scriptPath,
		"--model-complexity", strconv.Itoa(s.config.ModelComplexity),
		"--min-detection-confidence", strconv.FormatFloat(s.config.MinDetectionConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(s.config.MinTrackingConfidence, 'f', -1, 64),
	)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	s.cmd.Stderr = os.Stderr

	if err := s.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.started = true

	return nil
}

func (s *MediaPipeSource) shutdown() error {
	if !s.started {
		return nil
	}

	if s.stdin != nil {
		s.stdin.Close()
	}

	err := s.cmd.Wait()
	s.started = false
	s.cmd = nil
	s.stdin = nil
	s.stdout = nil

	return err
}

func findPoseScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".athleterise/scripts/pose_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".athleterise/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonPoint represents one landmark in the JSON from the Python service.
type jsonPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}
