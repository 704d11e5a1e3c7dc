package pose

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// WriteCSV writes frames as the pose artifact: a frame column followed by
// x_i, y_i, v_i triples for each of the 33 landmarks. Missing landmarks
// become empty cells.
func WriteCSV(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pose csv: %w", err)
	}

	w := csv.NewWriter(f)

	header := make([]string, 0, 1+NumLandmarks*3)
	header = append(header, "frame")
	for i := 0; i < NumLandmarks; i++ {
		header = append(header,
			fmt.Sprintf("x_%d", i),
			fmt.Sprintf("y_%d", i),
			fmt.Sprintf("v_%d", i),
		)
	}

	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write pose csv header: %w", err)
	}

	for _, fr := range frames {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(fr.Index))
		for _, p := range fr.Points {
			record = append(record, formatCell(p.X), formatCell(p.Y), formatCell(p.Visibility))
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("write pose csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush pose csv: %w", err)
	}
	return f.Close()
}

// ReadCSV reads a pose artifact back into frames. Empty cells become
// missing landmarks.
func ReadCSV(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pose csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read pose csv header: %w", err)
	}
	if len(header) != 1+NumLandmarks*3 || header[0] != "frame" {
		return nil, fmt.Errorf("unexpected pose csv header (%d columns)", len(header))
	}

	var frames []Frame
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read pose csv row: %w", err)
		}

		idx, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parse frame index %q: %w", record[0], err)
		}

		frame := Frame{Index: idx}
		for i := 0; i < NumLandmarks; i++ {
			x, err := parseCell(record[1+i*3])
			if err != nil {
				return nil, err
			}
			y, err := parseCell(record[2+i*3])
			if err != nil {
				return nil, err
			}
			v, err := parseCell(record[3+i*3])
			if err != nil {
				return nil, err
			}
			frame.Points[i] = Point{X: x, Y: y, Visibility: v}
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseCell(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cell %q: %w", s, err)
	}
	return v, nil
}
