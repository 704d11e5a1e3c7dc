package bat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{"frame", "x1", "y1", "x2", "y2", "confidence"}

// WriteCSV writes detections as the bat artifact, one row per detection.
// Multiple detections per frame are allowed.
func WriteCSV(path string, detections []Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("write bat csv header: %w", err)
	}
	for _, d := range detections {
		record := []string{
			strconv.Itoa(d.Frame),
			formatFloat(d.X1), formatFloat(d.Y1),
			formatFloat(d.X2), formatFloat(d.Y2),
			formatFloat(d.Confidence),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("write bat csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush bat csv: %w", err)
	}
	return f.Close()
}

// ReadCSV reads a bat artifact back into detections.
func ReadCSV(path string) ([]Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bat csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read bat csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected bat csv header (%d columns)", len(header))
	}

	var detections []Detection
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bat csv row: %w", err)
		}

		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parse bat frame %q: %w", record[0], err)
		}
		values := make([]float64, 5)
		for i := 0; i < 5; i++ {
			values[i], err = strconv.ParseFloat(record[1+i], 64)
			if err != nil {
				return nil, fmt.Errorf("parse bat cell %q: %w", record[1+i], err)
			}
		}
		detections = append(detections, Detection{
			Frame: frame,
			X1:    values[0], Y1: values[1],
			X2: values[2], Y2: values[3],
			Confidence: values[4],
		})
	}
	return detections, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
