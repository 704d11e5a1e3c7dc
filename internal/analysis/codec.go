package analysis

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// WritePhasesCSV writes the phase segments artifact (phase,start,end).
func WritePhasesCSV(path string, segments []Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create phases csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"phase", "start", "end"}); err != nil {
		f.Close()
		return fmt.Errorf("write phases csv header: %w", err)
	}
	for _, s := range segments {
		record := []string{string(s.Phase), strconv.Itoa(s.Start), strconv.Itoa(s.End)}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("write phases csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush phases csv: %w", err)
	}
	return f.Close()
}

// ReadPhasesCSV reads a phase segments artifact back.
func ReadPhasesCSV(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phases csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read phases csv header: %w", err)
	}

	var segments []Segment
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read phases csv row: %w", err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("phases csv row has %d columns, want 3", len(record))
		}
		start, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("parse phase start %q: %w", record[1], err)
		}
		end, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("parse phase end %q: %w", record[2], err)
		}
		segments = append(segments, Segment{Phase: Phase(record[0]), Start: start, End: end})
	}
	return segments, nil
}

var metricsHeader = []string{
	"frame", "elbow_angle", "spine_angle", "head_knee_distance", "foot_angle",
	"bat_x1", "bat_y1", "bat_x2", "bat_y2",
}

// WriteMetricsCSV writes the per-frame metrics artifact. Null metrics and
// absent bat boxes become empty cells.
func WriteMetricsCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(metricsHeader); err != nil {
		f.Close()
		return fmt.Errorf("write metrics csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Frame),
			formatCell(rec.ElbowAngle),
			formatCell(rec.SpineAngle),
			formatCell(rec.HeadKneeDistance),
			formatCell(rec.FootAngle),
		}
		if rec.Bat != nil {
			row = append(row,
				formatCell(rec.Bat.X1), formatCell(rec.Bat.Y1),
				formatCell(rec.Bat.X2), formatCell(rec.Bat.Y2))
		} else {
			row = append(row, "", "", "", "")
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write metrics csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush metrics csv: %w", err)
	}
	return f.Close()
}

// ReadMetricsCSV reads a metrics artifact back. Empty cells become NaN
// metrics or a nil bat box.
func ReadMetricsCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metrics csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read metrics csv header: %w", err)
	}
	if len(header) != len(metricsHeader) {
		return nil, fmt.Errorf("unexpected metrics csv header (%d columns)", len(header))
	}

	var records []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read metrics csv row: %w", err)
		}

		frame, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parse metrics frame %q: %w", row[0], err)
		}

		cells := make([]float64, 8)
		for i := 0; i < 8; i++ {
			cells[i], err = parseCell(row[1+i])
			if err != nil {
				return nil, err
			}
		}

		rec := Record{
			Frame:            frame,
			ElbowAngle:       cells[0],
			SpineAngle:       cells[1],
			HeadKneeDistance: cells[2],
			FootAngle:        cells[3],
		}
		if !math.IsNaN(cells[4]) {
			rec.Bat = &BBox{X1: cells[4], Y1: cells[5], X2: cells[6], Y2: cells[7]}
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteContactJSON writes the contact estimate artifact.
func WriteContactJSON(path string, est Estimate) error {
	return writeJSON(path, est, "contact")
}

// ReadContactJSON reads a contact estimate artifact back.
func ReadContactJSON(path string) (Estimate, error) {
	var est Estimate
	err := readJSON(path, &est, "contact")
	return est, err
}

// WriteEvaluationJSON writes the evaluation artifact.
func WriteEvaluationJSON(path string, eval Evaluation) error {
	return writeJSON(path, eval, "evaluation")
}

// ReadEvaluationJSON reads an evaluation artifact back.
func ReadEvaluationJSON(path string) (Evaluation, error) {
	var eval Evaluation
	err := readJSON(path, &eval, "evaluation")
	return eval, err
}

func writeJSON(path string, v any, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s json: %w", name, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s json: %w", name, err)
	}
	return f.Close()
}

func readJSON(path string, v any, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s json: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s json: %w", name, err)
	}
	return nil
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
