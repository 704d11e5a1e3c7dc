package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// RunStatus represents the lifecycle state of a pipeline run.
type RunStatus string

const (
	// RunStatusPending marks a run that has been accepted but not started.
	RunStatusPending RunStatus = "pending"
	// RunStatusRunning marks a run currently executing.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted marks a run that finished all stages.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusFailed marks a run that aborted on a fatal stage error.
	RunStatusFailed RunStatus = "failed"
)

// Run represents one pipeline execution over one video.
type Run struct {
	ID        string
	VideoURL  string
	VideoPath string
	Status    RunStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunRepository provides CRUD operations for runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a new run into the database.
func (r *RunRepository) Create(run *Run) error {
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now
	if run.Status == "" {
		run.Status = RunStatusPending
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, video_url, video_path, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.VideoURL, run.VideoPath, string(run.Status), run.Error, run.CreatedAt, run.UpdatedAt,
	)
	return err
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	run := &Run{}
	var status string

	err := r.db.QueryRow(
		`SELECT id, video_url, video_path, status, error, created_at, updated_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&run.ID, &run.VideoURL, &run.VideoPath, &status, &run.Error, &run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	run.Status = RunStatus(status)
	return run, nil
}

// List retrieves all runs, newest first.
func (r *RunRepository) List() ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, video_url, video_path, status, error, created_at, updated_at
		 FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var status string

		err := rows.Scan(&run.ID, &run.VideoURL, &run.VideoPath, &status, &run.Error, &run.CreatedAt, &run.UpdatedAt)
		if err != nil {
			return nil, err
		}

		run.Status = RunStatus(status)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Update writes a run's mutable fields back to the database.
func (r *RunRepository) Update(run *Run) error {
	run.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE runs SET video_url = ?, video_path = ?, status = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		run.VideoURL, run.VideoPath, string(run.Status), run.Error, run.UpdatedAt, run.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates just the run status and error text.
func (r *RunRepository) SetStatus(id string, status RunStatus, errText string) error {
	result, err := r.db.Exec(
		`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		string(status), errText, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a run from the database by its ID. Its artifacts go with
// it via the foreign key cascade.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
