package store

import (
	"database/sql"
	"errors"
	"time"
)

// Artifact records one persisted stage output for a run.
type Artifact struct {
	ID        string
	RunID     string
	Stage     string
	Path      string
	SHA256    string
	CreatedAt time.Time
}

// ArtifactRepository provides operations on recorded artifacts.
type ArtifactRepository struct {
	db *sql.DB
}

// Artifacts returns the artifact repository for this store.
func (s *Store) Artifacts() *ArtifactRepository {
	return &ArtifactRepository{db: s.db}
}

// Upsert inserts the artifact, replacing a previous record of the same
// stage for the same run.
func (r *ArtifactRepository) Upsert(a *Artifact) error {
	a.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO artifacts (id, run_id, stage, path, sha256, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, stage) DO UPDATE SET
			path = excluded.path,
			sha256 = excluded.sha256,
			created_at = excluded.created_at`,
		a.ID, a.RunID, a.Stage, a.Path, a.SHA256, a.CreatedAt,
	)
	return err
}

// GetByRunAndStage retrieves one stage's artifact for a run.
func (r *ArtifactRepository) GetByRunAndStage(runID, stage string) (*Artifact, error) {
	a := &Artifact{}

	err := r.db.QueryRow(
		`SELECT id, run_id, stage, path, sha256, created_at
		 FROM artifacts WHERE run_id = ? AND stage = ?`,
		runID, stage,
	).Scan(&a.ID, &a.RunID, &a.Stage, &a.Path, &a.SHA256, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByRun retrieves every artifact recorded for a run.
func (r *ArtifactRepository) ListByRun(runID string) ([]*Artifact, error) {
	rows, err := r.db.Query(
		`SELECT id, run_id, stage, path, sha256, created_at
		 FROM artifacts WHERE run_id = ? ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		a := &Artifact{}
		if err := rows.Scan(&a.ID, &a.RunID, &a.Stage, &a.Path, &a.SHA256, &a.CreatedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
