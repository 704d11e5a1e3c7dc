package store

import (
	"database/sql"
	"errors"
	"time"
)

// Fingerprint is one stage-cache entry: the hash of a stage's inputs and
// configuration plus the output path it produced.
type Fingerprint struct {
	VideoKey    string
	Stage       string
	Fingerprint string
	Path        string
	UpdatedAt   time.Time
}

// CacheRepository provides operations on the stage fingerprint cache.
type CacheRepository struct {
	db *sql.DB
}

// Cache returns the stage-cache repository for this store.
func (s *Store) Cache() *CacheRepository {
	return &CacheRepository{db: s.db}
}

// Get retrieves the cached fingerprint for a video/stage pair.
func (r *CacheRepository) Get(videoKey, stage string) (*Fingerprint, error) {
	fp := &Fingerprint{}

	err := r.db.QueryRow(
		`SELECT video_key, stage, fingerprint, path, updated_at
		 FROM stage_cache WHERE video_key = ? AND stage = ?`,
		videoKey, stage,
	).Scan(&fp.VideoKey, &fp.Stage, &fp.Fingerprint, &fp.Path, &fp.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fp, nil
}

// Put records or replaces the fingerprint for a video/stage pair.
func (r *CacheRepository) Put(fp *Fingerprint) error {
	fp.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO stage_cache (video_key, stage, fingerprint, path, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(video_key, stage) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			path = excluded.path,
			updated_at = excluded.updated_at`,
		fp.VideoKey, fp.Stage, fp.Fingerprint, fp.Path, fp.UpdatedAt,
	)
	return err
}
