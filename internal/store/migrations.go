package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Runs table - one row per pipeline execution
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			video_url TEXT NOT NULL,
			video_path TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL CHECK(status IN ('pending', 'running', 'completed', 'failed')),
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Artifacts table - one row per completed stage output per run
		`CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			path TEXT NOT NULL,
			sha256 TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(run_id, stage)
		)`,

		// Stage cache table - fingerprints deciding whether a stage may be skipped
		`CREATE TABLE IF NOT EXISTS stage_cache (
			video_key TEXT NOT NULL,
			stage TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			path TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(video_key, stage)
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_artifacts_run_id ON artifacts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
