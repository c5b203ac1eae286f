package db

import "database/sql"

// MigrateUp creates the issue archive schema.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS issues (
    id            SERIAL PRIMARY KEY,
    issue_number  INTEGER NOT NULL UNIQUE,
    title         TEXT NOT NULL,
    status        VARCHAR(20) NOT NULL DEFAULT 'draft',
    item_count    INTEGER NOT NULL DEFAULT 0,
    drive_file_id TEXT,
    drive_link    TEXT,
    published_at  TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_published_at ON issues(published_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Status values are closed; reject anything outside the vocabulary.
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_issue_status'
    ) THEN
        ALTER TABLE issues ADD CONSTRAINT chk_issue_status
        CHECK (status IN ('draft', 'published'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the issue archive schema. All archived runs are lost.
func MigrateDown(db *sql.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS idx_issues_published_at`,
		`DROP INDEX IF EXISTS idx_issues_status`,
		`DROP TABLE IF EXISTS issues`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
