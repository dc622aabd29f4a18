package history

import (
	"database/sql"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS energy_totals (
	       series_id   TEXT NOT NULL,
	       recorded_at INTEGER NOT NULL,
	       total_kwh   REAL NOT NULL CHECK (total_kwh >= 0),
	       PRIMARY KEY (series_id, recorded_at)
	   );
	   CREATE INDEX IF NOT EXISTS idx_energy_totals_series
	       ON energy_totals (series_id, recorded_at DESC);`

	upsertTotalSQL = `
    INSERT INTO energy_totals (series_id, recorded_at, total_kwh)
    VALUES (?, ?, ?)
    ON CONFLICT(series_id, recorded_at) DO UPDATE SET
        total_kwh = excluded.total_kwh`

	latestTotalSQL = `
    SELECT total_kwh
    FROM energy_totals
    WHERE series_id = ? AND recorded_at >= ?
    ORDER BY recorded_at DESC
    LIMIT 1`
)

// initSchema creates the tables and records the schema version.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
        ON CONFLICT(version) DO NOTHING
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	return nil
}

// schemaVersion returns the newest applied schema version, 0 when none.
func schemaVersion(db *sql.DB) (int, error) {
	errFactory := errors.New()

	var version int
	err := db.QueryRow(`
        SELECT version
        FROM schema_versions
        ORDER BY version DESC
        LIMIT 1
    `).Scan(&version)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	return version, nil
}
