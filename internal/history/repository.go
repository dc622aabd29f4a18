package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/errors"
	"codeberg.org/kvernes/heatpumpmon/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository opens (creating if needed) the history database.
func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	logger.Debug().Msgf("Initializing history repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	version, err := schemaVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", version).
		Msg("History repository initialized")

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) HistoricalTotal(ctx context.Context, seriesID string, since time.Time) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	err := r.db.QueryRowContext(ctx, latestTotalSQL, seriesID, since.Unix()).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New().Wrap(ErrLookupFailed, err)
	}

	return &total, nil
}

func (r *sqliteRepository) RecordTotal(ctx context.Context, seriesID string, ts time.Time, totalKWh float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, upsertTotalSQL, seriesID, ts.Unix(), totalKWh)
	if err != nil {
		return errors.New().Wrap(ErrRecordFailed, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}
