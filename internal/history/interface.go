package history

import (
	"context"
	"time"
)

// Repository persists per-series lifetime energy totals and serves the
// one-shot rehydration lookup at engine construction.
type Repository interface {
	// HistoricalTotal returns the most recent total recorded at or after
	// since, or nil when no history exists for the series.
	HistoricalTotal(ctx context.Context, seriesID string, since time.Time) (*float64, error)

	// RecordTotal upserts the lifetime total for a series at ts.
	RecordTotal(ctx context.Context, seriesID string, ts time.Time, totalKWh float64) error

	Close() error
}
