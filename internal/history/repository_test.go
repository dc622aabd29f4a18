package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/kvernes/heatpumpmon/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) history.Repository {
	t.Helper()
	repo, err := history.NewRepository(history.Config{
		DBPath: filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestHistoricalTotalEmpty(t *testing.T) {
	repo := newRepository(t)

	total, err := repo.HistoricalTotal(context.Background(), "hp_heating_total", time.Time{})
	require.NoError(t, err)
	assert.Nil(t, total, "no history means nil, not zero")
}

func TestRecordAndRehydrate(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordTotal(ctx, "hp_heating_total", base, 100.5))
	require.NoError(t, repo.RecordTotal(ctx, "hp_heating_total", base.Add(time.Hour), 107.25))
	require.NoError(t, repo.RecordTotal(ctx, "hp_cooling_total", base, 3.5))

	total, err := repo.HistoricalTotal(ctx, "hp_heating_total", time.Time{})
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.InDelta(t, 107.25, *total, 1e-9, "latest record wins")

	cooling, err := repo.HistoricalTotal(ctx, "hp_cooling_total", time.Time{})
	require.NoError(t, err)
	require.NotNil(t, cooling)
	assert.InDelta(t, 3.5, *cooling, 1e-9)
}

func TestRecordTotalUpsertsSameTimestamp(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordTotal(ctx, "hp_heating_total", ts, 10))
	require.NoError(t, repo.RecordTotal(ctx, "hp_heating_total", ts, 12))

	total, err := repo.HistoricalTotal(ctx, "hp_heating_total", time.Time{})
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.InDelta(t, 12.0, *total, 1e-9)
}

func TestHistoricalTotalSinceBound(t *testing.T) {
	repo := newRepository(t)
	ctx := context.Background()
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordTotal(ctx, "hp_heating_total", old, 50))

	total, err := repo.HistoricalTotal(ctx, "hp_heating_total", old.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, total, "records before the since bound are ignored")
}
