package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// makeChart builds a small chart with deterministic values.
func makeChart(horizon int) domain.ChartData {
	chart := domain.ChartData{}
	for day := 0; day <= horizon; day++ {
		chart.TimeIndex = append(chart.TimeIndex, day)
		chart.P5 = append(chart.P5, 90.0+float64(day))
		chart.P50 = append(chart.P50, 100.0+float64(day))
		chart.P95 = append(chart.P95, 110.0+float64(day))
	}
	return chart
}

func TestChartSeriesStore_InsertChartAndGetChart(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	chart := makeChart(5)
	// Early-exit paths stop short of the horizon
	chart.SamplePaths = []domain.PricePath{
		{100.0, 101.5, 99.2, 103.0, 104.1, 105.7},
		{100.0, 97.3, 94.8},
		{100.0, 102.2, 104.9, 106.0},
	}

	err := store.InsertChart(ctx, "rec-1", chart)
	require.NoError(t, err)

	got, err := store.GetChart(ctx, "rec-1")
	require.NoError(t, err)

	require.Len(t, got.TimeIndex, 6)
	assert.Equal(t, chart.TimeIndex, got.TimeIndex)
	assert.Equal(t, chart.P5, got.P5)
	assert.Equal(t, chart.P50, got.P50)
	assert.Equal(t, chart.P95, got.P95)

	require.Len(t, got.SamplePaths, 3)
	assert.Equal(t, chart.SamplePaths[0], got.SamplePaths[0])
	assert.Equal(t, chart.SamplePaths[1], got.SamplePaths[1])
	assert.Equal(t, chart.SamplePaths[2], got.SamplePaths[2])
}

func TestChartSeriesStore_InsertChart_Empty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	err := store.InsertChart(ctx, "rec-1", domain.ChartData{})
	assert.NoError(t, err)

	// Nothing was written
	_, err = store.GetChart(ctx, "rec-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChartSeriesStore_InsertChart_Duplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	chart := makeChart(3)

	err := store.InsertChart(ctx, "rec-1", chart)
	require.NoError(t, err)

	// Try to insert the same record again
	err = store.InsertChart(ctx, "rec-1", chart)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestChartSeriesStore_GetChart_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	_, err := store.GetChart(ctx, "rec-999")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChartSeriesStore_NoSamplePaths(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	chart := makeChart(4)

	err := store.InsertChart(ctx, "rec-1", chart)
	require.NoError(t, err)

	got, err := store.GetChart(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, chart.P50, got.P50)
	assert.Empty(t, got.SamplePaths)
}

func TestChartSeriesStore_MultipleRecords(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChartSeriesStore(conn)
	ctx := context.Background()

	first := makeChart(2)
	first.SamplePaths = []domain.PricePath{{100.0, 101.0, 102.0}}

	second := makeChart(3)
	second.SamplePaths = []domain.PricePath{{200.0, 198.0}, {200.0, 205.0, 210.0, 207.0}}

	require.NoError(t, store.InsertChart(ctx, "rec-1", first))
	require.NoError(t, store.InsertChart(ctx, "rec-2", second))

	got1, err := store.GetChart(ctx, "rec-1")
	require.NoError(t, err)
	assert.Len(t, got1.TimeIndex, 3)
	assert.Len(t, got1.SamplePaths, 1)

	got2, err := store.GetChart(ctx, "rec-2")
	require.NoError(t, err)
	assert.Len(t, got2.TimeIndex, 4)
	require.Len(t, got2.SamplePaths, 2)
	assert.Equal(t, second.SamplePaths[0], got2.SamplePaths[0])
	assert.Equal(t, second.SamplePaths[1], got2.SamplePaths[1])
}
