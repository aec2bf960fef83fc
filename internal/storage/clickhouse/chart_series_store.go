package clickhouse

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// ChartSeriesStore implements storage.ChartSeriesStore using ClickHouse.
// Percentile rows and sample-path rows live in separate tables keyed by
// record_id.
type ChartSeriesStore struct {
	conn *Conn
}

// NewChartSeriesStore creates a new ChartSeriesStore.
func NewChartSeriesStore(conn *Conn) *ChartSeriesStore {
	return &ChartSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ChartSeriesStore = (*ChartSeriesStore)(nil)

// InsertChart adds all percentile and sample-path rows for a record.
// Fails the entire batch on any error.
func (s *ChartSeriesStore) InsertChart(ctx context.Context, recordID string, chart domain.ChartData) error {
	if len(chart.TimeIndex) == 0 {
		return nil
	}

	// Check for existing chart rows for this record
	exists, err := s.exists(ctx, recordID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO chart_percentiles (
			record_id, day, p5, p50, p95
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare percentile batch: %w", err)
	}

	for i, day := range chart.TimeIndex {
		err = batch.Append(
			recordID, uint32(day),
			chart.P5[i], chart.P50[i], chart.P95[i],
		)
		if err != nil {
			return fmt.Errorf("append to percentile batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send percentile batch: %w", err)
	}

	if len(chart.SamplePaths) == 0 {
		return nil
	}

	pathBatch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO chart_sample_paths (
			record_id, path_index, day, price
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare sample path batch: %w", err)
	}

	for pathIndex, path := range chart.SamplePaths {
		for day, price := range path {
			err = pathBatch.Append(
				recordID, uint32(pathIndex), uint32(day), price,
			)
			if err != nil {
				return fmt.Errorf("append to sample path batch: %w", err)
			}
		}
	}

	if err := pathBatch.Send(); err != nil {
		return fmt.Errorf("send sample path batch: %w", err)
	}

	return nil
}

// GetChart reassembles the chart for a record, percentile series ordered
// by day ASC and sample paths by (path_index, day) ASC.
// Returns ErrNotFound if the record has no chart rows.
func (s *ChartSeriesStore) GetChart(ctx context.Context, recordID string) (*domain.ChartData, error) {
	query := `
		SELECT day, p5, p50, p95
		FROM chart_percentiles
		WHERE record_id = ?
		ORDER BY day ASC
	`

	rows, err := s.conn.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("query percentiles: %w", err)
	}
	defer rows.Close()

	chart, err := scanChartPercentiles(rows)
	if err != nil {
		return nil, err
	}
	if len(chart.TimeIndex) == 0 {
		return nil, storage.ErrNotFound
	}

	pathQuery := `
		SELECT path_index, day, price
		FROM chart_sample_paths
		WHERE record_id = ?
		ORDER BY path_index ASC, day ASC
	`

	pathRows, err := s.conn.Query(ctx, pathQuery, recordID)
	if err != nil {
		return nil, fmt.Errorf("query sample paths: %w", err)
	}
	defer pathRows.Close()

	chart.SamplePaths, err = scanChartSamplePaths(pathRows)
	if err != nil {
		return nil, err
	}

	return chart, nil
}

// exists checks if any percentile rows exist for the record.
func (s *ChartSeriesStore) exists(ctx context.Context, recordID string) (bool, error) {
	query := `
		SELECT count(*) FROM chart_percentiles
		WHERE record_id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, recordID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanChartPercentiles scans percentile rows into parallel series.
func scanChartPercentiles(rows chRows) (*domain.ChartData, error) {
	var chart domain.ChartData

	for rows.Next() {
		var day uint32
		var p5, p50, p95 float64

		err := rows.Scan(&day, &p5, &p50, &p95)
		if err != nil {
			return nil, fmt.Errorf("scan percentile row: %w", err)
		}

		chart.TimeIndex = append(chart.TimeIndex, int(day))
		chart.P5 = append(chart.P5, p5)
		chart.P50 = append(chart.P50, p50)
		chart.P95 = append(chart.P95, p95)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate percentile rows: %w", err)
	}

	return &chart, nil
}

// scanChartSamplePaths regroups (path_index, day, price) rows into paths.
// Rows arrive ordered by (path_index, day), so each path's prices append
// in day order.
func scanChartSamplePaths(rows chRows) ([]domain.PricePath, error) {
	var paths []domain.PricePath

	for rows.Next() {
		var pathIndex, day uint32
		var price float64

		err := rows.Scan(&pathIndex, &day, &price)
		if err != nil {
			return nil, fmt.Errorf("scan sample path row: %w", err)
		}

		for int(pathIndex) >= len(paths) {
			paths = append(paths, nil)
		}
		paths[pathIndex] = append(paths[pathIndex], price)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample path rows: %w", err)
	}

	return paths, nil
}
