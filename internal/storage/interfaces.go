package storage

import (
	"context"

	"trade-sim-lab/internal/domain"
)

// SimulationRecordStore provides access to simulation_records storage.
// Records are append-only: one row per completed run, never updated.
type SimulationRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.SimulationRecord) error

	// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, recordID string) (*domain.SimulationRecord, error)

	// ListBySession retrieves all records for a session, ordered by created_at_ms ASC.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.SimulationRecord, error)

	// ListByTicker retrieves all records for a ticker, ordered by created_at_ms ASC.
	ListByTicker(ctx context.Context, ticker string) ([]*domain.SimulationRecord, error)
}

// ChartSeriesStore provides access to chart series storage: the per-day
// percentile rows and the raw sample paths persisted alongside a record.
type ChartSeriesStore interface {
	// InsertChart adds all percentile and sample-path rows for a record.
	// Fails the entire batch on any error.
	InsertChart(ctx context.Context, recordID string, chart domain.ChartData) error

	// GetChart reassembles the chart for a record, percentile series ordered
	// by day ASC and sample paths by (path_index, day) ASC.
	// Returns ErrNotFound if the record has no chart rows.
	GetChart(ctx context.Context, recordID string) (*domain.ChartData, error)
}

// InsightStore provides access to per-ticker insight storage.
// One row per ticker holding the latest recommended levels and summary
// scalars. Rows are created explicitly; UpdateLevels never inserts.
type InsightStore interface {
	// Insert adds a new insight row. Returns ErrDuplicateKey if ticker exists.
	Insert(ctx context.Context, ins *domain.InsightRecord) error

	// GetByTicker retrieves the insight row for a ticker. Returns ErrNotFound if not exists.
	GetByTicker(ctx context.Context, ticker string) (*domain.InsightRecord, error)

	// UpdateLevels overwrites an existing row's levels and scalars.
	// Returns ErrNotFound when no row exists for the ticker; it never inserts.
	UpdateLevels(ctx context.Context, ins *domain.InsightRecord) error
}

// TickerInfoStore provides access to instrument metadata storage.
type TickerInfoStore interface {
	// Insert adds new ticker metadata. Returns ErrDuplicateKey if ticker exists.
	Insert(ctx context.Context, info *domain.TickerInfo) error

	// GetByTicker retrieves metadata by ticker. Returns ErrNotFound if not exists.
	GetByTicker(ctx context.Context, ticker string) (*domain.TickerInfo, error)

	// ListAll retrieves all tickers, ordered by ticker ASC.
	ListAll(ctx context.Context) ([]*domain.TickerInfo, error)
}

// DailyCloseStore provides access to daily close history storage.
type DailyCloseStore interface {
	// InsertBulk adds multiple closes. Fails entire batch on duplicate (ticker, timestamp_ms).
	InsertBulk(ctx context.Context, closes []*domain.DailyClose) error

	// GetByTicker retrieves all closes for a ticker, ordered by timestamp ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.DailyClose, error)

	// GetLastN retrieves the most recent n closes for a ticker, ordered by
	// timestamp ASC. Returns fewer when less history exists.
	GetLastN(ctx context.Context, ticker string, n int) ([]*domain.DailyClose, error)
}
