package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// SimulationRecordStore implements storage.SimulationRecordStore using PostgreSQL.
type SimulationRecordStore struct {
	pool *Pool
}

// NewSimulationRecordStore creates a new SimulationRecordStore.
func NewSimulationRecordStore(pool *Pool) *SimulationRecordStore {
	return &SimulationRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationRecordStore = (*SimulationRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *SimulationRecordStore) Insert(ctx context.Context, r *domain.SimulationRecord) error {
	query := `
		INSERT INTO simulation_records (
			record_id, session_id, ticker, strategy,
			entry_price, target_price, stop_loss, volatility, drift,
			horizon_days, num_simulations, optimized,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			created_at_ms
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19
		)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RecordID, r.SessionID, r.Ticker, r.Strategy,
		r.EntryPrice, r.TargetPrice, r.StopLoss, r.Volatility, r.Drift,
		r.HorizonDays, r.NumSimulations, r.Optimized,
		r.WinProbability, r.RiskOfRuin, r.ExpiredProbability,
		r.AvgDaysToTarget, r.MaximumDrawdown, r.ExpectedValue,
		r.CreatedAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *SimulationRecordStore) GetByID(ctx context.Context, recordID string) (*domain.SimulationRecord, error) {
	query := `
		SELECT
			record_id, session_id, ticker, strategy,
			entry_price, target_price, stop_loss, volatility, drift,
			horizon_days, num_simulations, optimized,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			created_at_ms
		FROM simulation_records
		WHERE record_id = $1
	`

	row := s.pool.QueryRow(ctx, query, recordID)
	r, err := scanSimulationRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation record by id: %w", err)
	}
	return r, nil
}

// ListBySession retrieves all records for a session, ordered by created_at_ms ASC.
func (s *SimulationRecordStore) ListBySession(ctx context.Context, sessionID string) ([]*domain.SimulationRecord, error) {
	query := `
		SELECT
			record_id, session_id, ticker, strategy,
			entry_price, target_price, stop_loss, volatility, drift,
			horizon_days, num_simulations, optimized,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			created_at_ms
		FROM simulation_records
		WHERE session_id = $1
		ORDER BY created_at_ms ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list simulation records by session: %w", err)
	}
	defer rows.Close()

	return scanSimulationRecords(rows)
}

// ListByTicker retrieves all records for a ticker, ordered by created_at_ms ASC.
func (s *SimulationRecordStore) ListByTicker(ctx context.Context, ticker string) ([]*domain.SimulationRecord, error) {
	query := `
		SELECT
			record_id, session_id, ticker, strategy,
			entry_price, target_price, stop_loss, volatility, drift,
			horizon_days, num_simulations, optimized,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			created_at_ms
		FROM simulation_records
		WHERE ticker = $1
		ORDER BY created_at_ms ASC, record_id ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("list simulation records by ticker: %w", err)
	}
	defer rows.Close()

	return scanSimulationRecords(rows)
}

// scanSimulationRecord scans a single row into a SimulationRecord.
func scanSimulationRecord(row pgx.Row) (*domain.SimulationRecord, error) {
	var r domain.SimulationRecord

	err := row.Scan(
		&r.RecordID, &r.SessionID, &r.Ticker, &r.Strategy,
		&r.EntryPrice, &r.TargetPrice, &r.StopLoss, &r.Volatility, &r.Drift,
		&r.HorizonDays, &r.NumSimulations, &r.Optimized,
		&r.WinProbability, &r.RiskOfRuin, &r.ExpiredProbability,
		&r.AvgDaysToTarget, &r.MaximumDrawdown, &r.ExpectedValue,
		&r.CreatedAtMs,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// scanSimulationRecords scans multiple rows into a slice of SimulationRecord.
func scanSimulationRecords(rows pgx.Rows) ([]*domain.SimulationRecord, error) {
	var records []*domain.SimulationRecord

	for rows.Next() {
		var r domain.SimulationRecord

		err := rows.Scan(
			&r.RecordID, &r.SessionID, &r.Ticker, &r.Strategy,
			&r.EntryPrice, &r.TargetPrice, &r.StopLoss, &r.Volatility, &r.Drift,
			&r.HorizonDays, &r.NumSimulations, &r.Optimized,
			&r.WinProbability, &r.RiskOfRuin, &r.ExpiredProbability,
			&r.AvgDaysToTarget, &r.MaximumDrawdown, &r.ExpectedValue,
			&r.CreatedAtMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan simulation record row: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation record rows: %w", err)
	}

	return records, nil
}
