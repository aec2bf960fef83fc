package postgres

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// InsightStore implements storage.InsightStore using PostgreSQL.
type InsightStore struct {
	pool *Pool
}

// NewInsightStore creates a new InsightStore.
func NewInsightStore(pool *Pool) *InsightStore {
	return &InsightStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InsightStore = (*InsightStore)(nil)

// Insert adds a new insight row. Returns ErrDuplicateKey if ticker exists.
func (s *InsightStore) Insert(ctx context.Context, ins *domain.InsightRecord) error {
	query := `
		INSERT INTO insights (
			ticker, direction, entry_price, target_price, stop_loss,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			updated_at_ms
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12
		)
	`

	_, err := s.pool.Exec(ctx, query,
		ins.Ticker, ins.Direction, ins.EntryPrice, ins.TargetPrice, ins.StopLoss,
		ins.WinProbability, ins.RiskOfRuin, ins.ExpiredProbability,
		ins.AvgDaysToTarget, ins.MaximumDrawdown, ins.ExpectedValue,
		ins.UpdatedAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

// GetByTicker retrieves the insight row for a ticker. Returns ErrNotFound if not exists.
func (s *InsightStore) GetByTicker(ctx context.Context, ticker string) (*domain.InsightRecord, error) {
	query := `
		SELECT
			ticker, direction, entry_price, target_price, stop_loss,
			win_probability, risk_of_ruin, expired_probability,
			avg_days_to_target, maximum_drawdown, expected_value,
			updated_at_ms
		FROM insights
		WHERE ticker = $1
	`

	var ins domain.InsightRecord
	err := s.pool.QueryRow(ctx, query, ticker).Scan(
		&ins.Ticker, &ins.Direction, &ins.EntryPrice, &ins.TargetPrice, &ins.StopLoss,
		&ins.WinProbability, &ins.RiskOfRuin, &ins.ExpiredProbability,
		&ins.AvgDaysToTarget, &ins.MaximumDrawdown, &ins.ExpectedValue,
		&ins.UpdatedAtMs,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get insight by ticker: %w", err)
	}
	return &ins, nil
}

// UpdateLevels overwrites an existing row's levels and scalars.
// Returns ErrNotFound when no row exists for the ticker; it never inserts.
func (s *InsightStore) UpdateLevels(ctx context.Context, ins *domain.InsightRecord) error {
	query := `
		UPDATE insights SET
			direction = $2,
			entry_price = $3,
			target_price = $4,
			stop_loss = $5,
			win_probability = $6,
			risk_of_ruin = $7,
			expired_probability = $8,
			avg_days_to_target = $9,
			maximum_drawdown = $10,
			expected_value = $11,
			updated_at_ms = $12
		WHERE ticker = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		ins.Ticker, ins.Direction, ins.EntryPrice, ins.TargetPrice, ins.StopLoss,
		ins.WinProbability, ins.RiskOfRuin, ins.ExpiredProbability,
		ins.AvgDaysToTarget, ins.MaximumDrawdown, ins.ExpectedValue,
		ins.UpdatedAtMs,
	)
	if err != nil {
		return fmt.Errorf("update insight levels: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
