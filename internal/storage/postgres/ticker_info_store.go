package postgres

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// TickerInfoStore implements storage.TickerInfoStore using PostgreSQL.
type TickerInfoStore struct {
	pool *Pool
}

// NewTickerInfoStore creates a new TickerInfoStore.
func NewTickerInfoStore(pool *Pool) *TickerInfoStore {
	return &TickerInfoStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TickerInfoStore = (*TickerInfoStore)(nil)

// Insert adds new ticker metadata. Returns ErrDuplicateKey if ticker exists.
func (s *TickerInfoStore) Insert(ctx context.Context, info *domain.TickerInfo) error {
	query := `
		INSERT INTO tickers (ticker, name, region, sector, description)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		info.Ticker, info.Name, info.Region, info.Sector, info.Description,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert ticker info: %w", err)
	}
	return nil
}

// GetByTicker retrieves metadata by ticker. Returns ErrNotFound if not exists.
func (s *TickerInfoStore) GetByTicker(ctx context.Context, ticker string) (*domain.TickerInfo, error) {
	query := `
		SELECT ticker, name, region, sector, description
		FROM tickers
		WHERE ticker = $1
	`

	var info domain.TickerInfo
	err := s.pool.QueryRow(ctx, query, ticker).Scan(
		&info.Ticker, &info.Name, &info.Region, &info.Sector, &info.Description,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get ticker info: %w", err)
	}
	return &info, nil
}

// ListAll retrieves all tickers, ordered by ticker ASC.
func (s *TickerInfoStore) ListAll(ctx context.Context) ([]*domain.TickerInfo, error) {
	query := `
		SELECT ticker, name, region, sector, description
		FROM tickers
		ORDER BY ticker ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all tickers: %w", err)
	}
	defer rows.Close()

	var infos []*domain.TickerInfo
	for rows.Next() {
		var info domain.TickerInfo
		if err := rows.Scan(&info.Ticker, &info.Name, &info.Region, &info.Sector, &info.Description); err != nil {
			return nil, fmt.Errorf("scan ticker info row: %w", err)
		}
		infos = append(infos, &info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticker info rows: %w", err)
	}

	return infos, nil
}
