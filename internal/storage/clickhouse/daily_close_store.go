package clickhouse

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// DailyCloseStore implements storage.DailyCloseStore using ClickHouse.
type DailyCloseStore struct {
	conn *Conn
}

// NewDailyCloseStore creates a new DailyCloseStore.
func NewDailyCloseStore(conn *Conn) *DailyCloseStore {
	return &DailyCloseStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyCloseStore = (*DailyCloseStore)(nil)

// InsertBulk adds multiple closes. Fails entire batch on duplicate (ticker, timestamp_ms).
func (s *DailyCloseStore) InsertBulk(ctx context.Context, closes []*domain.DailyClose) error {
	if len(closes) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		ticker      string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, c := range closes {
		k := key{c.Ticker, c.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, c := range closes {
		exists, err := s.exists(ctx, c.Ticker, c.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_closes (
			ticker, timestamp_ms, close
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range closes {
		err = batch.Append(c.Ticker, uint64(c.TimestampMs), c.Close)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all closes for a ticker, ordered by timestamp ASC.
func (s *DailyCloseStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.DailyClose, error) {
	query := `
		SELECT ticker, timestamp_ms, close
		FROM daily_closes
		WHERE ticker = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query by ticker: %w", err)
	}
	defer rows.Close()

	return scanDailyCloses(rows)
}

// GetLastN retrieves the most recent n closes for a ticker, ordered by
// timestamp ASC. Returns fewer when less history exists.
func (s *DailyCloseStore) GetLastN(ctx context.Context, ticker string, n int) ([]*domain.DailyClose, error) {
	if n <= 0 {
		return nil, nil
	}

	query := `
		SELECT ticker, timestamp_ms, close
		FROM (
			SELECT ticker, timestamp_ms, close
			FROM daily_closes
			WHERE ticker = ?
			ORDER BY timestamp_ms DESC
			LIMIT ?
		)
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, uint64(n))
	if err != nil {
		return nil, fmt.Errorf("query last n: %w", err)
	}
	defer rows.Close()

	return scanDailyCloses(rows)
}

// exists checks if a close with the given key exists.
func (s *DailyCloseStore) exists(ctx context.Context, ticker string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM daily_closes
		WHERE ticker = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, ticker, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanDailyCloses scans multiple rows.
func scanDailyCloses(rows chRows) ([]*domain.DailyClose, error) {
	var closes []*domain.DailyClose

	for rows.Next() {
		var c domain.DailyClose
		var timestampMs uint64

		err := rows.Scan(&c.Ticker, &timestampMs, &c.Close)
		if err != nil {
			return nil, fmt.Errorf("scan daily close row: %w", err)
		}

		c.TimestampMs = int64(timestampMs)
		closes = append(closes, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily close rows: %w", err)
	}

	return closes, nil
}
