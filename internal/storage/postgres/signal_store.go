package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// SignalStore implements storage.SignalStore using PostgreSQL.
type SignalStore struct {
	pool *Pool
}

// NewSignalStore creates a new SignalStore.
func NewSignalStore(pool *Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

// Insert adds a signal record. Returns ErrDuplicateKey if
// (mint, evaluated_at) exists.
func (s *SignalStore) Insert(ctx context.Context, rec *domain.SignalRecord) error {
	if rec == nil || rec.Mint == "" || rec.EvaluatedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO signals (
			mint, should_buy, should_sell, confidence, reason, suggested_position_size, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.Mint,
		rec.ShouldBuy,
		rec.ShouldSell,
		rec.Confidence,
		rec.Reason,
		rec.SuggestedPositionSize,
		rec.EvaluatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// GetByMint retrieves all signals for a mint, ordered by evaluation time ASC.
func (s *SignalStore) GetByMint(ctx context.Context, mint string) ([]*domain.SignalRecord, error) {
	query := `
		SELECT mint, should_buy, should_sell, confidence, reason, suggested_position_size, evaluated_at
		FROM signals
		WHERE mint = $1
		ORDER BY evaluated_at ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get signals by mint: %w", err)
	}
	defer rows.Close()

	var result []*domain.SignalRecord
	for rows.Next() {
		rec, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// scanSignal scans a single row into a SignalRecord.
func scanSignal(row pgx.Row) (*domain.SignalRecord, error) {
	var rec domain.SignalRecord

	err := row.Scan(
		&rec.Mint,
		&rec.ShouldBuy,
		&rec.ShouldSell,
		&rec.Confidence,
		&rec.Reason,
		&rec.SuggestedPositionSize,
		&rec.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}
