package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL. Amounts
// are stored as NUMERIC and round-trip through decimal strings.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a trade record. Returns ErrDuplicateKey if
// (mint, side, executed_at) exists.
func (s *TradeStore) Insert(ctx context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.Mint == "" || rec.Side == "" || rec.ExecutedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (
			mint, side, amount_sol, amount_tokens, price, price_impact, executed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.Mint,
		rec.Side,
		rec.AmountSOL.String(),
		rec.AmountTokens.String(),
		rec.Price.String(),
		rec.PriceImpact,
		rec.ExecutedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// GetByMint retrieves all fills for a mint, ordered by execution time ASC.
func (s *TradeStore) GetByMint(ctx context.Context, mint string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT mint, side, amount_sol::text, amount_tokens::text, price::text, price_impact, executed_at
		FROM trades
		WHERE mint = $1
		ORDER BY executed_at ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get trades by mint: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// scanTrade scans a single row into a TradeRecord.
func scanTrade(row pgx.Row) (*domain.TradeRecord, error) {
	var rec domain.TradeRecord
	var amountSOL, amountTokens, price string

	err := row.Scan(
		&rec.Mint,
		&rec.Side,
		&amountSOL,
		&amountTokens,
		&price,
		&rec.PriceImpact,
		&rec.ExecutedAt,
	)
	if err != nil {
		return nil, err
	}

	if rec.AmountSOL, err = decimal.NewFromString(amountSOL); err != nil {
		return nil, fmt.Errorf("parse amount_sol: %w", err)
	}
	if rec.AmountTokens, err = decimal.NewFromString(amountTokens); err != nil {
		return nil, fmt.Errorf("parse amount_tokens: %w", err)
	}
	if rec.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}

	return &rec, nil
}
