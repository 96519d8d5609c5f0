package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a discovered token. Returns ErrDuplicateKey if the mint
// address was already recorded.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	if t == nil || t.Address == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO tokens (
			address, name, symbol, decimals, total_supply, creation_time, initial_liquidity, metadata_uri
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		t.Address,
		t.Name,
		t.Symbol,
		t.Decimals,
		int64(t.TotalSupply),
		t.CreationTime,
		t.InitialLiquidity,
		t.MetadataURI,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByAddress retrieves a token by mint address. Returns ErrNotFound
// if not recorded.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (*domain.Token, error) {
	query := `
		SELECT address, name, symbol, decimals, total_supply, creation_time, initial_liquidity, metadata_uri
		FROM tokens
		WHERE address = $1
	`

	row := s.pool.QueryRow(ctx, query, address)
	t, err := scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}
	return t, nil
}

// GetByTimeRange retrieves tokens created within [start, end] (inclusive).
func (s *TokenStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Token, error) {
	query := `
		SELECT address, name, symbol, decimals, total_supply, creation_time, initial_liquidity, metadata_uri
		FROM tokens
		WHERE creation_time >= $1 AND creation_time <= $2
		ORDER BY creation_time ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get tokens by time range: %w", err)
	}
	defer rows.Close()

	var result []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// scanToken scans a single row into a Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var supply int64

	err := row.Scan(
		&t.Address,
		&t.Name,
		&t.Symbol,
		&t.Decimals,
		&supply,
		&t.CreationTime,
		&t.InitialLiquidity,
		&t.MetadataURI,
	)
	if err != nil {
		return nil, err
	}

	t.TotalSupply = uint64(supply)
	return &t, nil
}
