package storage

import (
	"context"
	"time"

	"solana-sniper/internal/domain"
)

// TokenStore provides access to discovered token storage.
type TokenStore interface {
	// Insert adds a discovered token. Returns ErrDuplicateKey if the
	// mint address was already recorded.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByAddress retrieves a token by mint address. Returns
	// ErrNotFound if not recorded.
	GetByAddress(ctx context.Context, address string) (*domain.Token, error)

	// GetByTimeRange retrieves tokens created within [start, end]
	// (inclusive), ordered by creation time ASC.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Token, error)
}

// SignalStore provides access to persisted strategy verdicts.
type SignalStore interface {
	// Insert adds a signal record. Returns ErrDuplicateKey if
	// (mint, evaluated_at) exists.
	Insert(ctx context.Context, s *domain.SignalRecord) error

	// GetByMint retrieves all signals for a mint, ordered by
	// evaluation time ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.SignalRecord, error)
}

// TradeStore provides access to persisted fills.
type TradeStore interface {
	// Insert adds a trade record. Returns ErrDuplicateKey if
	// (mint, side, executed_at) exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// GetByMint retrieves all fills for a mint, ordered by execution
	// time ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.TradeRecord, error)
}

// SnapshotArchiver appends market snapshots to cold storage for offline
// analysis. Best effort; the engine logs and continues on failure.
type SnapshotArchiver interface {
	// Archive appends a batch of snapshots.
	Archive(ctx context.Context, snapshots []*domain.SnapshotRecord) error
}
