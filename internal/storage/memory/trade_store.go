package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[tradeKey]*domain.TradeRecord
}

type tradeKey struct {
	mint       string
	side       string
	executedAt time.Time
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[tradeKey]*domain.TradeRecord),
	}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a trade record. Returns ErrDuplicateKey if
// (mint, side, executed_at) exists.
func (s *TradeStore) Insert(_ context.Context, rec *domain.TradeRecord) error {
	if rec == nil || rec.Mint == "" || rec.Side == "" || rec.ExecutedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	key := tradeKey{rec.Mint, rec.Side, rec.ExecutedAt}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *rec
	s.data[key] = &recCopy
	return nil
}

// GetByMint retrieves all fills for a mint, ordered by execution time ASC.
func (s *TradeStore) GetByMint(_ context.Context, mint string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for key, rec := range s.data {
		if key.mint == mint {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ExecutedAt.Before(result[j].ExecutedAt)
	})

	return result, nil
}
