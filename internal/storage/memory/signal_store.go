package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// SignalStore is an in-memory implementation of storage.SignalStore.
type SignalStore struct {
	mu   sync.RWMutex
	data map[signalKey]*domain.SignalRecord
}

type signalKey struct {
	mint        string
	evaluatedAt time.Time
}

// NewSignalStore creates a new in-memory signal store.
func NewSignalStore() *SignalStore {
	return &SignalStore{
		data: make(map[signalKey]*domain.SignalRecord),
	}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

// Insert adds a signal record. Returns ErrDuplicateKey if
// (mint, evaluated_at) exists.
func (s *SignalStore) Insert(_ context.Context, rec *domain.SignalRecord) error {
	if rec == nil || rec.Mint == "" || rec.EvaluatedAt.IsZero() {
		return storage.ErrInvalidInput
	}

	key := signalKey{rec.Mint, rec.EvaluatedAt}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *rec
	s.data[key] = &recCopy
	return nil
}

// GetByMint retrieves all signals for a mint, ordered by evaluation time ASC.
func (s *SignalStore) GetByMint(_ context.Context, mint string) ([]*domain.SignalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SignalRecord
	for key, rec := range s.data {
		if key.mint == mint {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EvaluatedAt.Before(result[j].EvaluatedAt)
	})

	return result, nil
}
