package engine

import (
	"sync"

	"solana-sniper/internal/domain"
)

// positionBook tracks open positions by mint. One position per mint;
// a token already held is not bought again.
type positionBook struct {
	mu        sync.RWMutex
	positions map[string]*domain.Position
}

func newPositionBook() *positionBook {
	return &positionBook{positions: make(map[string]*domain.Position)}
}

// add registers a position. Returns false if the mint is already held.
func (b *positionBook) add(p *domain.Position) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.positions[p.Token.Address]; exists {
		return false
	}
	b.positions[p.Token.Address] = p
	return true
}

// remove drops a position by mint.
func (b *positionBook) remove(mint string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.positions, mint)
}

// has reports whether the mint is currently held.
func (b *positionBook) has(mint string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, exists := b.positions[mint]
	return exists
}

// size returns the number of open positions.
func (b *positionBook) size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.positions)
}
