// Package stub provides an in-memory PoolProvider for tests and dry runs.
package stub

import (
	"context"
	"sync"

	"solana-sniper/internal/dex"
	"solana-sniper/internal/domain"
)

// PoolProvider serves pool state from an in-memory map.
type PoolProvider struct {
	mu    sync.RWMutex
	pools map[string]dex.PoolInfo // keyed by base mint
}

// NewPoolProvider creates an empty stub provider.
func NewPoolProvider() *PoolProvider {
	return &PoolProvider{pools: make(map[string]dex.PoolInfo)}
}

// SetPool registers or replaces pool state for a mint.
func (p *PoolProvider) SetPool(info dex.PoolInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pools[info.BaseMint] = info
}

// GetPoolInfo returns a copy of the registered pool state.
func (p *PoolProvider) GetPoolInfo(_ context.Context, mint string) (*dex.PoolInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	info, ok := p.pools[mint]
	if !ok {
		return nil, domain.ErrDataUnavailable
	}
	return &info, nil
}

var _ dex.PoolProvider = (*PoolProvider)(nil)
