package dex

import "context"

// Well-known program and mint addresses.
const (
	// RaydiumAMMV4 is the Raydium AMM v4 program ID.
	RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

	// WSOLMint is the wrapped SOL mint address.
	WSOLMint = "So11111111111111111111111111111111111111112"
)

// PoolInfo represents AMM pool state at observation time.
// It is stale immediately; callers must refresh before acting if staleness
// matters.
type PoolInfo struct {
	PoolID        string
	BaseMint      string // token mint
	QuoteMint     string // SOL mint
	LPMint        string // pool share mint, empty when the DEX has none
	BaseReserve   uint64 // token amount in pool, smallest units
	QuoteReserve  uint64 // SOL amount in pool, lamports
	BaseDecimals  int
	QuoteDecimals int
}

// PoolProvider resolves current pool state for a token mint.
// Implementations query a DEX program on-chain; swap instruction
// construction and signing are outside this interface.
type PoolProvider interface {
	// GetPoolInfo returns pool state for the token's SOL pair.
	// Returns domain.ErrDataUnavailable if no pool exists or the query fails.
	GetPoolInfo(ctx context.Context, mint string) (*PoolInfo, error)
}
