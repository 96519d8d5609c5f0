package chaindata

import (
	"context"
	"fmt"

	"solana-sniper/internal/dex"
	"solana-sniper/internal/solana"
)

// LPBurnInspector implements LockInspector by reading the pool's LP
// mint. Liquidity counts as locked when the LP supply has been fully
// burned or the mint account is gone. A live LP supply means the
// creator can still pull the pool.
type LPBurnInspector struct {
	rpc solana.RPCClient
}

// NewLPBurnInspector creates a lock inspector backed by an RPC client.
func NewLPBurnInspector(rpc solana.RPCClient) *LPBurnInspector {
	return &LPBurnInspector{rpc: rpc}
}

var _ LockInspector = (*LPBurnInspector)(nil)

// LiquidityLocked reports whether the pool's LP tokens are burned.
func (i *LPBurnInspector) LiquidityLocked(ctx context.Context, pool *dex.PoolInfo) (bool, error) {
	if pool.LPMint == "" {
		return false, nil
	}

	info, err := i.rpc.GetAccountInfo(ctx, pool.LPMint)
	if err != nil {
		return false, fmt.Errorf("get lp mint %s: %w", pool.LPMint, err)
	}
	if info == nil {
		// LP mint account closed, nothing left to redeem.
		return true, nil
	}

	decoded, err := solana.DecodeAccountData(info.Data)
	if err != nil {
		return false, fmt.Errorf("decode lp mint %s: %w", pool.LPMint, err)
	}

	mintAcct, err := parseMintAccount(decoded)
	if err != nil {
		return false, fmt.Errorf("parse lp mint %s: %w", pool.LPMint, err)
	}

	return mintAcct.Supply == 0, nil
}
