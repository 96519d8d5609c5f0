package chaindata

import (
	"context"
	"testing"

	"solana-sniper/internal/dex"
	"solana-sniper/internal/solana"
)

func TestLPBurnInspector_LiquidityLocked(t *testing.T) {
	lpMint := "LPMint1111111111111111111111111111111111111"

	tests := []struct {
		name     string
		supply   uint64
		noMint   bool
		noLPMint bool
		want     bool
	}{
		{name: "fully burned", supply: 0, want: true},
		{name: "live supply", supply: 5_000_000, want: false},
		{name: "mint account closed", noMint: true, want: true},
		{name: "dex without lp mint", noLPMint: true, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rpc := &fakeRPC{accounts: map[string]*solana.AccountInfo{}}
			if !tc.noMint {
				rpc.accounts[lpMint] = &solana.AccountInfo{
					Data: encodeMintAccount(nil, tc.supply, 9),
				}
			}

			pool := &dex.PoolInfo{LPMint: lpMint}
			if tc.noLPMint {
				pool.LPMint = ""
			}

			locked, err := NewLPBurnInspector(rpc).LiquidityLocked(context.Background(), pool)
			if err != nil {
				t.Fatalf("LiquidityLocked: %v", err)
			}
			if locked != tc.want {
				t.Errorf("locked = %v, want %v", locked, tc.want)
			}
		})
	}
}

func TestLPBurnInspector_RPCFailure(t *testing.T) {
	rpc := &fakeRPC{failAccounts: true}
	pool := &dex.PoolInfo{LPMint: "LPMint1111111111111111111111111111111111111"}

	if _, err := NewLPBurnInspector(rpc).LiquidityLocked(context.Background(), pool); err == nil {
		t.Fatal("expected error when the lp mint cannot be read")
	}
}
