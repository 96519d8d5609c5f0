package domain

import "time"

// Token represents a newly discovered fungible token mint.
// Immutable after discovery; created by the discovery scanner and read by
// every downstream component.
type Token struct {
	Address          string    // mint address (base58)
	Name             string    // token name from on-chain metadata
	Symbol           string    // token symbol from on-chain metadata
	Decimals         int       // decimal precision
	TotalSupply      uint64    // supply in smallest units
	CreationTime     time.Time // block time of the mint transaction
	InitialLiquidity float64   // quote-side pool liquidity in SOL at discovery
	MetadataURI      *string   // off-chain metadata URI (nullable)
}
