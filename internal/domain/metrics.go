package domain

import "time"

// MarketMetrics is a point-in-time observation of a token's market state.
// Produced fresh per evaluation call by the chain data provider; never cached.
// Percentage fields are fractions in [0,1].
type MarketMetrics struct {
	Price                float64       // current price in SOL per token
	Volume24h            float64       // 24h trade volume in SOL
	MarketCap            float64       // price * total supply
	Liquidity            float64       // current quote-side pool liquidity in SOL
	PriceChange1h        float64       // 1h price change ratio
	PriceChange5m        float64       // 5m price change ratio
	HolderCount          int           // number of holders with nonzero balance
	TopHolderPct         float64       // largest non-pool holder's share of supply
	CreatorWalletBalance float64       // creator wallet holdings, see strategy rug-pull gate
	TimeSinceCreation    time.Duration // elapsed since mint creation, non-negative
	LiquidityLocked      bool          // whether pool liquidity is locked
	InitialLiquiditySOL  float64       // quote-side liquidity at pool creation
}
