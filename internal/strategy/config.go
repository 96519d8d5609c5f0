package strategy

import "time"

// Config carries every threshold the buy/sell evaluation uses.
// DefaultConfig returns the tuned reference values; callers pass a Config
// explicitly, there is no package-level mutable state.
type Config struct {
	// Rug-pull protection.
	MaxCreatorWalletShare float64 // max creator holdings; compared against
	// MarketMetrics.CreatorWalletBalance as-is. The reference system
	// compares a balance-like value to this fractional threshold; kept
	// literally pending clarification of the units.
	MaxSingleWalletShare float64       // max single non-pool holder share of supply
	UnlockedAgeLimit     time.Duration // unlocked liquidity tolerated only below this age
	PumpManipulation5m   float64       // 5m change above this is treated as manipulation

	// Entry gates.
	MaxTokenAge            time.Duration // only snipe tokens younger than this
	MinInitialLiquiditySOL float64       // minimum quote-side liquidity at creation

	// Momentum window.
	MinPriceIncrease5m float64
	MaxPriceIncrease5m float64

	// Early-holder sweet spot.
	MinHolderCount int
	MaxHolderCount int

	// Signal weights and the buy decision floor.
	MomentumWeight      float64
	HolderCountWeight   float64
	LiquidityLockWeight float64
	BuyConfidenceFloor  float64

	// Exit targets.
	InitialTakeProfit  float64 // first profit target
	ExtendedTakeProfit float64 // hold past the first target while momentum is hot
	StopLoss           float64 // negative fraction
	TrailingStop       float64 // drop from high-water mark once in profit
	CoolingMomentum5m  float64 // 5m change below this counts as slowing

	// Position sizing.
	MaxPositionSOL float64
	RiskPerTrade   float64
}

// DefaultConfig returns the reference sniper parameters.
func DefaultConfig() Config {
	return Config{
		MaxCreatorWalletShare: 0.05,
		MaxSingleWalletShare:  0.03,
		UnlockedAgeLimit:      10 * time.Minute,
		PumpManipulation5m:    5.0,

		MaxTokenAge:            30 * time.Minute,
		MinInitialLiquiditySOL: 5.0,

		MinPriceIncrease5m: 0.20,
		MaxPriceIncrease5m: 2.0,

		MinHolderCount: 10,
		MaxHolderCount: 100,

		MomentumWeight:      0.9,
		HolderCountWeight:   0.8,
		LiquidityLockWeight: 0.7,
		BuyConfidenceFloor:  0.7,

		InitialTakeProfit:  0.5,
		ExtendedTakeProfit: 1.0,
		StopLoss:           -0.1,
		TrailingStop:       0.15,
		CoolingMomentum5m:  0.05,

		MaxPositionSOL: 0.1,
		RiskPerTrade:   0.05,
	}
}
