package risk

// Per-axis minimum thresholds. Each sub-score must independently meet its
// floor; there is no weighting or combination across axes.
const (
	MinLiquidityScore = 0.7
	MinOwnershipScore = 0.8
	MinCodeScore      = 0.9
	MinVolumeScore    = 0.6
)

// Score holds four normalized safety sub-scores in [0,1].
// Higher means safer.
type Score struct {
	Liquidity float64
	Ownership float64
	Code      float64
	Volume    float64
}

// IsSafe reports whether every sub-score meets its minimum threshold.
func (s Score) IsSafe() bool {
	return s.Liquidity >= MinLiquidityScore &&
		s.Ownership >= MinOwnershipScore &&
		s.Code >= MinCodeScore &&
		s.Volume >= MinVolumeScore
}
