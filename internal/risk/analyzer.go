// Package risk maps raw token facts into normalized safety sub-scores.
package risk

import "solana-sniper/internal/domain"

// MinLiquiditySOL is the reference liquidity amount for a full liquidity
// score. Tokens below it score on a linear ramp.
const MinLiquiditySOL = 1000.0

// Fallback constants for axes without a real analyzer wired in.
const (
	fallbackOwnershipScore = 0.9
	fallbackCodeScore      = 1.0
	fallbackVolumeScore    = 0.8
)

// Scorer produces one sub-score in [0,1] for a token.
// Each axis is a pluggable strategy so real analyzers can be substituted
// without touching the aggregator.
type Scorer interface {
	Score(token *domain.Token) float64
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(token *domain.Token) float64

// Score implements Scorer.
func (f ScorerFunc) Score(token *domain.Token) float64 { return f(token) }

// Analyzer aggregates four per-axis scorers into a Score.
type Analyzer struct {
	liquidity Scorer
	ownership Scorer
	code      Scorer
	volume    Scorer
}

// Option overrides one of the Analyzer's axis scorers.
type Option func(*Analyzer)

// WithLiquidityScorer replaces the liquidity axis.
func WithLiquidityScorer(s Scorer) Option { return func(a *Analyzer) { a.liquidity = s } }

// WithOwnershipScorer replaces the ownership axis.
func WithOwnershipScorer(s Scorer) Option { return func(a *Analyzer) { a.ownership = s } }

// WithCodeScorer replaces the code axis.
func WithCodeScorer(s Scorer) Option { return func(a *Analyzer) { a.code = s } }

// WithVolumeScorer replaces the volume axis.
func WithVolumeScorer(s Scorer) Option { return func(a *Analyzer) { a.volume = s } }

// NewAnalyzer creates an Analyzer. Axes without an override use the
// documented fallbacks: a linear liquidity ramp and fixed constants for
// ownership, code and volume.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		liquidity: ScorerFunc(liquidityRamp),
		ownership: ScorerFunc(func(*domain.Token) float64 { return fallbackOwnershipScore }),
		code:      ScorerFunc(func(*domain.Token) float64 { return fallbackCodeScore }),
		volume:    ScorerFunc(func(*domain.Token) float64 { return fallbackVolumeScore }),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores a token on all four axes.
func (a *Analyzer) Analyze(token *domain.Token) Score {
	return Score{
		Liquidity: a.liquidity.Score(token),
		Ownership: a.ownership.Score(token),
		Code:      a.code.Score(token),
		Volume:    a.volume.Score(token),
	}
}

// liquidityRamp scores initial liquidity linearly up to MinLiquiditySOL,
// saturating at 1.0.
func liquidityRamp(token *domain.Token) float64 {
	if token.InitialLiquidity >= MinLiquiditySOL {
		return 1.0
	}
	if token.InitialLiquidity <= 0 {
		return 0
	}
	return token.InitialLiquidity / MinLiquiditySOL
}
