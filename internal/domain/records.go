package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalRecord is a persisted strategy verdict. One row per evaluation
// that produced an actionable signal; no-action evaluations are not
// stored.
type SignalRecord struct {
	Mint                  string
	ShouldBuy             bool
	ShouldSell            bool
	Confidence            float64
	Reason                string
	SuggestedPositionSize float64
	EvaluatedAt           time.Time
}

// TradeRecord is a persisted fill.
type TradeRecord struct {
	Mint         string
	Side         string // "buy" or "sell"
	AmountSOL    decimal.Decimal
	AmountTokens decimal.Decimal
	Price        decimal.Decimal
	PriceImpact  float64
	ExecutedAt   time.Time
}

// SnapshotRecord is a MarketMetrics observation flattened for the
// append-only archive.
type SnapshotRecord struct {
	Mint       string
	ObservedAt time.Time
	Metrics    MarketMetrics
}
