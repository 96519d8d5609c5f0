// Package execution turns trade signals into fills. The engine talks to
// the Executor interface; live transaction signing and broadcast are out
// of scope, so the shipped implementation is a paper ledger.
package execution

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"solana-sniper/internal/domain"
)

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ErrSlippageExceeded means the swap's price impact was above the
// configured maximum and the trade was not executed.
var ErrSlippageExceeded = errors.New("slippage exceeded")

// Fill records one executed trade.
type Fill struct {
	Mint         string
	Side         Side
	AmountSOL    decimal.Decimal // SOL spent (buy) or received (sell)
	AmountTokens decimal.Decimal // tokens received (buy) or sold (sell)
	Price        decimal.Decimal // effective SOL per token
	PriceImpact  float64
	ExecutedAt   time.Time
}

// Executor opens and closes positions.
type Executor interface {
	// Buy spends sizeSOL on the token's pool and returns the fill.
	// Returns ErrSlippageExceeded when price impact is above the limit.
	Buy(ctx context.Context, token *domain.Token, sizeSOL float64) (*Fill, error)

	// Sell swaps the position's full token holding back to SOL.
	Sell(ctx context.Context, position *domain.Position) (*Fill, error)
}
