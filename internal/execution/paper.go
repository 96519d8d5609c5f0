package execution

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-sniper/internal/dex"
	"solana-sniper/internal/domain"
)

// DefaultMaxPriceImpact rejects swaps that would move the pool more
// than 2%.
const DefaultMaxPriceImpact = 0.02

const lamportsPerSOL = 1_000_000_000

// PaperExecutor simulates fills against live pool reserves without
// signing or broadcasting anything. Every fill is appended to an
// in-memory ledger with decimal arithmetic so recorded amounts do not
// drift.
type PaperExecutor struct {
	pools          dex.PoolProvider
	maxPriceImpact float64
	now            func() time.Time
	log            zerolog.Logger

	mu     sync.Mutex
	fills  []Fill
	spent  decimal.Decimal // SOL paid out across buys
	gained decimal.Decimal // SOL received across sells
}

// PaperOption configures a PaperExecutor.
type PaperOption func(*PaperExecutor)

// WithMaxPriceImpact overrides the slippage guard threshold.
func WithMaxPriceImpact(limit float64) PaperOption {
	return func(e *PaperExecutor) { e.maxPriceImpact = limit }
}

// WithPaperClock overrides the time source.
func WithPaperClock(now func() time.Time) PaperOption {
	return func(e *PaperExecutor) { e.now = now }
}

// NewPaperExecutor creates a paper trading executor.
func NewPaperExecutor(pools dex.PoolProvider, log zerolog.Logger, opts ...PaperOption) *PaperExecutor {
	e := &PaperExecutor{
		pools:          pools,
		maxPriceImpact: DefaultMaxPriceImpact,
		now:            time.Now,
		log:            log.With().Str("component", "execution").Logger(),
		spent:          decimal.Zero,
		gained:         decimal.Zero,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Buy simulates swapping sizeSOL into the token.
func (e *PaperExecutor) Buy(ctx context.Context, token *domain.Token, sizeSOL float64) (*Fill, error) {
	if sizeSOL <= 0 {
		return nil, fmt.Errorf("buy size %v: %w", sizeSOL, domain.ErrInvalidInput)
	}

	pool, err := e.pools.GetPoolInfo(ctx, token.Address)
	if err != nil {
		return nil, fmt.Errorf("pool for %s: %w", token.Address, err)
	}

	lamportsIn := uint64(sizeSOL * lamportsPerSOL)
	tokensOut, impact, err := dex.CalculateSwap(lamportsIn, pool.QuoteReserve, pool.BaseReserve)
	if err != nil {
		return nil, fmt.Errorf("quote buy for %s: %w", token.Address, err)
	}

	if impact > e.maxPriceImpact {
		e.log.Warn().
			Str("mint", token.Address).
			Float64("impact", impact).
			Float64("limit", e.maxPriceImpact).
			Msg("buy rejected by slippage guard")
		return nil, fmt.Errorf("price impact %.4f over limit %.4f: %w", impact, e.maxPriceImpact, ErrSlippageExceeded)
	}

	solAmount := decimal.NewFromFloat(sizeSOL)
	tokenAmount := decimal.NewFromUint64(tokensOut).
		Div(decimal.NewFromFloat(math.Pow(10, float64(pool.BaseDecimals))))

	fill := Fill{
		Mint:         token.Address,
		Side:         SideBuy,
		AmountSOL:    solAmount,
		AmountTokens: tokenAmount,
		PriceImpact:  impact,
		ExecutedAt:   e.now(),
	}
	if !tokenAmount.IsZero() {
		fill.Price = solAmount.Div(tokenAmount)
	}

	e.mu.Lock()
	e.fills = append(e.fills, fill)
	e.spent = e.spent.Add(solAmount)
	e.mu.Unlock()

	e.log.Info().
		Str("mint", token.Address).
		Str("sol", solAmount.String()).
		Str("tokens", tokenAmount.String()).
		Float64("impact", impact).
		Msg("paper buy filled")

	return &fill, nil
}

// Sell simulates swapping the position's full token holding back to SOL.
// No slippage guard on the way out: an exit signal always exits.
func (e *PaperExecutor) Sell(ctx context.Context, position *domain.Position) (*Fill, error) {
	token := position.Token

	pool, err := e.pools.GetPoolInfo(ctx, token.Address)
	if err != nil {
		return nil, fmt.Errorf("pool for %s: %w", token.Address, err)
	}

	tokensHeld := e.positionTokens(position)
	tokensRaw := uint64(tokensHeld * math.Pow(10, float64(pool.BaseDecimals)))
	if tokensRaw == 0 {
		return nil, fmt.Errorf("position in %s holds no tokens: %w", token.Address, domain.ErrInvalidInput)
	}

	lamportsOut, impact, err := dex.CalculateSwap(tokensRaw, pool.BaseReserve, pool.QuoteReserve)
	if err != nil {
		return nil, fmt.Errorf("quote sell for %s: %w", token.Address, err)
	}

	solAmount := decimal.NewFromUint64(lamportsOut).
		Div(decimal.NewFromInt(lamportsPerSOL))
	tokenAmount := decimal.NewFromFloat(tokensHeld)

	fill := Fill{
		Mint:         token.Address,
		Side:         SideSell,
		AmountSOL:    solAmount,
		AmountTokens: tokenAmount,
		PriceImpact:  impact,
		ExecutedAt:   e.now(),
	}
	if !tokenAmount.IsZero() {
		fill.Price = solAmount.Div(tokenAmount)
	}

	e.mu.Lock()
	e.fills = append(e.fills, fill)
	e.gained = e.gained.Add(solAmount)
	e.mu.Unlock()

	e.log.Info().
		Str("mint", token.Address).
		Str("sol", solAmount.String()).
		Str("tokens", tokenAmount.String()).
		Msg("paper sell filled")

	return &fill, nil
}

// positionTokens derives the token quantity from size and entry price.
func (e *PaperExecutor) positionTokens(position *domain.Position) float64 {
	if position.EntryPrice <= 0 {
		return 0
	}
	return position.SizeSOL / position.EntryPrice
}

// Fills returns a copy of the ledger.
func (e *PaperExecutor) Fills() []Fill {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Fill, len(e.fills))
	copy(out, e.fills)
	return out
}

// RealizedPnL returns SOL received minus SOL spent across all fills.
func (e *PaperExecutor) RealizedPnL() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gained.Sub(e.spent)
}

var _ Executor = (*PaperExecutor)(nil)
