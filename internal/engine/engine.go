// Package engine runs the trading decision loop: consume discovered
// tokens, gate them through risk analysis and the entry strategy, open
// paper positions and monitor them until an exit signal fires.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"solana-sniper/internal/chaindata"
	"solana-sniper/internal/domain"
	"solana-sniper/internal/execution"
	"solana-sniper/internal/observability"
	"solana-sniper/internal/risk"
	"solana-sniper/internal/storage"
	"solana-sniper/internal/strategy"
)

// DefaultMonitorInterval is how often open positions are re-evaluated.
const DefaultMonitorInterval = 15 * time.Second

// Options bundles the engine's dependencies.
type Options struct {
	Provider chaindata.Provider
	Risk     *risk.Analyzer
	Strategy *strategy.Strategy
	Executor execution.Executor

	TokenStore  storage.TokenStore
	SignalStore storage.SignalStore
	TradeStore  storage.TradeStore
	Archiver    storage.SnapshotArchiver // optional

	Metrics *observability.Metrics // optional

	MonitorInterval time.Duration
	Logger          zerolog.Logger
}

// Engine is the decision loop.
type Engine struct {
	provider chaindata.Provider
	risk     *risk.Analyzer
	strategy *strategy.Strategy
	executor execution.Executor

	tokens   storage.TokenStore
	signals  storage.SignalStore
	trades   storage.TradeStore
	archiver storage.SnapshotArchiver

	metrics *observability.Metrics

	book     *positionBook
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger

	wg sync.WaitGroup
}

// New creates an engine from options.
func New(opts Options) *Engine {
	interval := opts.MonitorInterval
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}

	return &Engine{
		provider: opts.Provider,
		risk:     opts.Risk,
		strategy: opts.Strategy,
		executor: opts.Executor,
		tokens:   opts.TokenStore,
		signals:  opts.SignalStore,
		trades:   opts.TradeStore,
		archiver: opts.Archiver,
		metrics:  opts.Metrics,
		book:     newPositionBook(),
		interval: interval,
		now:      time.Now,
		log:      opts.Logger.With().Str("component", "engine").Logger(),
	}
}

// Run consumes the discovery feed until the context is canceled or the
// feed closes, then waits for position monitors to finish.
func (e *Engine) Run(ctx context.Context, feed <-chan domain.Token) error {
	defer e.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case token, ok := <-feed:
			if !ok {
				return nil
			}
			e.handleToken(ctx, token)
		}
	}
}

// OpenPositions returns the number of positions currently held.
func (e *Engine) OpenPositions() int {
	return e.book.size()
}

func (e *Engine) handleToken(ctx context.Context, token domain.Token) {
	log := e.log.With().Str("mint", token.Address).Logger()

	if e.metrics != nil {
		e.metrics.TokensDiscovered.Inc()
	}

	if err := e.tokens.Insert(ctx, &token); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		e.storeError("tokens", err)
	}

	if e.book.has(token.Address) {
		return
	}

	score := e.risk.Analyze(&token)
	if !score.IsSafe() {
		log.Info().
			Float64("liquidity", score.Liquidity).
			Float64("ownership", score.Ownership).
			Float64("code", score.Code).
			Float64("volume", score.Volume).
			Msg("rejected by risk analysis")
		e.reject("risk")
		return
	}

	m, err := e.provider.Snapshot(ctx, &token)
	if err != nil {
		// Unknown is never fatal. Skip this token; a fresh snapshot
		// happens if it is seen again.
		log.Debug().Err(err).Msg("snapshot failed, skipping evaluation")
		if e.metrics != nil {
			e.metrics.SnapshotFailures.Inc()
		}
		return
	}
	e.archive(ctx, token.Address, m)

	signal := e.strategy.EvaluateBuy(&token, m)
	if !signal.ShouldBuy {
		log.Debug().Str("reason", signal.Reason).Msg("no entry")
		e.reject("signals")
		return
	}

	e.recordSignal(ctx, token.Address, signal)
	if e.metrics != nil {
		e.metrics.SignalsGenerated.WithLabelValues("buy").Inc()
	}

	fill, err := e.executor.Buy(ctx, &token, signal.SuggestedPositionSize)
	if err != nil {
		if errors.Is(err, execution.ErrSlippageExceeded) {
			log.Info().Err(err).Msg("entry skipped, pool too thin for position size")
			return
		}
		log.Warn().Err(err).Msg("buy failed")
		return
	}
	e.recordFill(ctx, fill)

	entryPrice := fill.Price.InexactFloat64()
	if entryPrice <= 0 {
		entryPrice = m.Price
	}

	position := domain.NewPosition(token, entryPrice, signal.SuggestedPositionSize, e.now())
	if !e.book.add(position) {
		return
	}
	if e.metrics != nil {
		e.metrics.PositionsOpen.Set(float64(e.book.size()))
	}

	log.Info().
		Float64("entry_price", entryPrice).
		Float64("size_sol", position.SizeSOL).
		Str("reason", signal.Reason).
		Msg("position opened")

	e.wg.Add(1)
	go e.monitor(ctx, position)
}

// monitor re-evaluates one open position until an exit signal fires or
// the context ends.
func (e *Engine) monitor(ctx context.Context, position *domain.Position) {
	defer e.wg.Done()

	mint := position.Token.Address
	log := e.log.With().Str("mint", mint).Logger()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		m, err := e.provider.Snapshot(ctx, &position.Token)
		if err != nil {
			// Skip the cycle, never exit on missing data.
			log.Debug().Err(err).Msg("snapshot failed, skipping cycle")
			if e.metrics != nil {
				e.metrics.SnapshotFailures.Inc()
			}
			continue
		}

		position.Observe(m.Price)
		e.archive(ctx, mint, m)

		signal := e.strategy.EvaluateSell(&position.Token, m, position.EntryPrice, position.HighestPrice)
		if !signal.ShouldSell {
			continue
		}

		e.recordSignal(ctx, mint, signal)
		if e.metrics != nil {
			e.metrics.SignalsGenerated.WithLabelValues("sell").Inc()
		}

		fill, err := e.executor.Sell(ctx, position)
		if err != nil {
			// Keep holding and retry next cycle; the exit condition
			// will still be true.
			log.Warn().Err(err).Msg("sell failed, retrying next cycle")
			continue
		}
		e.recordFill(ctx, fill)

		e.book.remove(mint)
		if e.metrics != nil {
			e.metrics.PositionsOpen.Set(float64(e.book.size()))
		}

		log.Info().
			Str("reason", signal.Reason).
			Float64("entry_price", position.EntryPrice).
			Float64("exit_price", m.Price).
			Msg("position closed")
		return
	}
}

func (e *Engine) recordSignal(ctx context.Context, mint string, signal domain.TradeSignal) {
	rec := &domain.SignalRecord{
		Mint:                  mint,
		ShouldBuy:             signal.ShouldBuy,
		ShouldSell:            signal.ShouldSell,
		Confidence:            signal.Confidence,
		Reason:                signal.Reason,
		SuggestedPositionSize: signal.SuggestedPositionSize,
		EvaluatedAt:           e.now(),
	}
	if err := e.signals.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		e.storeError("signals", err)
	}
}

func (e *Engine) recordFill(ctx context.Context, fill *execution.Fill) {
	rec := &domain.TradeRecord{
		Mint:         fill.Mint,
		Side:         string(fill.Side),
		AmountSOL:    fill.AmountSOL,
		AmountTokens: fill.AmountTokens,
		Price:        fill.Price,
		PriceImpact:  fill.PriceImpact,
		ExecutedAt:   fill.ExecutedAt,
	}
	if err := e.trades.Insert(ctx, rec); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		e.storeError("trades", err)
	}
	if e.metrics != nil {
		e.metrics.TradesExecuted.WithLabelValues(string(fill.Side)).Inc()
	}
}

// archive appends a snapshot to cold storage. Best effort.
func (e *Engine) archive(ctx context.Context, mint string, m *domain.MarketMetrics) {
	if e.archiver == nil {
		return
	}
	rec := &domain.SnapshotRecord{Mint: mint, ObservedAt: e.now(), Metrics: *m}
	if err := e.archiver.Archive(ctx, []*domain.SnapshotRecord{rec}); err != nil {
		e.storeError("snapshots", err)
	}
}

func (e *Engine) reject(gate string) {
	if e.metrics != nil {
		e.metrics.TokensRejected.WithLabelValues(gate).Inc()
	}
}

func (e *Engine) storeError(store string, err error) {
	e.log.Warn().Err(err).Str("store", store).Msg("store write failed")
	if e.metrics != nil {
		e.metrics.StoreErrors.WithLabelValues(store).Inc()
	}
}
