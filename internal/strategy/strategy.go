// Package strategy implements the buy/sell decision core: rug-pull gating,
// momentum-based entries, and a profit/stop-loss/trailing-stop exit chain.
package strategy

import (
	"fmt"
	"math"
	"strings"

	"solana-sniper/internal/domain"
)

// Strategy evaluates buy and sell opportunities for sniped tokens.
// All methods are pure over their inputs and safe for concurrent use
// across distinct tokens.
type Strategy struct {
	cfg Config
}

// New creates a Strategy with the given thresholds.
func New(cfg Config) *Strategy {
	return &Strategy{cfg: cfg}
}

// EvaluateBuy decides whether to snipe a token, running hard disqualifiers
// first and then accumulating weighted entry signals.
func (s *Strategy) EvaluateBuy(token *domain.Token, m *domain.MarketMetrics) domain.TradeSignal {
	if !validMetrics(m) {
		return domain.TradeSignal{Reason: "Invalid market data"}
	}

	if s.isPotentialRugPull(m) {
		return domain.TradeSignal{Reason: "Rug pull risk detected"}
	}

	if m.TimeSinceCreation > s.cfg.MaxTokenAge {
		return domain.TradeSignal{Reason: "Token too old for sniping"}
	}

	if m.InitialLiquiditySOL < s.cfg.MinInitialLiquiditySOL {
		return domain.TradeSignal{Reason: "Insufficient initial liquidity"}
	}

	var (
		reasons []string
		weights []float64
	)

	if s.cfg.MinPriceIncrease5m <= m.PriceChange5m && m.PriceChange5m <= s.cfg.MaxPriceIncrease5m {
		weights = append(weights, s.cfg.MomentumWeight)
		reasons = append(reasons, fmt.Sprintf("Strong early momentum: %.1f%%", m.PriceChange5m*100))
	}

	if s.cfg.MinHolderCount <= m.HolderCount && m.HolderCount <= s.cfg.MaxHolderCount {
		weights = append(weights, s.cfg.HolderCountWeight)
		reasons = append(reasons, "Optimal early holder count")
	}

	if m.LiquidityLocked {
		weights = append(weights, s.cfg.LiquidityLockWeight)
		reasons = append(reasons, "Liquidity locked")
	}

	if len(weights) == 0 {
		return domain.TradeSignal{Reason: "No strong buy signals"}
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	confidence := sum / float64(len(weights))

	return domain.TradeSignal{
		ShouldBuy:             confidence > s.cfg.BuyConfidenceFloor,
		Confidence:            confidence,
		Reason:                strings.Join(reasons, " | "),
		SuggestedPositionSize: s.PositionSize(confidence),
	}
}

// EvaluateSell decides whether to exit a position. entryPrice and
// highestPrice belong to the caller-owned position state; the caller updates
// the high-water mark on every snapshot before calling.
func (s *Strategy) EvaluateSell(token *domain.Token, m *domain.MarketMetrics, entryPrice, highestPrice float64) domain.TradeSignal {
	if !validMetrics(m) || entryPrice <= 0 || math.IsNaN(entryPrice) || math.IsNaN(highestPrice) {
		return domain.TradeSignal{Reason: "Invalid market data"}
	}

	priceChange := (m.Price - entryPrice) / entryPrice
	trailingStopPrice := highestPrice * (1 - s.cfg.TrailingStop)

	var (
		reasons    []string
		shouldSell bool
	)

	switch {
	case priceChange <= s.cfg.StopLoss:
		shouldSell = true
		reasons = append(reasons, fmt.Sprintf("Stop loss triggered: %.1f%%", priceChange*100))

	case priceChange >= s.cfg.ExtendedTakeProfit:
		shouldSell = true
		reasons = append(reasons, fmt.Sprintf("Extended profit target reached: %.1f%%", priceChange*100))

	case priceChange >= s.cfg.InitialTakeProfit:
		// Hold for the extended target unless momentum is cooling.
		if m.PriceChange5m < s.cfg.CoolingMomentum5m {
			shouldSell = true
			reasons = append(reasons, fmt.Sprintf("Initial profit target with slowing momentum: %.1f%%", priceChange*100))
		}

	case priceChange > 0 && m.Price < trailingStopPrice:
		shouldSell = true
		reasons = append(reasons, fmt.Sprintf("Trailing stop triggered at %.1f%% profit", priceChange*100))
	}

	// Emergency exit, independent of the chain above.
	if s.isPotentialRugPull(m) {
		shouldSell = true
		reasons = append(reasons, "Rug pull warning signals detected")
	}

	reason := "No sell signals"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, " | ")
	}

	var confidence float64
	if shouldSell {
		confidence = 0.9
	}

	return domain.TradeSignal{
		ShouldSell: shouldSell,
		Confidence: confidence,
		Reason:     reason,
	}
}

// isPotentialRugPull reports whether any rug-pull warning fires.
func (s *Strategy) isPotentialRugPull(m *domain.MarketMetrics) bool {
	return m.TopHolderPct > s.cfg.MaxSingleWalletShare ||
		m.CreatorWalletBalance > s.cfg.MaxCreatorWalletShare ||
		(!m.LiquidityLocked && m.TimeSinceCreation > s.cfg.UnlockedAgeLimit) ||
		m.PriceChange5m > s.cfg.PumpManipulation5m
}

// validMetrics rejects malformed snapshots before they reach the pure
// decision math. An invalid snapshot resolves to "no action".
func validMetrics(m *domain.MarketMetrics) bool {
	if m == nil {
		return false
	}
	if math.IsNaN(m.Price) || math.IsInf(m.Price, 0) || m.Price < 0 {
		return false
	}
	if math.IsNaN(m.PriceChange5m) || math.IsNaN(m.PriceChange1h) {
		return false
	}
	return m.TimeSinceCreation >= 0
}
