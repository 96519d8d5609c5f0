package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/execution"
	"solana-sniper/internal/risk"
	"solana-sniper/internal/storage/memory"
	"solana-sniper/internal/strategy"
)

// scriptedProvider serves one MarketMetrics per Snapshot call, holding
// the last entry once the script runs out. An empty script means data
// is unavailable.
type scriptedProvider struct {
	mu     sync.Mutex
	script []*domain.MarketMetrics
	calls  int
}

func (p *scriptedProvider) ResolveToken(_ context.Context, _ string) (*domain.Token, error) {
	return nil, errors.New("not used")
}

func (p *scriptedProvider) Snapshot(_ context.Context, _ *domain.Token) (*domain.MarketMetrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.script) == 0 {
		return nil, domain.ErrDataUnavailable
	}
	idx := p.calls
	if idx >= len(p.script) {
		idx = len(p.script) - 1
	}
	p.calls++
	m := *p.script[idx]
	return &m, nil
}

// recordingExecutor fills every order at the requested terms.
type recordingExecutor struct {
	mu    sync.Mutex
	buys  []string
	sells []string
}

func (e *recordingExecutor) Buy(_ context.Context, token *domain.Token, sizeSOL float64) (*execution.Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buys = append(e.buys, token.Address)
	return &execution.Fill{
		Mint:         token.Address,
		Side:         execution.SideBuy,
		AmountSOL:    decimal.NewFromFloat(sizeSOL),
		AmountTokens: decimal.NewFromInt(1000),
		Price:        decimal.NewFromFloat(0.001),
		ExecutedAt:   time.Now(),
	}, nil
}

func (e *recordingExecutor) Sell(_ context.Context, position *domain.Position) (*execution.Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sells = append(e.sells, position.Token.Address)
	return &execution.Fill{
		Mint:         position.Token.Address,
		Side:         execution.SideSell,
		AmountSOL:    decimal.NewFromFloat(0.9),
		AmountTokens: decimal.NewFromInt(1000),
		Price:        decimal.NewFromFloat(0.0009),
		ExecutedAt:   time.Now(),
	}, nil
}

func (e *recordingExecutor) counts() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.buys), len(e.sells)
}

func testToken() domain.Token {
	return domain.Token{
		Address:          "mint1",
		Symbol:           "ONE",
		CreationTime:     time.Now().Add(-5 * time.Minute),
		InitialLiquidity: 800, // clears the risk liquidity floor
	}
}

// buyableMetrics triggers all three weighted entry signals.
func buyableMetrics() *domain.MarketMetrics {
	return &domain.MarketMetrics{
		Price:               0.001,
		Liquidity:           10,
		PriceChange5m:       0.5,
		HolderCount:         50,
		TopHolderPct:        0.01,
		LiquidityLocked:     true,
		TimeSinceCreation:   5 * time.Minute,
		InitialLiquiditySOL: 10,
	}
}

func stopLossMetrics() *domain.MarketMetrics {
	m := buyableMetrics()
	m.Price = 0.00089 // 11% below entry
	m.PriceChange5m = -0.02
	return m
}

func newTestEngine(provider *scriptedProvider, exec execution.Executor) (*Engine, *memory.SignalStore, *memory.TradeStore) {
	signals := memory.NewSignalStore()
	trades := memory.NewTradeStore()

	e := New(Options{
		Provider:        provider,
		Risk:            risk.NewAnalyzer(),
		Strategy:        strategy.New(strategy.DefaultConfig()),
		Executor:        exec,
		TokenStore:      memory.NewTokenStore(),
		SignalStore:     signals,
		TradeStore:      trades,
		MonitorInterval: 10 * time.Millisecond,
		Logger:          zerolog.Nop(),
	})
	return e, signals, trades
}

func TestEngine_BuyThenStopLoss(t *testing.T) {
	provider := &scriptedProvider{script: []*domain.MarketMetrics{
		buyableMetrics(),  // entry evaluation
		buyableMetrics(),  // first monitor cycle, holds
		stopLossMetrics(), // second cycle triggers stop loss
	}}
	exec := &recordingExecutor{}
	engine, signals, trades := newTestEngine(provider, exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := make(chan domain.Token, 1)
	feed <- testToken()

	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx, feed) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, sells := exec.counts(); sells == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("position never closed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	close(feed)
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if engine.OpenPositions() != 0 {
		t.Errorf("open positions = %d", engine.OpenPositions())
	}

	recs, err := trades.GetByMint(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("trades: %v", err)
	}
	if len(recs) != 2 || recs[0].Side != "buy" || recs[1].Side != "sell" {
		t.Fatalf("trade records = %+v", recs)
	}

	sigs, err := signals.GetByMint(context.Background(), "mint1")
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("signal records = %+v", sigs)
	}
	if !sigs[0].ShouldBuy {
		t.Errorf("first signal = %+v", sigs[0])
	}
	if !sigs[1].ShouldSell || !strings.Contains(sigs[1].Reason, "Stop loss triggered") {
		t.Errorf("second signal = %+v", sigs[1])
	}
}

func TestEngine_RejectsUnsafeToken(t *testing.T) {
	provider := &scriptedProvider{script: []*domain.MarketMetrics{buyableMetrics()}}
	exec := &recordingExecutor{}
	engine, _, _ := newTestEngine(provider, exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := testToken()
	token.InitialLiquidity = 100 // liquidity score 0.1, below the floor

	feed := make(chan domain.Token, 1)
	feed <- token
	close(feed)

	if err := engine.Run(ctx, feed); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if buys, _ := exec.counts(); buys != 0 {
		t.Errorf("unsafe token was bought")
	}
}

func TestEngine_SkipsOnDataUnavailable(t *testing.T) {
	provider := &scriptedProvider{} // every snapshot fails
	exec := &recordingExecutor{}
	engine, _, _ := newTestEngine(provider, exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := make(chan domain.Token, 1)
	feed <- testToken()
	close(feed)

	if err := engine.Run(ctx, feed); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if buys, _ := exec.counts(); buys != 0 {
		t.Errorf("bought without market data")
	}
	if engine.OpenPositions() != 0 {
		t.Errorf("open positions = %d", engine.OpenPositions())
	}
}

func TestEngine_DoesNotDoubleBuy(t *testing.T) {
	provider := &scriptedProvider{script: []*domain.MarketMetrics{buyableMetrics()}}
	exec := &recordingExecutor{}
	engine, _, _ := newTestEngine(provider, exec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := make(chan domain.Token, 2)
	feed <- testToken()
	feed <- testToken()

	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx, feed) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if buys, _ := exec.counts(); buys >= 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no buy happened")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Give the second feed entry time to be processed, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if buys, _ := exec.counts(); buys != 1 {
		t.Errorf("buys = %d, want 1 for a held mint", buys)
	}
}
