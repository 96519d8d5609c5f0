package chaindata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"solana-sniper/internal/dex"
	"solana-sniper/internal/domain"
	"solana-sniper/internal/solana"
)

// DefaultFetchTimeout bounds a single ResolveToken or Snapshot call.
const DefaultFetchTimeout = 10 * time.Second

// Provider assembles domain objects from on-chain state. Every call
// fetches fresh data; results are never cached across calls.
type Provider interface {
	// ResolveToken fetches mint and metadata accounts for a newly
	// discovered mint and builds the immutable Token.
	ResolveToken(ctx context.Context, mint string) (*domain.Token, error)

	// Snapshot builds a point-in-time MarketMetrics for the token.
	// Returns domain.ErrDataUnavailable when any required chain query
	// fails; callers skip the cycle and retry later.
	Snapshot(ctx context.Context, token *domain.Token) (*domain.MarketMetrics, error)
}

// LockInspector reports whether a pool's liquidity is locked or burned.
// Implementations check LP mint authority and burn state.
type LockInspector interface {
	LiquidityLocked(ctx context.Context, pool *dex.PoolInfo) (bool, error)
}

// RPCProvider implements Provider against Solana JSON-RPC.
type RPCProvider struct {
	rpc          solana.RPCClient
	pools        dex.PoolProvider
	locks        LockInspector
	fetchTimeout time.Duration
	history      *priceHistory
	now          func() time.Time
	log          zerolog.Logger
}

// ProviderOption configures an RPCProvider.
type ProviderOption func(*RPCProvider)

// WithFetchTimeout overrides the per-call fetch timeout.
func WithFetchTimeout(d time.Duration) ProviderOption {
	return func(p *RPCProvider) { p.fetchTimeout = d }
}

// WithLockInspector sets the liquidity lock checker. Without one every
// snapshot reports liquidity as unlocked.
func WithLockInspector(l LockInspector) ProviderOption {
	return func(p *RPCProvider) { p.locks = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *RPCProvider) { p.now = now }
}

// NewRPCProvider creates a chain data provider.
func NewRPCProvider(rpc solana.RPCClient, pools dex.PoolProvider, log zerolog.Logger, opts ...ProviderOption) *RPCProvider {
	p := &RPCProvider{
		rpc:          rpc,
		pools:        pools,
		fetchTimeout: DefaultFetchTimeout,
		history:      newPriceHistory(),
		now:          time.Now,
		log:          log.With().Str("component", "chaindata").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveToken fetches the mint account, current block time and Metaplex
// metadata to build a Token.
func (p *RPCProvider) ResolveToken(ctx context.Context, mint string) (*domain.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	info, err := p.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, p.unavailable("get mint account", mint, err)
	}
	if info == nil {
		return nil, fmt.Errorf("mint %s not found: %w", mint, domain.ErrDataUnavailable)
	}

	decoded, err := solana.DecodeAccountData(info.Data)
	if err != nil {
		return nil, p.unavailable("decode mint data", mint, err)
	}

	mintAcct, err := parseMintAccount(decoded)
	if err != nil {
		return nil, p.unavailable("parse mint data", mint, err)
	}

	token := &domain.Token{
		Address:          mint,
		Decimals:         mintAcct.Decimals,
		TotalSupply:      mintAcct.Supply,
		CreationTime:     p.creationTime(ctx),
		InitialLiquidity: p.initialLiquidity(ctx, mint),
	}

	if pda := deriveMetadataPDA(mint); pda != "" {
		if metaInfo, err := p.rpc.GetAccountInfo(ctx, pda); err == nil && metaInfo != nil {
			if decoded, err := solana.DecodeAccountData(metaInfo.Data); err == nil {
				if meta, ok := parseMetadata(decoded); ok {
					token.Name = meta.Name
					token.Symbol = meta.Symbol
					if meta.URI != "" {
						uri := meta.URI
						token.MetadataURI = &uri
					}
				}
			}
		}
	}

	return token, nil
}

// initialLiquidity reads the pool's SOL-side reserve at discovery time.
// A mint with no pool yet resolves with zero, which the risk liquidity
// floor rejects downstream.
func (p *RPCProvider) initialLiquidity(ctx context.Context, mint string) float64 {
	pool, err := p.pools.GetPoolInfo(ctx, mint)
	if err != nil {
		p.log.Debug().Err(err).Str("mint", mint).Msg("no pool at resolve time")
		return 0
	}
	return float64(pool.QuoteReserve) / 1e9
}

// creationTime approximates the mint's creation as the current block time.
// Scanned mints are seconds old, so the current slot's time is close
// enough for the age gate. Falls back to wall clock on RPC failure.
func (p *RPCProvider) creationTime(ctx context.Context) time.Time {
	slot, err := p.rpc.GetSlot(ctx)
	if err != nil {
		return p.now()
	}
	bt, err := p.rpc.GetBlockTime(ctx, slot)
	if err != nil || bt == nil {
		return p.now()
	}
	return time.Unix(*bt, 0)
}

// Snapshot assembles MarketMetrics from pool reserves, token supply,
// holder distribution and the creator wallet.
func (p *RPCProvider) Snapshot(ctx context.Context, token *domain.Token) (*domain.MarketMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	pool, err := p.pools.GetPoolInfo(ctx, token.Address)
	if err != nil {
		return nil, p.unavailable("get pool info", token.Address, err)
	}
	if pool.BaseReserve == 0 {
		return nil, fmt.Errorf("empty pool for %s: %w", token.Address, domain.ErrDataUnavailable)
	}

	baseUI := float64(pool.BaseReserve) / math.Pow(10, float64(pool.BaseDecimals))
	quoteUI := float64(pool.QuoteReserve) / math.Pow(10, float64(pool.QuoteDecimals))
	price := quoteUI / baseUI

	supply, err := p.rpc.GetTokenSupply(ctx, token.Address)
	if err != nil {
		return nil, p.unavailable("get token supply", token.Address, err)
	}
	supplyUI := float64(supply.Amount) / math.Pow(10, float64(supply.Decimals))

	holders, err := p.rpc.CountTokenHolders(ctx, token.Address)
	if err != nil {
		return nil, p.unavailable("count holders", token.Address, err)
	}

	topPct, err := p.topHolderShare(ctx, token.Address, pool.PoolID, supply.Amount)
	if err != nil {
		return nil, err
	}

	creatorBalance, err := p.creatorBalance(ctx, token.Address)
	if err != nil {
		return nil, err
	}

	locked := false
	if p.locks != nil {
		locked, err = p.locks.LiquidityLocked(ctx, pool)
		if err != nil {
			return nil, p.unavailable("check liquidity lock", token.Address, err)
		}
	}

	now := p.now()
	p.history.record(token.Address, price, now)

	age := now.Sub(token.CreationTime)
	if age < 0 {
		age = 0
	}

	return &domain.MarketMetrics{
		Price:     price,
		MarketCap: price * supplyUI,
		Liquidity: quoteUI,
		// 24h volume needs a trade indexer; zero until one is wired,
		// the volume scorer then uses its fallback.
		Volume24h:            0,
		PriceChange5m:        p.history.changeSince(token.Address, price, now, 5*time.Minute),
		PriceChange1h:        p.history.changeSince(token.Address, price, now, time.Hour),
		HolderCount:          holders,
		TopHolderPct:         topPct,
		CreatorWalletBalance: creatorBalance,
		TimeSinceCreation:    age,
		LiquidityLocked:      locked,
		InitialLiquiditySOL:  token.InitialLiquidity,
	}, nil
}

// ForgetPrices drops the price history for a mint. Called when a
// position is closed and the mint will not be evaluated again.
func (p *RPCProvider) ForgetPrices(mint string) {
	p.history.forget(mint)
}

// topHolderShare returns the largest holder's fraction of supply. The
// pool's own accounts are excluded by address where identifiable.
func (p *RPCProvider) topHolderShare(ctx context.Context, mint, poolID string, supply uint64) (float64, error) {
	if supply == 0 {
		return 0, nil
	}

	accounts, err := p.rpc.GetTokenLargestAccounts(ctx, mint)
	if err != nil {
		return 0, p.unavailable("get largest accounts", mint, err)
	}

	var top uint64
	for _, acct := range accounts {
		if acct.Address == poolID {
			continue
		}
		if acct.Amount > top {
			top = acct.Amount
		}
	}

	return float64(top) / float64(supply), nil
}

// creatorBalance fetches the mint authority's SOL balance. A renounced
// authority reads as zero, which the rug-pull gate treats as clean.
func (p *RPCProvider) creatorBalance(ctx context.Context, mint string) (float64, error) {
	info, err := p.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return 0, p.unavailable("get mint account", mint, err)
	}
	if info == nil {
		return 0, fmt.Errorf("mint %s not found: %w", mint, domain.ErrDataUnavailable)
	}

	decoded, err := solana.DecodeAccountData(info.Data)
	if err != nil {
		return 0, p.unavailable("decode mint data", mint, err)
	}

	mintAcct, err := parseMintAccount(decoded)
	if err != nil {
		return 0, p.unavailable("parse mint data", mint, err)
	}

	if mintAcct.MintAuthority == "" {
		return 0, nil
	}

	lamports, err := p.rpc.GetBalance(ctx, mintAcct.MintAuthority)
	if err != nil {
		return 0, p.unavailable("get creator balance", mint, err)
	}

	return float64(lamports) / 1e9, nil
}

// unavailable logs the underlying cause and returns the sentinel the
// engine keys its skip-and-retry behavior on.
func (p *RPCProvider) unavailable(op, mint string, err error) error {
	p.log.Debug().Err(err).Str("mint", mint).Str("op", op).Msg("chain query failed")
	return fmt.Errorf("%s for %s: %w", op, mint, domain.ErrDataUnavailable)
}

var _ Provider = (*RPCProvider)(nil)
