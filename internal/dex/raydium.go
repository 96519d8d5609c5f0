package dex

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/solana"
)

// Raydium AMM v4 liquidity state layout. Account size and field byte
// offsets within the 752-byte pool account.
const (
	raydiumPoolAccountSize = 752

	offBaseDecimal      = 32
	offQuoteDecimal     = 40
	offBaseNeedTakePnl  = 192
	offQuoteNeedTakePnl = 200
	offBaseVault        = 336
	offQuoteVault       = 368
	offBaseMint         = 400
	offQuoteMint        = 432
	offLPMint           = 464
)

// Token account layout: the u64 amount sits at offset 64 of the
// 165-byte SPL token account.
const (
	tokenAccountSize      = 165
	tokenAccountAmountOff = 64
)

// RaydiumPoolProvider resolves pool state for token/SOL pairs from the
// Raydium AMM v4 program via getProgramAccounts.
type RaydiumPoolProvider struct {
	rpc solana.RPCClient
	log zerolog.Logger
}

var _ PoolProvider = (*RaydiumPoolProvider)(nil)

// NewRaydiumPoolProvider creates a pool provider backed by an RPC client.
func NewRaydiumPoolProvider(rpc solana.RPCClient, log zerolog.Logger) *RaydiumPoolProvider {
	return &RaydiumPoolProvider{
		rpc: rpc,
		log: log.With().Str("component", "raydium").Logger(),
	}
}

// GetPoolInfo finds the token's SOL pool and reads its reserves from the
// vault token accounts. Reserves are adjusted by the pool's pending PnL
// so they reflect what the constant product actually trades against.
// The result is normalized with the token as base and WSOL as quote
// regardless of the pool's own orientation.
func (p *RaydiumPoolProvider) GetPoolInfo(ctx context.Context, mint string) (*PoolInfo, error) {
	acc, flipped, err := p.findPool(ctx, mint)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, fmt.Errorf("no raydium pool for %s: %w", mint, domain.ErrDataUnavailable)
	}

	state, err := parsePoolState(acc.Data)
	if err != nil {
		p.log.Warn().Err(err).Str("pool", acc.Pubkey).Msg("unparseable pool account")
		return nil, fmt.Errorf("pool %s: %w", acc.Pubkey, err)
	}

	baseReserve, err := p.vaultBalance(ctx, state.baseVault)
	if err != nil {
		return nil, fmt.Errorf("base vault for %s: %w", mint, domain.ErrDataUnavailable)
	}
	quoteReserve, err := p.vaultBalance(ctx, state.quoteVault)
	if err != nil {
		return nil, fmt.Errorf("quote vault for %s: %w", mint, domain.ErrDataUnavailable)
	}

	// Pending PnL is owed to the protocol and not part of tradable depth.
	if baseReserve > state.baseNeedTakePnl {
		baseReserve -= state.baseNeedTakePnl
	}
	if quoteReserve > state.quoteNeedTakePnl {
		quoteReserve -= state.quoteNeedTakePnl
	}

	info := &PoolInfo{
		PoolID:        acc.Pubkey,
		BaseMint:      state.baseMint,
		QuoteMint:     state.quoteMint,
		LPMint:        state.lpMint,
		BaseReserve:   baseReserve,
		QuoteReserve:  quoteReserve,
		BaseDecimals:  state.baseDecimals,
		QuoteDecimals: state.quoteDecimals,
	}
	if flipped {
		info.BaseMint, info.QuoteMint = info.QuoteMint, info.BaseMint
		info.BaseReserve, info.QuoteReserve = info.QuoteReserve, info.BaseReserve
		info.BaseDecimals, info.QuoteDecimals = info.QuoteDecimals, info.BaseDecimals
	}
	return info, nil
}

// findPool queries both pool orientations. flipped reports that the
// token sits on the pool's quote side.
func (p *RaydiumPoolProvider) findPool(ctx context.Context, mint string) (*solana.ProgramAccount, bool, error) {
	accounts, err := p.rpc.GetProgramAccounts(ctx, RaydiumAMMV4, poolFilters(offBaseMint, mint, offQuoteMint, WSOLMint))
	if err != nil {
		return nil, false, fmt.Errorf("pool lookup for %s: %w", mint, domain.ErrDataUnavailable)
	}
	if len(accounts) > 0 {
		return &accounts[0], false, nil
	}

	accounts, err = p.rpc.GetProgramAccounts(ctx, RaydiumAMMV4, poolFilters(offBaseMint, WSOLMint, offQuoteMint, mint))
	if err != nil {
		return nil, false, fmt.Errorf("pool lookup for %s: %w", mint, domain.ErrDataUnavailable)
	}
	if len(accounts) > 0 {
		return &accounts[0], true, nil
	}
	return nil, false, nil
}

func poolFilters(offA int, mintA string, offB int, mintB string) []solana.AccountFilter {
	size := uint64(raydiumPoolAccountSize)
	return []solana.AccountFilter{
		{DataSize: &size},
		{Memcmp: &solana.MemcmpFilter{Offset: offA, Bytes: mintA}},
		{Memcmp: &solana.MemcmpFilter{Offset: offB, Bytes: mintB}},
	}
}

// vaultBalance reads the raw token amount out of a vault token account.
func (p *RaydiumPoolProvider) vaultBalance(ctx context.Context, vault string) (uint64, error) {
	acc, err := p.rpc.GetAccountInfo(ctx, vault)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, fmt.Errorf("vault %s does not exist", vault)
	}
	data, err := solana.DecodeAccountData(acc.Data)
	if err != nil {
		return 0, err
	}
	if len(data) < tokenAccountSize {
		return 0, fmt.Errorf("vault %s: token account is %d bytes", vault, len(data))
	}
	return binary.LittleEndian.Uint64(data[tokenAccountAmountOff : tokenAccountAmountOff+8]), nil
}

type poolState struct {
	baseDecimals     int
	quoteDecimals    int
	baseNeedTakePnl  uint64
	quoteNeedTakePnl uint64
	baseVault        string
	quoteVault       string
	baseMint         string
	quoteMint        string
	lpMint           string
}

func parsePoolState(encoded string) (*poolState, error) {
	data, err := solana.DecodeAccountData(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoolState, err)
	}
	if len(data) != raydiumPoolAccountSize {
		return nil, fmt.Errorf("%w: account is %d bytes", ErrInvalidPoolState, len(data))
	}

	baseDecimals := binary.LittleEndian.Uint64(data[offBaseDecimal : offBaseDecimal+8])
	quoteDecimals := binary.LittleEndian.Uint64(data[offQuoteDecimal : offQuoteDecimal+8])
	if baseDecimals > 18 || quoteDecimals > 18 {
		return nil, fmt.Errorf("%w: decimals %d/%d", ErrInvalidPoolState, baseDecimals, quoteDecimals)
	}

	return &poolState{
		baseDecimals:     int(baseDecimals),
		quoteDecimals:    int(quoteDecimals),
		baseNeedTakePnl:  binary.LittleEndian.Uint64(data[offBaseNeedTakePnl : offBaseNeedTakePnl+8]),
		quoteNeedTakePnl: binary.LittleEndian.Uint64(data[offQuoteNeedTakePnl : offQuoteNeedTakePnl+8]),
		baseVault:        base58.Encode(data[offBaseVault : offBaseVault+32]),
		quoteVault:       base58.Encode(data[offQuoteVault : offQuoteVault+32]),
		baseMint:         base58.Encode(data[offBaseMint : offBaseMint+32]),
		quoteMint:        base58.Encode(data[offQuoteMint : offQuoteMint+32]),
		lpMint:           base58.Encode(data[offLPMint : offLPMint+32]),
	}, nil
}
