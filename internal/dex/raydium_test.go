package dex

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/solana"
)

// raydiumFakeRPC matches getProgramAccounts calls against the memcmp
// filter at the base mint offset.
type raydiumFakeRPC struct {
	poolsByBaseMint map[string]solana.ProgramAccount
	accounts        map[string]*solana.AccountInfo
	failPrograms    bool
}

func (f *raydiumFakeRPC) GetProgramAccounts(_ context.Context, _ string, filters []solana.AccountFilter) ([]solana.ProgramAccount, error) {
	if f.failPrograms {
		return nil, errors.New("rpc down")
	}
	for _, filter := range filters {
		if filter.Memcmp != nil && filter.Memcmp.Offset == offBaseMint {
			if acc, ok := f.poolsByBaseMint[filter.Memcmp.Bytes]; ok {
				return []solana.ProgramAccount{acc}, nil
			}
		}
	}
	return nil, nil
}

func (f *raydiumFakeRPC) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	return f.accounts[pubkey], nil
}

func (f *raydiumFakeRPC) GetTokenSupply(_ context.Context, _ string) (*solana.TokenAmount, error) {
	return nil, errors.New("not used")
}

func (f *raydiumFakeRPC) GetBalance(_ context.Context, _ string) (uint64, error) {
	return 0, errors.New("not used")
}

func (f *raydiumFakeRPC) GetTransaction(_ context.Context, _ string) (*solana.Transaction, error) {
	return nil, errors.New("not used")
}

func (f *raydiumFakeRPC) GetSlot(_ context.Context) (int64, error) {
	return 0, errors.New("not used")
}

func (f *raydiumFakeRPC) GetBlockTime(_ context.Context, _ int64) (*int64, error) {
	return nil, errors.New("not used")
}

func (f *raydiumFakeRPC) GetTokenLargestAccounts(_ context.Context, _ string) ([]solana.TokenAccountBalance, error) {
	return nil, errors.New("not used")
}

func (f *raydiumFakeRPC) CountTokenHolders(_ context.Context, _ string) (int, error) {
	return 0, errors.New("not used")
}

var _ solana.RPCClient = (*raydiumFakeRPC)(nil)

func testMint(seed byte) string {
	raw := make([]byte, 32)
	raw[0] = seed
	return base58.Encode(raw)
}

type poolParams struct {
	baseMint         string
	quoteMint        string
	lpMint           string
	baseVault        string
	quoteVault       string
	baseDecimals     uint64
	quoteDecimals    uint64
	baseNeedTakePnl  uint64
	quoteNeedTakePnl uint64
}

func buildPoolAccount(t *testing.T, p poolParams) string {
	t.Helper()
	data := make([]byte, raydiumPoolAccountSize)
	binary.LittleEndian.PutUint64(data[offBaseDecimal:], p.baseDecimals)
	binary.LittleEndian.PutUint64(data[offQuoteDecimal:], p.quoteDecimals)
	binary.LittleEndian.PutUint64(data[offBaseNeedTakePnl:], p.baseNeedTakePnl)
	binary.LittleEndian.PutUint64(data[offQuoteNeedTakePnl:], p.quoteNeedTakePnl)
	for off, addr := range map[int]string{
		offBaseVault:  p.baseVault,
		offQuoteVault: p.quoteVault,
		offBaseMint:   p.baseMint,
		offQuoteMint:  p.quoteMint,
		offLPMint:     p.lpMint,
	} {
		if addr == "" {
			continue
		}
		raw, err := base58.Decode(addr)
		if err != nil || len(raw) != 32 {
			t.Fatalf("bad address %q", addr)
		}
		copy(data[off:off+32], raw)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func buildTokenAccount(amount uint64) *solana.AccountInfo {
	data := make([]byte, tokenAccountSize)
	binary.LittleEndian.PutUint64(data[tokenAccountAmountOff:], amount)
	return &solana.AccountInfo{Data: base64.StdEncoding.EncodeToString(data)}
}

func TestRaydiumPoolProvider_GetPoolInfo(t *testing.T) {
	mint := testMint(1)
	baseVault := testMint(2)
	quoteVault := testMint(3)
	lpMint := testMint(4)

	rpc := &raydiumFakeRPC{
		poolsByBaseMint: map[string]solana.ProgramAccount{
			mint: {
				Pubkey: "pool1",
				Data: buildPoolAccount(t, poolParams{
					baseMint:         mint,
					quoteMint:        WSOLMint,
					lpMint:           lpMint,
					baseVault:        baseVault,
					quoteVault:       quoteVault,
					baseDecimals:     6,
					quoteDecimals:    9,
					baseNeedTakePnl:  1_000,
					quoteNeedTakePnl: 2_000,
				}),
			},
		},
		accounts: map[string]*solana.AccountInfo{
			baseVault:  buildTokenAccount(1_000_000_000),
			quoteVault: buildTokenAccount(5_000_000_000),
		},
	}

	p := NewRaydiumPoolProvider(rpc, zerolog.Nop())
	info, err := p.GetPoolInfo(context.Background(), mint)
	if err != nil {
		t.Fatalf("GetPoolInfo: %v", err)
	}

	if info.PoolID != "pool1" {
		t.Errorf("pool id = %s", info.PoolID)
	}
	if info.BaseMint != mint || info.QuoteMint != WSOLMint {
		t.Errorf("mints = %s/%s", info.BaseMint, info.QuoteMint)
	}
	if info.LPMint != lpMint {
		t.Errorf("lp mint = %s", info.LPMint)
	}
	if info.BaseReserve != 999_999_000 {
		t.Errorf("base reserve = %d, pending pnl not deducted", info.BaseReserve)
	}
	if info.QuoteReserve != 4_999_998_000 {
		t.Errorf("quote reserve = %d, pending pnl not deducted", info.QuoteReserve)
	}
	if info.BaseDecimals != 6 || info.QuoteDecimals != 9 {
		t.Errorf("decimals = %d/%d", info.BaseDecimals, info.QuoteDecimals)
	}
}

func TestRaydiumPoolProvider_FlippedPool(t *testing.T) {
	mint := testMint(1)
	solVault := testMint(2)
	tokenVault := testMint(3)

	// The pool lists WSOL as base and the token as quote; the provider
	// must normalize the result so the token is always the base side.
	rpc := &raydiumFakeRPC{
		poolsByBaseMint: map[string]solana.ProgramAccount{
			WSOLMint: {
				Pubkey: "pool2",
				Data: buildPoolAccount(t, poolParams{
					baseMint:      WSOLMint,
					quoteMint:     mint,
					baseVault:     solVault,
					quoteVault:    tokenVault,
					baseDecimals:  9,
					quoteDecimals: 6,
				}),
			},
		},
		accounts: map[string]*solana.AccountInfo{
			solVault:   buildTokenAccount(7_000_000_000),
			tokenVault: buildTokenAccount(3_000_000),
		},
	}

	p := NewRaydiumPoolProvider(rpc, zerolog.Nop())
	info, err := p.GetPoolInfo(context.Background(), mint)
	if err != nil {
		t.Fatalf("GetPoolInfo: %v", err)
	}

	if info.BaseMint != mint || info.QuoteMint != WSOLMint {
		t.Errorf("mints = %s/%s, want token on base side", info.BaseMint, info.QuoteMint)
	}
	if info.BaseReserve != 3_000_000 || info.QuoteReserve != 7_000_000_000 {
		t.Errorf("reserves = %d/%d", info.BaseReserve, info.QuoteReserve)
	}
	if info.BaseDecimals != 6 || info.QuoteDecimals != 9 {
		t.Errorf("decimals = %d/%d", info.BaseDecimals, info.QuoteDecimals)
	}
}

func TestRaydiumPoolProvider_NoPool(t *testing.T) {
	p := NewRaydiumPoolProvider(&raydiumFakeRPC{}, zerolog.Nop())

	_, err := p.GetPoolInfo(context.Background(), testMint(9))
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestRaydiumPoolProvider_RPCFailure(t *testing.T) {
	p := NewRaydiumPoolProvider(&raydiumFakeRPC{failPrograms: true}, zerolog.Nop())

	_, err := p.GetPoolInfo(context.Background(), testMint(9))
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestParsePoolState_WrongSize(t *testing.T) {
	short := base64.StdEncoding.EncodeToString(make([]byte, 100))
	if _, err := parsePoolState(short); !errors.Is(err, ErrInvalidPoolState) {
		t.Errorf("err = %v, want ErrInvalidPoolState", err)
	}
}
