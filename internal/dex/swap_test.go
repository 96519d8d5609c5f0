package dex

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateSwap_ReferencePool(t *testing.T) {
	// 1 SOL / 1000 tokens pool, 0.01 SOL in.
	amountOut, impact, err := CalculateSwap(10_000_000, 1_000_000_000, 1_000_000_000_000)
	if err != nil {
		t.Fatalf("CalculateSwap: %v", err)
	}

	var wantOut uint64 = 9_900_990_099 // floor(1e12 * 1e7 / 1.01e9)
	if amountOut != wantOut {
		t.Errorf("amountOut = %d, want %d", amountOut, wantOut)
	}

	wantImpact := 10_000_000.0 / 1_010_000_000.0
	if math.Abs(impact-wantImpact) > 1e-12 {
		t.Errorf("impact = %v, want %v", impact, wantImpact)
	}
}

func TestCalculateSwap_ZeroAmountIn(t *testing.T) {
	out, impact, err := CalculateSwap(0, 1_000_000, 2_000_000)
	if err != nil {
		t.Fatalf("CalculateSwap: %v", err)
	}
	if out != 0 || impact != 0 {
		t.Errorf("got (%d, %v), want (0, 0)", out, impact)
	}
}

func TestCalculateSwap_ZeroReserves(t *testing.T) {
	cases := []struct {
		name                 string
		reserveIn, reserveOut uint64
	}{
		{"zero reserve in", 0, 1_000_000},
		{"zero reserve out", 1_000_000, 0},
		{"both zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CalculateSwap(100, tc.reserveIn, tc.reserveOut)
			if !errors.Is(err, ErrInvalidPoolState) {
				t.Errorf("err = %v, want ErrInvalidPoolState", err)
			}
		})
	}
}

func TestCalculateSwap_NeverDrainsPool(t *testing.T) {
	cases := []struct {
		amountIn, reserveIn, reserveOut uint64
	}{
		{1, 1, 1},
		{math.MaxUint64, 1, math.MaxUint64},
		{1_000_000_000_000, 1_000, 1_000_000_000_000_000},
		{500, 1_000_000_000, 1_000_000_000_000},
	}
	for _, tc := range cases {
		out, impact, err := CalculateSwap(tc.amountIn, tc.reserveIn, tc.reserveOut)
		if err != nil {
			t.Fatalf("CalculateSwap(%d, %d, %d): %v", tc.amountIn, tc.reserveIn, tc.reserveOut, err)
		}
		if out > tc.reserveOut {
			t.Errorf("amountOut %d exceeds reserveOut %d", out, tc.reserveOut)
		}
		if impact < 0 || impact >= 1 {
			t.Errorf("impact %v outside [0,1)", impact)
		}
	}
}

func TestCalculateSwap_LargeValuesNoOverflow(t *testing.T) {
	// reserveOut * amountIn far beyond uint64 range.
	out, _, err := CalculateSwap(1<<60, 1<<61, 1<<62)
	if err != nil {
		t.Fatalf("CalculateSwap: %v", err)
	}
	// out = 2^62 * 2^60 / (2^61 + 2^60) = 2^62 / 3
	var want uint64 = (1 << 62) / 3
	if out != want {
		t.Errorf("amountOut = %d, want %d", out, want)
	}
}
