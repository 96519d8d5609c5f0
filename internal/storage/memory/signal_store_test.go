package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

func TestSignalStore_InsertAndGet(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	records := []*domain.SignalRecord{
		{Mint: "mint1", ShouldBuy: true, Confidence: 0.8, Reason: "Strong early momentum: 50.0%", EvaluatedAt: base.Add(time.Minute)},
		{Mint: "mint1", ShouldSell: true, Confidence: 0.9, Reason: "Stop loss triggered: -12.0%", EvaluatedAt: base.Add(2 * time.Minute)},
		{Mint: "mint2", ShouldBuy: true, Confidence: 0.75, EvaluatedAt: base},
	}
	for _, rec := range records {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByMint(ctx, "mint1")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if !got[0].ShouldBuy || !got[1].ShouldSell {
		t.Errorf("ordering wrong: %+v", got)
	}
}

func TestSignalStore_DuplicateKey(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	rec := &domain.SignalRecord{Mint: "mint1", EvaluatedAt: time.Unix(1700000000, 0)}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Insert(ctx, rec); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSignalStore_InvalidInput(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.SignalRecord{Mint: "mint1"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero time, got %v", err)
	}
}
