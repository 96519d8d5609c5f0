package clickhouse

import (
	"context"
	"fmt"

	"solana-sniper/internal/domain"
	"solana-sniper/internal/storage"
)

// SnapshotArchive implements storage.SnapshotArchiver using ClickHouse.
// MergeTree keyed by (mint, observed_at); duplicate observations are
// tolerated, the archive is analytical, not authoritative.
type SnapshotArchive struct {
	conn *Conn
}

// NewSnapshotArchive creates a new SnapshotArchive.
func NewSnapshotArchive(conn *Conn) *SnapshotArchive {
	return &SnapshotArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotArchiver = (*SnapshotArchive)(nil)

// Archive appends a batch of snapshots.
func (s *SnapshotArchive) Archive(ctx context.Context, snapshots []*domain.SnapshotRecord) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_snapshots (
			mint, observed_at, price, volume_24h, market_cap, liquidity,
			price_change_1h, price_change_5m, holder_count, top_holder_pct,
			creator_wallet_balance, time_since_creation_ms, liquidity_locked,
			initial_liquidity_sol
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, rec := range snapshots {
		m := rec.Metrics
		locked := uint8(0)
		if m.LiquidityLocked {
			locked = 1
		}

		err = batch.Append(
			rec.Mint,
			rec.ObservedAt,
			m.Price,
			m.Volume24h,
			m.MarketCap,
			m.Liquidity,
			m.PriceChange1h,
			m.PriceChange5m,
			uint32(m.HolderCount),
			m.TopHolderPct,
			m.CreatorWalletBalance,
			uint64(m.TimeSinceCreation.Milliseconds()),
			locked,
			m.InitialLiquiditySOL,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}
