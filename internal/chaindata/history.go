package chaindata

import (
	"sync"
	"time"
)

// historyRetention bounds how far back samples are kept. Anything older
// than the 1h lookback plus slack is dropped on insert.
const historyRetention = 70 * time.Minute

type pricePoint struct {
	at    time.Time
	price float64
}

// priceHistory keeps recent price samples per mint so snapshots can report
// 5m and 1h change ratios without an external price feed.
type priceHistory struct {
	mu      sync.Mutex
	samples map[string][]pricePoint
}

func newPriceHistory() *priceHistory {
	return &priceHistory{samples: make(map[string][]pricePoint)}
}

// record appends a sample and prunes expired ones.
func (h *priceHistory) record(mint string, price float64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	points := append(h.samples[mint], pricePoint{at: at, price: price})

	cutoff := at.Add(-historyRetention)
	for len(points) > 0 && points[0].at.Before(cutoff) {
		points = points[1:]
	}

	h.samples[mint] = points
}

// changeSince returns (price - past) / past against the oldest sample
// within the lookback window. Returns 0 when no sample is old enough,
// meaning "no movement observed yet" rather than an error.
func (h *priceHistory) changeSince(mint string, price float64, at time.Time, lookback time.Duration) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	points := h.samples[mint]
	target := at.Add(-lookback)

	var base *pricePoint
	for i := range points {
		if !points[i].at.After(target) {
			base = &points[i]
		} else {
			break
		}
	}

	if base == nil || base.price == 0 {
		return 0
	}

	return (price - base.price) / base.price
}

// forget drops a mint's samples, used when a position is closed.
func (h *priceHistory) forget(mint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.samples, mint)
}
