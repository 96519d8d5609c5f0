package domain

import "time"

// Position is an open holding in a sniped token.
// The caller feeds every fresh price into Observe so the high-water mark
// stays current for trailing-stop evaluation.
type Position struct {
	Token        Token
	EntryPrice   float64
	HighestPrice float64
	SizeSOL      float64
	OpenedAt     time.Time
}

// NewPosition opens a position at the given entry price.
func NewPosition(token Token, entryPrice, sizeSOL float64, openedAt time.Time) *Position {
	return &Position{
		Token:        token,
		EntryPrice:   entryPrice,
		HighestPrice: entryPrice,
		SizeSOL:      sizeSOL,
		OpenedAt:     openedAt,
	}
}

// Observe updates the running high-water mark with a fresh price.
func (p *Position) Observe(price float64) {
	if price > p.HighestPrice {
		p.HighestPrice = price
	}
}
