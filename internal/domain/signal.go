package domain

// TradeSignal is the strategy engine's verdict for one evaluation.
// Output-only value object, never mutated after construction.
type TradeSignal struct {
	ShouldBuy             bool
	ShouldSell            bool
	Confidence            float64 // 0 to 1
	Reason                string  // triggered sub-reasons joined with " | "
	SuggestedPositionSize float64 // in SOL; meaningless unless ShouldBuy
}
