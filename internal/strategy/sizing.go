package strategy

// PositionSize converts confidence into a suggested trade size in SOL:
// maxPosition scaled by confidence and the per-trade risk fraction, clamped
// to maxPosition. Deterministic and stateless.
func (s *Strategy) PositionSize(confidence float64) float64 {
	if confidence <= 0 {
		return 0
	}
	if confidence > 1 {
		confidence = 1
	}

	size := s.cfg.MaxPositionSOL * confidence * s.cfg.RiskPerTrade
	if size > s.cfg.MaxPositionSOL {
		size = s.cfg.MaxPositionSOL
	}
	return size
}
