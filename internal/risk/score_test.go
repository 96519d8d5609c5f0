package risk

import "testing"

func TestScore_IsSafe_AllCorners(t *testing.T) {
	// Each axis either exactly at its threshold (pass) or just below (fail).
	// Safe only when all four pass.
	pass := [4]float64{MinLiquidityScore, MinOwnershipScore, MinCodeScore, MinVolumeScore}
	fail := [4]float64{
		MinLiquidityScore - 0.01,
		MinOwnershipScore - 0.01,
		MinCodeScore - 0.01,
		MinVolumeScore - 0.01,
	}

	for mask := 0; mask < 16; mask++ {
		var axes [4]float64
		for i := 0; i < 4; i++ {
			if mask&(1<<i) != 0 {
				axes[i] = pass[i]
			} else {
				axes[i] = fail[i]
			}
		}

		score := Score{
			Liquidity: axes[0],
			Ownership: axes[1],
			Code:      axes[2],
			Volume:    axes[3],
		}

		want := mask == 15
		if got := score.IsSafe(); got != want {
			t.Errorf("mask %04b: IsSafe() = %v, want %v (score %+v)", mask, got, want, score)
		}
	}
}

func TestScore_IsSafe_AboveThresholds(t *testing.T) {
	score := Score{Liquidity: 1.0, Ownership: 1.0, Code: 1.0, Volume: 1.0}
	if !score.IsSafe() {
		t.Error("perfect score should be safe")
	}
}
