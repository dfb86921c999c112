package usecase

import "scanner-backend/internal/domain"

// CalculateScore maps an indicator set to a composite ranking score in
// [0,10]. Five contributions of up to 2 points each: RSI window fit, volume
// ratio, ADX, MFI, CMF. The criteria mins act as the normalization anchors,
// so the score reflects how far past each active bound a symbol sits.
func CalculateScore(set domain.IndicatorSet, c domain.ScanCriteria) float64 {
	score := 0.0

	// RSI: full points inside the window, partial near its midpoint.
	mid := (c.RSIMin + c.RSIMax) / 2
	if set.RSI >= c.RSIMin && set.RSI <= c.RSIMax {
		score += 2
	} else if abs(set.RSI-mid) <= 10 {
		score += 1
	}

	// Volume ratio relative to the minimum.
	if c.VolumeMin > 0 && set.VolumeRatio >= c.VolumeMin {
		score += min2(set.VolumeRatio / c.VolumeMin)
	}

	// ADX relative to the minimum.
	if c.ADXMin > 0 && set.ADX >= c.ADXMin {
		score += min2(set.ADX / c.ADXMin)
	}

	// MFI normalized to its 0..100 range.
	if set.MFI >= c.MFIMin {
		score += min2(set.MFI / 50)
	}

	// CMF scaled from its -1..1 range.
	if set.CMF >= c.CMFMin {
		score += min2(set.CMF * 10)
	}

	if score > 10 {
		return 10
	}
	if score < 0 {
		return 0
	}
	return score
}

func min2(v float64) float64 {
	if v > 2 {
		return 2
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
