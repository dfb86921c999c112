package usecase

import "scanner-backend/internal/domain"

// trendADXThreshold is the ADX floor below which no directional pattern is
// assigned; the market is treated as consolidating regardless of momentum.
const trendADXThreshold = 20.0

// ClassifyPattern derives a categorical pattern label from the indicator
// set and the recent price action of the series. Deterministic: the same
// inputs always yield the same label.
func ClassifyPattern(set domain.IndicatorSet, series []domain.OHLCV) string {
	if set.ADX < trendADXThreshold {
		return domain.PatternConsolidation
	}
	if len(series) < 5 {
		return domain.PatternSideways
	}

	recent := series[len(series)-5:]
	last := recent[4].Close
	prev := recent[3].Close
	prev2 := recent[2].Close

	switch {
	case last > prev && prev > prev2:
		return domain.PatternUptrend
	case last < prev && prev < prev2:
		return domain.PatternDowntrend
	}

	high, low := recent[0].High, recent[0].Low
	for _, b := range recent[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	if last > 0 && (high-low)/last < 0.02 {
		return domain.PatternConsolidation
	}
	return domain.PatternSideways
}

// RateStrength maps four indicator contributions to a strength rating:
// RSI in a healthy band, elevated volume, trending ADX, positive money flow.
func RateStrength(set domain.IndicatorSet) string {
	points := 0
	if set.RSI >= 30 && set.RSI <= 70 {
		points++
	}
	if set.VolumeRatio > 1.5 {
		points++
	}
	if set.ADX > 25 {
		points++
	}
	if set.CMF > 0 {
		points++
	}

	switch {
	case points >= 3:
		return domain.StrengthStrong
	case points == 2:
		return domain.StrengthModerate
	default:
		return domain.StrengthWeak
	}
}
