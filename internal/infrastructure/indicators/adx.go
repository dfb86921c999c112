package indicators

import (
	"math"

	"scanner-backend/internal/domain"
)

// ADX computes the Average Directional Index over the given period using
// Wilder smoothing of +DM/-DM/TR. Requires at least 2*period+1 bars for a
// stable value.
func ADX(series []domain.OHLCV, period int) (float64, error) {
	if len(series) < 2*period+1 {
		return 0, domain.ErrInsufficientData
	}

	n := len(series)
	trs := make([]float64, n-1)
	plusDMs := make([]float64, n-1)
	minusDMs := make([]float64, n-1)

	for i := 1; i < n; i++ {
		high := series[i].High
		low := series[i].Low
		prevClose := series[i-1].Close
		prevHigh := series[i-1].High
		prevLow := series[i-1].Low

		tr := math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
		trs[i-1] = tr

		upMove := high - prevHigh
		downMove := prevLow - low
		if upMove > downMove && upMove > 0 {
			plusDMs[i-1] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDMs[i-1] = downMove
		}
	}

	// Seed the Wilder sums with the first `period` values.
	var atr, plusDM, minusDM float64
	for i := 0; i < period; i++ {
		atr += trs[i]
		plusDM += plusDMs[i]
		minusDM += minusDMs[i]
	}

	var dxSum float64
	var dxCount int
	for i := period; i < len(trs); i++ {
		atr = atr - atr/float64(period) + trs[i]
		plusDM = plusDM - plusDM/float64(period) + plusDMs[i]
		minusDM = minusDM - minusDM/float64(period) + minusDMs[i]

		if atr == 0 {
			dxCount++
			continue // DX = 0 for flat bars
		}
		plusDI := plusDM / atr * 100
		minusDI := minusDM / atr * 100
		diSum := plusDI + minusDI
		if diSum == 0 {
			dxCount++ // DX = 0 when both DIs vanish
			continue
		}
		dxSum += math.Abs(plusDI-minusDI) / diSum * 100
		dxCount++
	}

	if dxCount == 0 {
		return 0, nil
	}
	return dxSum / float64(dxCount), nil
}
