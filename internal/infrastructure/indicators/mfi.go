package indicators

import "scanner-backend/internal/domain"

// MFI computes the Money Flow Index over the trailing `period` typical-price
// changes. All-positive flow yields 100, mirroring the RSI zero-loss guard.
// Requires at least period+1 bars.
func MFI(series []domain.OHLCV, period int) (float64, error) {
	if len(series) < period+1 {
		return 0, domain.ErrInsufficientData
	}

	var positive, negative float64
	start := len(series) - period
	for i := start; i < len(series); i++ {
		tp := typicalPrice(series[i])
		prevTP := typicalPrice(series[i-1])
		flow := tp * series[i].Volume
		if tp > prevTP {
			positive += flow
		} else if tp < prevTP {
			negative += flow
		}
	}

	// No flow either way (flat typical prices) is neutral, not overbought.
	if positive == 0 && negative == 0 {
		return 50, nil
	}
	if negative == 0 {
		return 100, nil
	}
	ratio := positive / negative
	return 100 - 100/(1+ratio), nil
}

func typicalPrice(b domain.OHLCV) float64 {
	return (b.High + b.Low + b.Close) / 3
}
