package indicators

import "scanner-backend/internal/domain"

// CMF computes the Chaikin Money Flow over the trailing `period` bars:
// the sum of money flow volume divided by the sum of volume. A zero volume
// sum yields 0. Requires at least `period` bars.
func CMF(series []domain.OHLCV, period int) (float64, error) {
	if len(series) < period {
		return 0, domain.ErrInsufficientData
	}

	var mfvSum, volSum float64
	for i := len(series) - period; i < len(series); i++ {
		b := series[i]
		volSum += b.Volume
		spread := b.High - b.Low
		if spread == 0 {
			continue // multiplier undefined for flat bars, contributes 0
		}
		multiplier := ((b.Close - b.Low) - (b.High - b.Close)) / spread
		mfvSum += multiplier * b.Volume
	}

	if volSum == 0 {
		return 0, nil
	}
	return mfvSum / volSum, nil
}
