package indicators

import "scanner-backend/internal/domain"

// VolumeRatio returns the latest bar's volume divided by the simple moving
// average of volume over the trailing `period` bars (current bar included).
// When the average is zero the ratio is undefined and ok is false; the
// caller treats the symbol as a non-match rather than an error.
func VolumeRatio(series []domain.OHLCV, period int) (ratio float64, ok bool, err error) {
	if len(series) < period {
		return 0, false, domain.ErrInsufficientData
	}

	var sum float64
	for i := len(series) - period; i < len(series); i++ {
		sum += series[i].Volume
	}
	avg := sum / float64(period)
	if avg == 0 {
		return 0, false, nil
	}
	return series[len(series)-1].Volume / avg, true, nil
}
