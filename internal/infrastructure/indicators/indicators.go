// Package indicators implements the technical indicator engine: pure
// functions over a frozen OHLCV series snapshot.
package indicators

import "scanner-backend/internal/domain"

// Standard lookback periods.
const (
	RSIPeriod    = 14
	ADXPeriod    = 14
	MFIPeriod    = 14
	CMFPeriod    = 20
	VolumePeriod = 20
)

// MinLookback is the shortest series every indicator is defined on.
// ADX needs the most history: 2*period+1 bars.
const MinLookback = 2*ADXPeriod + 1

// ComputeSet computes the full indicator set from one series snapshot.
// The series is never mutated; all indicators observe the same data.
func ComputeSet(series []domain.OHLCV) (domain.IndicatorSet, error) {
	if len(series) < MinLookback {
		return domain.IndicatorSet{}, domain.ErrInsufficientData
	}

	rsi, err := RSI(series, RSIPeriod)
	if err != nil {
		return domain.IndicatorSet{}, err
	}
	adx, err := ADX(series, ADXPeriod)
	if err != nil {
		return domain.IndicatorSet{}, err
	}
	mfi, err := MFI(series, MFIPeriod)
	if err != nil {
		return domain.IndicatorSet{}, err
	}
	cmf, err := CMF(series, CMFPeriod)
	if err != nil {
		return domain.IndicatorSet{}, err
	}
	ratio, defined, err := VolumeRatio(series, VolumePeriod)
	if err != nil {
		return domain.IndicatorSet{}, err
	}

	return domain.IndicatorSet{
		RSI:           rsi,
		ADX:           adx,
		MFI:           mfi,
		CMF:           cmf,
		VolumeRatio:   ratio,
		VolumeDefined: defined,
	}, nil
}
