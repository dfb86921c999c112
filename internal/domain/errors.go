package domain

import "errors"

var (
	// ErrInsufficientData means the series is too short for the indicator
	// lookback. The symbol is skipped; never surfaced to the caller.
	ErrInsufficientData = errors.New("insufficient data for indicator lookback")

	// ErrDataUnavailable means the series fetch failed for one symbol. The
	// symbol is skipped and the scan continues.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrSymbolSourceUnavailable means the universe could not be loaded and
	// no cached copy exists. This is the only fatal scan error.
	ErrSymbolSourceUnavailable = errors.New("symbol source unavailable")

	// ErrInvalidCriteria means malformed filter bounds. Rejected at the
	// boundary before any processing.
	ErrInvalidCriteria = errors.New("invalid scan criteria")
)
