package domain

import "time"

// OHLCV represents a single daily price/volume bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// StockSymbol is one entry of the scannable universe.
type StockSymbol struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// IndicatorSet holds the technical indicators computed from one series
// snapshot. Immutable once built.
type IndicatorSet struct {
	RSI         float64 `json:"rsi"`         // 0..100
	ADX         float64 `json:"adx"`         // >= 0
	MFI         float64 `json:"mfi"`         // 0..100
	CMF         float64 `json:"cmf"`         // -1..1
	VolumeRatio float64 `json:"volumeRatio"` // >= 0
	// VolumeDefined is false when the 20-period volume average is zero,
	// which makes the ratio meaningless. Such symbols are non-matches.
	VolumeDefined bool `json:"-"`
}

// Pattern labels derived from indicators and recent price action.
const (
	PatternUptrend       = "Uptrend"
	PatternDowntrend     = "Downtrend"
	PatternConsolidation = "Consolidation"
	PatternSideways      = "Sideways"
)

// Strength ratings.
const (
	StrengthWeak     = "Weak"
	StrengthModerate = "Moderate"
	StrengthStrong   = "Strong"
)

// Default filter bounds applied when the caller omits a parameter.
const (
	DefaultRSIMin    = 25.0
	DefaultRSIMax    = 45.0
	DefaultVolumeMin = 1.5
	DefaultADXMin    = 25.0
	DefaultMFIMin    = 30.0
	DefaultCMFMin    = 0.1
	DefaultLimit     = 50
)

// ScanCriteria are the caller-supplied filter bounds. Explicit tracks which
// bounds the caller actually set so the summary echoes only those.
type ScanCriteria struct {
	RSIMin    float64 `json:"rsiMin"`
	RSIMax    float64 `json:"rsiMax"`
	VolumeMin float64 `json:"volumeMin"`
	ADXMin    float64 `json:"adxMin"`
	MFIMin    float64 `json:"mfiMin"`
	CMFMin    float64 `json:"cmfMin"`
	Limit     int     `json:"limit"` // max symbols attempted, not max matches

	Explicit map[string]bool `json:"-"`
}

// DefaultCriteria returns criteria with every bound at its default.
func DefaultCriteria() ScanCriteria {
	return ScanCriteria{
		RSIMin:    DefaultRSIMin,
		RSIMax:    DefaultRSIMax,
		VolumeMin: DefaultVolumeMin,
		ADXMin:    DefaultADXMin,
		MFIMin:    DefaultMFIMin,
		CMFMin:    DefaultCMFMin,
		Limit:     DefaultLimit,
	}
}

// Validate checks the criteria form well-formed numeric ranges.
func (c ScanCriteria) Validate() error {
	if c.RSIMin < 0 || c.RSIMax > 100 || c.RSIMin > c.RSIMax {
		return ErrInvalidCriteria
	}
	if c.VolumeMin < 0 || c.ADXMin < 0 {
		return ErrInvalidCriteria
	}
	if c.MFIMin < 0 || c.MFIMin > 100 {
		return ErrInvalidCriteria
	}
	if c.CMFMin < -1 || c.CMFMin > 1 {
		return ErrInvalidCriteria
	}
	if c.Limit <= 0 {
		return ErrInvalidCriteria
	}
	return nil
}

// Matches reports whether the indicator set satisfies every bound. Pure
// conjunction: failing any single bound excludes the symbol.
func (c ScanCriteria) Matches(set IndicatorSet) bool {
	if !set.VolumeDefined {
		return false
	}
	if set.RSI < c.RSIMin || set.RSI > c.RSIMax {
		return false
	}
	if set.VolumeRatio < c.VolumeMin {
		return false
	}
	if set.ADX < c.ADXMin {
		return false
	}
	if set.MFI < c.MFIMin {
		return false
	}
	if set.CMF < c.CMFMin {
		return false
	}
	return true
}

// ActiveFilters returns the bounds the caller supplied explicitly, keyed by
// query parameter name, for the scan summary.
func (c ScanCriteria) ActiveFilters() map[string]float64 {
	active := make(map[string]float64)
	for name, set := range c.Explicit {
		if !set {
			continue
		}
		switch name {
		case "rsi_min":
			active[name] = c.RSIMin
		case "rsi_max":
			active[name] = c.RSIMax
		case "volume_min":
			active[name] = c.VolumeMin
		case "adx_min":
			active[name] = c.ADXMin
		case "mfi_min":
			active[name] = c.MFIMin
		case "cmf_min":
			active[name] = c.CMFMin
		}
	}
	return active
}

// ScanResult is one passing symbol, immutable after construction.
type ScanResult struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	RSI           float64 `json:"rsi"`
	ADX           float64 `json:"adx"`
	MFI           float64 `json:"mfi"`
	CMF           float64 `json:"cmf"`
	VolumeRatio   float64 `json:"volumeRatio"`
	Pattern       string  `json:"pattern"`
	Strength      string  `json:"strength"`
	Score         float64 `json:"score"`
}

// ScanSummary describes one completed scan run.
type ScanSummary struct {
	ScanTimeSeconds float64            `json:"scanTimeSeconds"`
	StocksProcessed int                `json:"stocksProcessed"`
	MatchesFound    int                `json:"matchesFound"`
	Errors          int                `json:"errors"`
	FiltersApplied  map[string]float64 `json:"filtersApplied"`
}
