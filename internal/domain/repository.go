package domain

import "context"

// MarketDataProvider fetches the daily OHLCV history for one symbol.
// Implementations return bars in ascending time order and report fetch
// failures as ErrDataUnavailable (wrapped).
type MarketDataProvider interface {
	FetchSeries(ctx context.Context, symbol string, days int) ([]OHLCV, error)
}

// SymbolSource loads the full scannable universe. Failures are reported as
// ErrSymbolSourceUnavailable (wrapped).
type SymbolSource interface {
	LoadUniverse(ctx context.Context) ([]StockSymbol, error)
}
