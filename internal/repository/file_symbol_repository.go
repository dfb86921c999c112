package repository

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"scanner-backend/internal/domain"
)

// FileSymbolRepository loads the universe from a JSON file of
// [{"symbol":..., "name":..., "sector":...}]. With no path configured it
// serves the embedded default universe (top Nifty names).
type FileSymbolRepository struct {
	path string
}

func NewFileSymbolRepository(path string) *FileSymbolRepository {
	return &FileSymbolRepository{path: path}
}

func (r *FileSymbolRepository) LoadUniverse(ctx context.Context) ([]domain.StockSymbol, error) {
	if r.path == "" {
		return defaultUniverse(), nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "read %s: %v", r.path, err)
	}

	var symbols []domain.StockSymbol
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "parse %s: %v", r.path, err)
	}
	if len(symbols) == 0 {
		return nil, errors.Wrapf(domain.ErrSymbolSourceUnavailable, "%s: empty universe", r.path)
	}
	return symbols, nil
}

// defaultUniverse is the built-in Nifty large-cap list used when no symbols
// file and no database are configured.
func defaultUniverse() []domain.StockSymbol {
	names := []string{
		"RELIANCE", "TCS", "HDFCBANK", "INFY", "HINDUNILVR", "ICICIBANK", "BAJFINANCE", "LT",
		"ITC", "SBIN", "BHARTIARTL", "ASIANPAINT", "MARUTI", "AXISBANK", "TITAN", "NESTLEIND",
		"ULTRACEMCO", "WIPRO", "SUNPHARMA", "POWERGRID", "NTPC", "JSWSTEEL", "TECHM", "INDUSINDBK",
		"TATAMOTORS", "COALINDIA", "DRREDDY", "EICHERMOT", "BAJAJFINSV", "HCLTECH", "BRITANNIA",
		"SHREECEM", "CIPLA", "GODREJCP", "DIVISLAB", "TATACONSUM", "ADANIPORTS", "APOLLOHOSP",
		"DABUR", "GRASIM", "SBILIFE", "PIDILITIND", "BAJAJ-AUTO", "HEROMOTOCO", "TORNTPHARM",
		"DMART", "MPHASIS", "PERSISTENT", "COFORGE", "LTIM", "OFSS", "FEDERALBNK", "RBLBANK",
		"IDFCFIRSTB", "BANDHANBNK", "LUPIN", "BIOCON", "AUBANK", "BANKBARODA", "PNB", "CANBK",
		"BPCL", "ONGC", "GAIL", "HINDALCO", "VEDL", "TATASTEEL", "SAIL", "NMDC", "JINDALSTEL",
		"TATAPOWER", "ADANIGREEN", "RECLTD", "PFC", "IRCTC", "CONCOR", "ZEEL", "SUNTV", "PVRINOX",
		"NAUKRI", "ZOMATO", "PAYTM", "POLICYBZR", "MOTHERSON", "ESCORTS", "ASHOKLEY",
		"BALKRISIND", "MRF", "APOLLOTYRE", "CEAT",
	}
	symbols := make([]domain.StockSymbol, len(names))
	for i, n := range names {
		symbols[i] = domain.StockSymbol{Symbol: n, Name: n, Sector: "Unknown"}
	}
	return symbols
}
