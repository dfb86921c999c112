// Package usecase contains the scanning pipeline: orchestration, pattern
// classification, scoring, and alerting.
package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"scanner-backend/internal/domain"
	"scanner-backend/internal/infrastructure/indicators"
	"scanner-backend/internal/logger"
	"scanner-backend/internal/repository"
)

// retryDelay is the pause before the single bounded retry of a failed fetch.
const retryDelay = 200 * time.Millisecond

// Scanner orchestrates one scan run: resolve universe, fan out per-symbol
// fetch+compute+filter across a bounded worker pool, collect and rank.
type Scanner struct {
	cache        *repository.SymbolCache
	provider     domain.MarketDataProvider
	workers      int
	scanTimeout  time.Duration
	lookbackDays int
}

func NewScanner(cache *repository.SymbolCache, provider domain.MarketDataProvider, workers int, scanTimeout time.Duration, lookbackDays int) *Scanner {
	if workers <= 0 {
		workers = 8
	}
	return &Scanner{
		cache:        cache,
		provider:     provider,
		workers:      workers,
		scanTimeout:  scanTimeout,
		lookbackDays: lookbackDays,
	}
}

// Scan runs the full pipeline for the given criteria. Per-symbol failures
// are absorbed; only criteria validation and universe resolution can fail
// the scan itself. Results are ordered by score descending.
func (s *Scanner) Scan(ctx context.Context, criteria domain.ScanCriteria) ([]domain.ScanResult, domain.ScanSummary, error) {
	start := time.Now()

	if err := criteria.Validate(); err != nil {
		return nil, domain.ScanSummary{}, err
	}

	universe, err := s.cache.Resolve(ctx)
	if err != nil {
		return nil, domain.ScanSummary{}, err
	}

	targets := universe
	if len(targets) > criteria.Limit {
		targets = targets[:criteria.Limit]
	}
	logger.Info("scan started: %d of %d symbols, %d workers", len(targets), len(universe), s.workers)

	if s.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		results   []domain.ScanResult
		processed int
		failures  int
	)
	sem := make(chan struct{}, s.workers)

	for _, sym := range targets {
		// Budget exhausted: let in-flight symbols finish, start no new ones.
		if ctx.Err() != nil {
			logger.Warn("scan budget exhausted, skipping remaining symbols")
			break
		}

		wg.Add(1)
		go func(stock domain.StockSymbol) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			series, err := s.fetchWithRetry(ctx, stock.Symbol)
			if err != nil {
				logger.Warn("%s: %v", stock.Symbol, err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			entry, matched := s.evaluate(stock, series, criteria)

			mu.Lock()
			processed++
			if matched {
				results = append(results, entry)
			}
			mu.Unlock()
		}(sym)
	}

	wg.Wait()

	// Collected concurrently; order by score only.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	summary := domain.ScanSummary{
		ScanTimeSeconds: time.Since(start).Seconds(),
		StocksProcessed: processed,
		MatchesFound:    len(results),
		Errors:          failures,
		FiltersApplied:  criteria.ActiveFilters(),
	}
	logger.Info("scan finished in %.2fs: %d processed, %d matches, %d errors",
		summary.ScanTimeSeconds, processed, len(results), failures)
	return results, summary, nil
}

// fetchWithRetry performs the series fetch with one bounded retry. The
// upstream rate limits erratically, so a single short-delay retry recovers
// most transient failures without stretching the scan budget.
func (s *Scanner) fetchWithRetry(ctx context.Context, symbol string) ([]domain.OHLCV, error) {
	series, err := s.provider.FetchSeries(ctx, symbol, s.lookbackDays)
	if err == nil {
		return series, nil
	}

	select {
	case <-ctx.Done():
		return nil, err
	case <-time.After(retryDelay):
	}
	return s.provider.FetchSeries(ctx, symbol, s.lookbackDays)
}

// evaluate computes indicators, applies the filters, and builds the ranked
// entry for one fetched series. The bool reports whether the symbol passed
// every active bound.
func (s *Scanner) evaluate(stock domain.StockSymbol, series []domain.OHLCV, criteria domain.ScanCriteria) (domain.ScanResult, bool) {
	set, err := indicators.ComputeSet(series)
	if err != nil {
		// Series too short for the lookback; a skip, not a failure.
		return domain.ScanResult{}, false
	}

	if !criteria.Matches(set) {
		return domain.ScanResult{}, false
	}

	last := series[len(series)-1].Close
	prev := last
	if len(series) > 1 {
		prev = series[len(series)-2].Close
	}
	change := last - prev
	changePct := 0.0
	if prev > 0 {
		changePct = change / prev * 100
	}

	return domain.ScanResult{
		Symbol:        stock.Symbol,
		Name:          stock.Name,
		Sector:        stock.Sector,
		Price:         last,
		Change:        change,
		ChangePercent: changePct,
		RSI:           set.RSI,
		ADX:           set.ADX,
		MFI:           set.MFI,
		CMF:           set.CMF,
		VolumeRatio:   set.VolumeRatio,
		Pattern:       ClassifyPattern(set, series),
		Strength:      RateStrength(set),
		Score:         CalculateScore(set, criteria),
	}, true
}
