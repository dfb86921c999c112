package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"scanner-backend/internal/domain"
	"scanner-backend/internal/repository"
)

type stubUniverse struct {
	symbols []domain.StockSymbol
	err     error
}

func (s *stubUniverse) LoadUniverse(ctx context.Context) ([]domain.StockSymbol, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.symbols, nil
}

type stubProvider struct {
	mu       sync.Mutex
	series   map[string][]domain.OHLCV
	fail     map[string]bool // fails every call
	failOnce map[string]bool // fails the first call only
	block    map[string]bool // blocks until the context expires
	calls    map[string]int
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		series:   make(map[string][]domain.OHLCV),
		fail:     make(map[string]bool),
		failOnce: make(map[string]bool),
		block:    make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (p *stubProvider) FetchSeries(ctx context.Context, symbol string, days int) ([]domain.OHLCV, error) {
	p.mu.Lock()
	p.calls[symbol]++
	calls := p.calls[symbol]
	blocked := p.block[symbol]
	p.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[symbol] {
		return nil, domain.ErrDataUnavailable
	}
	if p.failOnce[symbol] && calls == 1 {
		return nil, domain.ErrDataUnavailable
	}
	return p.series[symbol], nil
}

// barSeries builds n bars of choppy closes with a configurable last-bar
// volume spike so scores differ between symbols.
func barSeries(n int, lastVolumeSpike float64) []domain.OHLCV {
	series := make([]domain.OHLCV, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + 5*math.Sin(float64(i)*0.7)
		v := 1_000_000.0
		if i == n-1 {
			v *= lastVolumeSpike
		}
		series[i] = domain.OHLCV{
			Time:   day.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: v,
		}
	}
	return series
}

func universeOf(symbols ...string) []domain.StockSymbol {
	out := make([]domain.StockSymbol, len(symbols))
	for i, s := range symbols {
		out[i] = domain.StockSymbol{Symbol: s, Name: s + " Ltd", Sector: "Test"}
	}
	return out
}

// permissive matches any defined indicator set, so tests control matching
// through the data instead of the bounds.
func permissive(limit int) domain.ScanCriteria {
	return domain.ScanCriteria{
		RSIMin: 0, RSIMax: 100,
		VolumeMin: 0, ADXMin: 0, MFIMin: 0, CMFMin: -1,
		Limit: limit,
	}
}

func newTestScanner(src *stubUniverse, provider *stubProvider) *Scanner {
	cache := repository.NewSymbolCache(src, time.Hour)
	return NewScanner(cache, provider, 4, 10*time.Second, 90)
}

func TestScan_PartialFetchFailuresAreAbsorbed(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B", "C", "D", "E")}
	provider := newStubProvider()
	for _, s := range []string{"A", "B", "C", "D", "E"} {
		provider.series[s] = barSeries(60, 1)
	}
	provider.fail["B"] = true
	provider.fail["D"] = true

	scanner := newTestScanner(src, provider)
	_, summary, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("per-symbol failures must not fail the scan: %v", err)
	}
	if summary.StocksProcessed != 3 {
		t.Errorf("expected 3 processed, got %d", summary.StocksProcessed)
	}
	if summary.Errors != 2 {
		t.Errorf("expected 2 errors, got %d", summary.Errors)
	}
}

func TestScan_RetryRecoversTransientFailure(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 1)
	provider.failOnce["A"] = true

	scanner := newTestScanner(src, provider)
	_, summary, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.StocksProcessed != 1 || summary.Errors != 0 {
		t.Errorf("expected the retry to recover the symbol, got %+v", summary)
	}
	if provider.calls["A"] != 2 {
		t.Errorf("expected exactly 2 fetch calls, got %d", provider.calls["A"])
	}
}

func TestScan_ResultsSatisfyEveryActiveBound(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B", "C")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 3) // volume spike: high ratio
	provider.series["B"] = barSeries(60, 1)
	provider.series["C"] = barSeries(60, 0.2)

	criteria := permissive(10)
	criteria.VolumeMin = 1.05
	criteria.Explicit = map[string]bool{"volume_min": true}

	scanner := newTestScanner(src, provider)
	results, summary, err := scanner.Scan(context.Background(), criteria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.VolumeRatio < criteria.VolumeMin {
			t.Errorf("%s violates the volume bound: %.3f", r.Symbol, r.VolumeRatio)
		}
	}
	if len(results) == 0 {
		t.Fatal("expected the volume-spike symbol to match")
	}
	if summary.FiltersApplied["volume_min"] != 1.05 {
		t.Errorf("summary should echo the explicit bound, got %v", summary.FiltersApplied)
	}
}

func TestScan_OrderingIsNonIncreasingScore(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B", "C", "D")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 1)
	provider.series["B"] = barSeries(60, 2)
	provider.series["C"] = barSeries(60, 4)
	provider.series["D"] = barSeries(60, 1.5)

	scanner := newTestScanner(src, provider)
	results, _, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at %d: %.3f > %.3f", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestScan_LimitBoundsSymbolsAttempted(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B", "C", "D", "E")}
	provider := newStubProvider()
	for _, s := range []string{"A", "B", "C", "D", "E"} {
		provider.series[s] = barSeries(60, 1)
	}

	scanner := newTestScanner(src, provider)
	_, summary, err := scanner.Scan(context.Background(), permissive(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.StocksProcessed != 2 {
		t.Errorf("limit must bound symbols attempted, processed %d", summary.StocksProcessed)
	}
}

func TestScan_TimeBudgetBoundsTheRun(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B", "C", "D", "E")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 1)
	for _, s := range []string{"B", "C", "D", "E"} {
		provider.block[s] = true
	}

	// Enough workers that the fast symbol is never queued behind a slow one.
	cache := repository.NewSymbolCache(src, time.Hour)
	scanner := NewScanner(cache, provider, 8, 100*time.Millisecond, 90)

	start := time.Now()
	_, summary, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("an exhausted budget must not fail the scan: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("scan did not return promptly after the budget elapsed: %v", elapsed)
	}
	if summary.StocksProcessed != 1 {
		t.Errorf("expected only the fast symbol to complete, processed %d", summary.StocksProcessed)
	}
	if summary.StocksProcessed+summary.Errors != 5 {
		t.Errorf("every attempted symbol must be accounted for, got %+v", summary)
	}
}

func TestScan_InsufficientDataSkipsSymbol(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 1)
	provider.series["B"] = barSeries(10, 1) // too short for the lookback

	scanner := newTestScanner(src, provider)
	results, summary, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Symbol == "B" {
			t.Error("short-series symbol must not appear in results")
		}
	}
	if summary.StocksProcessed != 2 {
		t.Errorf("short series still counts as processed, got %d", summary.StocksProcessed)
	}
}

func TestScan_InvalidCriteriaRejected(t *testing.T) {
	scanner := newTestScanner(&stubUniverse{symbols: universeOf("A")}, newStubProvider())
	criteria := permissive(10)
	criteria.RSIMin = 60
	criteria.RSIMax = 40

	_, _, err := scanner.Scan(context.Background(), criteria)
	if !errors.Is(err, domain.ErrInvalidCriteria) {
		t.Errorf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestScan_UniverseFailureIsFatal(t *testing.T) {
	src := &stubUniverse{err: domain.ErrSymbolSourceUnavailable}
	scanner := newTestScanner(src, newStubProvider())

	_, _, err := scanner.Scan(context.Background(), permissive(10))
	if !errors.Is(err, domain.ErrSymbolSourceUnavailable) {
		t.Errorf("expected ErrSymbolSourceUnavailable, got %v", err)
	}
}

func TestScan_Determinism(t *testing.T) {
	src := &stubUniverse{symbols: universeOf("A", "B")}
	provider := newStubProvider()
	provider.series["A"] = barSeries(60, 2)
	provider.series["B"] = barSeries(60, 1.2)

	scanner := newTestScanner(src, provider)
	first, _, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := scanner.Scan(context.Background(), permissive(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("match counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between identical scans: %+v vs %+v", i, first[i], second[i])
		}
	}
}
