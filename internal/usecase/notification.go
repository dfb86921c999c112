package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scanner-backend/internal/domain"
	"scanner-backend/internal/infrastructure/fcm"
	"scanner-backend/internal/logger"
	"scanner-backend/internal/repository"
)

// Alerter runs background scans with default criteria and pushes matches
// above a score threshold to registered devices, with a per-symbol cooldown
// so a symbol that keeps matching does not spam.
type Alerter struct {
	scanner  *Scanner
	fcm      *fcm.Client
	tokens   *repository.TokenRepository
	minScore float64
	cooldown time.Duration

	mu       sync.Mutex
	notified map[string]time.Time
}

func NewAlerter(scanner *Scanner, fcmClient *fcm.Client, tokens *repository.TokenRepository, minScore float64, cooldown time.Duration) *Alerter {
	return &Alerter{
		scanner:  scanner,
		fcm:      fcmClient,
		tokens:   tokens,
		minScore: minScore,
		cooldown: cooldown,
		notified: make(map[string]time.Time),
	}
}

// RunScan executes one background scan cycle and notifies on strong matches.
// Called from the cron schedule.
func (a *Alerter) RunScan(ctx context.Context) {
	if a.fcm == nil || !a.fcm.IsEnabled() {
		return
	}

	results, _, err := a.scanner.Scan(ctx, domain.DefaultCriteria())
	if err != nil {
		logger.Error("background scan failed: %v", err)
		return
	}
	a.notify(ctx, results)
}

func (a *Alerter) notify(ctx context.Context, results []domain.ScanResult) {
	tokens := a.tokens.All()
	if len(tokens) == 0 {
		return
	}

	now := time.Now()
	for _, r := range results {
		if r.Score < a.minScore {
			continue
		}

		a.mu.Lock()
		last, seen := a.notified[r.Symbol]
		a.mu.Unlock()
		if seen && now.Sub(last) < a.cooldown {
			continue
		}

		title := fmt.Sprintf("%s scoring %.1f: %s %s", r.Symbol, r.Score, r.Strength, r.Pattern)
		body := fmt.Sprintf("Price %.2f (%+.2f%%) | RSI %.1f | ADX %.1f | Vol %.2fx",
			r.Price, r.ChangePercent, r.RSI, r.ADX, r.VolumeRatio)
		data := map[string]string{
			"symbol":  r.Symbol,
			"score":   fmt.Sprintf("%.2f", r.Score),
			"pattern": r.Pattern,
		}

		if err := a.fcm.SendMulticast(ctx, tokens, title, body, data); err != nil {
			logger.Error("alert for %s failed: %v", r.Symbol, err)
			continue
		}

		a.mu.Lock()
		a.notified[r.Symbol] = now
		a.mu.Unlock()
	}

	// Drop stale cooldown entries.
	a.mu.Lock()
	for symbol, ts := range a.notified {
		if now.Sub(ts) > 2*a.cooldown {
			delete(a.notified, symbol)
		}
	}
	a.mu.Unlock()
}
