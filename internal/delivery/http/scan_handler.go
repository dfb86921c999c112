// Package http exposes the scanning pipeline over a thin JSON API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"scanner-backend/internal/domain"
	"scanner-backend/internal/logger"
	"scanner-backend/internal/repository"
	"scanner-backend/internal/usecase"
)

// ScanHandler serves the scan, symbols, refresh and health endpoints.
type ScanHandler struct {
	scanner *usecase.Scanner
	cache   *repository.SymbolCache
	version string
}

func NewScanHandler(scanner *usecase.Scanner, cache *repository.SymbolCache, version string) *ScanHandler {
	return &ScanHandler{scanner: scanner, cache: cache, version: version}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// HandleHealth handles GET /api/health. Always 200 while the process lives.
func (h *ScanHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
	})
}

// HandleSymbols handles GET /api/symbols.
func (h *ScanHandler) HandleSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbols, err := h.cache.Resolve(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "symbol universe unavailable",
		})
		return
	}

	age, _ := h.cache.Age()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":  symbols,
		"count":    len(symbols),
		"cacheAge": age.Round(time.Second).String(),
	})
}

// HandleScan handles GET /api/scan.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	results, summary, err := h.scanner.Scan(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCriteria) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "invalid scan criteria",
			})
			return
		}
		logger.Error("scan failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "scan failed: symbol universe unresolvable",
		})
		return
	}

	if results == nil {
		results = []domain.ScanResult{} // zero matches is still a success
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
		"results": results,
	})
}

// HandleRefreshSymbols handles POST /api/refresh-symbols.
func (h *ScanHandler) HandleRefreshSymbols(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.cache.ForceRefresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   "symbol source unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
	})
}

// parseCriteria builds criteria from query parameters, applying documented
// defaults and recording which bounds the caller set explicitly.
func parseCriteria(r *http.Request) (domain.ScanCriteria, error) {
	criteria := domain.DefaultCriteria()
	criteria.Explicit = make(map[string]bool)
	q := r.URL.Query()

	floats := []struct {
		name string
		dst  *float64
	}{
		{"rsi_min", &criteria.RSIMin},
		{"rsi_max", &criteria.RSIMax},
		{"volume_min", &criteria.VolumeMin},
		{"adx_min", &criteria.ADXMin},
		{"mfi_min", &criteria.MFIMin},
		{"cmf_min", &criteria.CMFMin},
	}
	for _, p := range floats {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.ScanCriteria{}, domain.ErrInvalidCriteria
		}
		*p.dst = f
		criteria.Explicit[p.name] = true
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ScanCriteria{}, domain.ErrInvalidCriteria
		}
		criteria.Limit = n
	}

	if err := criteria.Validate(); err != nil {
		return domain.ScanCriteria{}, err
	}
	return criteria, nil
}
