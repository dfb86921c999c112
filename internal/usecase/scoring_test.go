package usecase

import (
	"testing"

	"scanner-backend/internal/domain"
)

func baseSet() domain.IndicatorSet {
	return domain.IndicatorSet{
		RSI: 35, ADX: 30, MFI: 55, CMF: 0.15, VolumeRatio: 2,
		VolumeDefined: true,
	}
}

func TestCalculateScore_Bounded(t *testing.T) {
	criteria := domain.DefaultCriteria()
	sets := []domain.IndicatorSet{
		baseSet(),
		{RSI: 100, ADX: 500, MFI: 100, CMF: 1, VolumeRatio: 50, VolumeDefined: true},
		{RSI: 0, ADX: 0, MFI: 0, CMF: -1, VolumeRatio: 0, VolumeDefined: true},
	}
	for _, set := range sets {
		score := CalculateScore(set, criteria)
		if score < 0 || score > 10 {
			t.Errorf("score out of [0,10]: %.3f for %+v", score, set)
		}
	}
}

func TestCalculateScore_InWindowRSIOutscoresFarRSI(t *testing.T) {
	criteria := domain.DefaultCriteria()
	in := baseSet() // RSI 35, inside [25,45]
	far := baseSet()
	far.RSI = 90

	if CalculateScore(in, criteria) <= CalculateScore(far, criteria) {
		t.Error("RSI inside the window must outscore RSI far outside it")
	}
}

func TestCalculateScore_MonotoneInVolumeRatio(t *testing.T) {
	criteria := domain.DefaultCriteria()
	prev := -1.0
	for ratio := 1.5; ratio <= 4.0; ratio += 0.25 {
		set := baseSet()
		set.VolumeRatio = ratio
		score := CalculateScore(set, criteria)
		if score < prev {
			t.Errorf("score decreased as volume ratio rose: %.3f at ratio %.2f", score, ratio)
		}
		prev = score
	}
}

func TestCalculateScore_MonotoneInADX(t *testing.T) {
	criteria := domain.DefaultCriteria()
	prev := -1.0
	for adx := 25.0; adx <= 80; adx += 5 {
		set := baseSet()
		set.ADX = adx
		score := CalculateScore(set, criteria)
		if score < prev {
			t.Errorf("score decreased as ADX rose: %.3f at ADX %.1f", score, adx)
		}
		prev = score
	}
}

func TestCalculateScore_MonotoneInCMF(t *testing.T) {
	criteria := domain.DefaultCriteria()
	prev := -1.0
	for cmf := 0.1; cmf <= 0.9; cmf += 0.1 {
		set := baseSet()
		set.CMF = cmf
		score := CalculateScore(set, criteria)
		if score < prev {
			t.Errorf("score decreased as CMF rose: %.3f at CMF %.2f", score, cmf)
		}
		prev = score
	}
}

func TestCalculateScore_Deterministic(t *testing.T) {
	criteria := domain.DefaultCriteria()
	set := baseSet()
	first := CalculateScore(set, criteria)
	for i := 0; i < 10; i++ {
		if got := CalculateScore(set, criteria); got != first {
			t.Fatalf("score changed between identical calls: %.6f vs %.6f", first, got)
		}
	}
}
