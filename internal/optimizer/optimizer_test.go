package optimizer

import (
	"errors"
	"math/rand"
	"testing"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/simulation"
)

func longRequest(seed int64) SearchRequest {
	return SearchRequest{
		InitialPrice:   100.0,
		Strategy:       domain.StrategyLong,
		Volatility:     0.25,
		Drift:          0.08,
		NumSimulations: 2000,
		MinRewardRisk:  2.0,
		Seed:           seed,
	}
}

func TestOptimizer_Search_RespectsDirection(t *testing.T) {
	opt := New(Options{})

	// LONG: target above entry, stop below.
	res, err := opt.Search(longRequest(42))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Best.TargetPrice <= 100.0 {
		t.Errorf("LONG target %f not above entry", res.Best.TargetPrice)
	}
	if res.Best.StopLoss >= 100.0 {
		t.Errorf("LONG stop %f not below entry", res.Best.StopLoss)
	}

	// SHORT: mirrored.
	req := longRequest(42)
	req.Strategy = domain.StrategyShort
	req.Drift = -0.08
	res, err = opt.Search(req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.Best.TargetPrice >= 100.0 {
		t.Errorf("SHORT target %f not below entry", res.Best.TargetPrice)
	}
	if res.Best.StopLoss <= 100.0 {
		t.Errorf("SHORT stop %f not above entry", res.Best.StopLoss)
	}
}

func TestOptimizer_Search_HonorsMinRewardRisk(t *testing.T) {
	opt := New(Options{})

	res, err := opt.Search(longRequest(7))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// The realized ratio of the returned levels, not just the grid label.
	realized := (res.Best.TargetPrice - 100.0) / (100.0 - res.Best.StopLoss)
	if realized < 2.0-1e-9 {
		t.Errorf("Realized reward/risk %f below requested minimum 2.0", realized)
	}
	if res.Best.RewardRiskRatio < 2.0 || res.Best.RewardRiskRatio > 3.0 {
		t.Errorf("Winning reward/risk %f outside [2.0, 3.0]", res.Best.RewardRiskRatio)
	}
}

func TestOptimizer_Search_NoViableCandidate(t *testing.T) {
	opt := New(Options{})

	// Zero volatility collapses every candidate onto the entry price.
	req := longRequest(1)
	req.Volatility = 0
	if _, err := opt.Search(req); !errors.Is(err, ErrNoViableCandidate) {
		t.Errorf("Expected ErrNoViableCandidate at zero volatility, got %v", err)
	}

	// A reward/risk minimum above the cap empties the grid outright.
	req = longRequest(1)
	req.MinRewardRisk = 3.5
	if _, err := opt.Search(req); !errors.Is(err, ErrNoViableCandidate) {
		t.Errorf("Expected ErrNoViableCandidate above the reward/risk cap, got %v", err)
	}
}

func TestOptimizer_Search_DeterministicAcrossWorkerCounts(t *testing.T) {
	sequential := New(Options{Workers: 1})
	parallel := New(Options{Workers: 4})

	res1, err := sequential.Search(longRequest(99))
	if err != nil {
		t.Fatalf("Sequential search failed: %v", err)
	}
	res2, err := parallel.Search(longRequest(99))
	if err != nil {
		t.Fatalf("Parallel search failed: %v", err)
	}

	if res1.Best != res2.Best {
		t.Errorf("Winner differs by worker count: %+v vs %+v", res1.Best, res2.Best)
	}
	if res1.HorizonDays != res2.HorizonDays || res1.Scored != res2.Scored {
		t.Errorf("Search metadata differs by worker count: %+v vs %+v", res1, res2)
	}
}

func TestOptimizer_Search_WinnerEVNonRegret(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large re-scoring run in -short mode")
	}

	opt := New(Options{})
	req := longRequest(42)
	req.NumSimulations = 3000

	res, err := opt.Search(req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// Re-score the winner and a spread of held-out grid points at a much
	// larger N. None of the held-out candidates may beat the winner by more
	// than Monte Carlo noise allows.
	const rescoreN = 10000
	const tolerance = 1.0 // price units, several standard errors at rescoreN

	in := domain.SimulationInputs{
		InitialPrice:   req.InitialPrice,
		Strategy:       req.Strategy,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    res.HorizonDays,
		NumSimulations: rescoreN,
	}

	rescore := func(target, stop float64, seed int64) float64 {
		gen := simulation.NewGenerator(rand.New(rand.NewSource(seed)))
		m := gen.GenerateMatrix(in.InitialPrice, in.DailyDrift(), in.DailyVolatility(), in.HorizonDays, in.NumSimulations)
		return simulation.BatchExpectedValue(m, in.Strategy, target, stop)
	}

	winnerEV := rescore(res.Best.TargetPrice, res.Best.StopLoss, 1000)

	grid := NewGrid(domain.DefaultGridConfig, req.MinRewardRisk)
	cands := grid.Candidates(req.InitialPrice, in.DailyVolatility(), req.Strategy)
	if len(cands) < 6 {
		t.Fatalf("Expected a populated grid to hold out from, got %d candidates", len(cands))
	}

	// Five spread-out held-out points.
	step := len(cands) / 5
	for i := 0; i < 5; i++ {
		c := cands[i*step]
		ev := rescore(c.TargetPrice, c.StopLoss, 2000+int64(i))
		if ev > winnerEV+tolerance {
			t.Errorf("Held-out candidate (vol_mult=%.1f rr=%.1f) EV %f exceeds winner EV %f beyond tolerance",
				c.VolMultiplier, c.RewardRiskRatio, ev, winnerEV)
		}
	}
}
