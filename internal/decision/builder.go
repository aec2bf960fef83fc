package decision

import "trade-sim-lab/internal/domain"

// FromRecord reconstructs evaluator arguments from a stored record, so
// persisted runs can be re-gated without re-simulating. Chart series are
// not needed for the verdict; the reassembled result carries scalars only.
func FromRecord(rec *domain.SimulationRecord) (domain.SimulationInputs, domain.SimulationResult) {
	in := domain.SimulationInputs{
		InitialPrice:   rec.EntryPrice,
		Strategy:       rec.Strategy,
		TargetPrice:    rec.TargetPrice,
		StopLoss:       rec.StopLoss,
		Volatility:     rec.Volatility,
		Drift:          rec.Drift,
		HorizonDays:    rec.HorizonDays,
		NumSimulations: rec.NumSimulations,
	}
	res := domain.SimulationResult{
		WinProbability:     rec.WinProbability,
		RiskOfRuin:         rec.RiskOfRuin,
		ExpiredProbability: rec.ExpiredProbability,
		AvgDaysToTarget:    rec.AvgDaysToTarget,
		MaximumDrawdown:    rec.MaximumDrawdown,
		ExpectedValue:      rec.ExpectedValue,
	}
	return in, res
}
