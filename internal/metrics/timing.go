package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Timing summarises the per-solve wall-clock times of an MPC run.
type Timing struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Max   float64 `json:"max"`
	Total float64 `json:"total"`
}

func SolveTimes(timeCalc []float64) Timing {
	if len(timeCalc) == 0 {
		return Timing{}
	}
	mean, std := stat.MeanStdDev(timeCalc, nil)
	if len(timeCalc) == 1 {
		std = 0
	}
	return Timing{
		Count: len(timeCalc),
		Mean:  mean,
		Std:   std,
		Max:   floats.Max(timeCalc),
		Total: floats.Sum(timeCalc),
	}
}

// Values flattens t with a "solve_time_" prefix for ranking.
func (t Timing) Values() map[string]float64 {
	return map[string]float64{
		"solve_time_mean":  t.Mean,
		"solve_time_std":   t.Std,
		"solve_time_max":   t.Max,
		"solve_time_total": t.Total,
	}
}
