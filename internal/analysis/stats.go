package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/trajprox/internal/proximity"
)

// Stats summarises one distance series. Crossings counts entries into the
// region below the threshold.
type Stats struct {
	Label          string  `json:"label"`
	Nodes          int     `json:"nodes"`
	Min            float64 `json:"min"`
	ArgMin         int     `json:"argmin"`
	TimeOfMin      float64 `json:"time_of_min"`
	Max            float64 `json:"max"`
	Mean           float64 `json:"mean"`
	BelowThreshold int     `json:"below_threshold"`
	FirstViolation int     `json:"first_violation"`
	Crossings      int     `json:"crossings"`
}

// Summarize computes Stats for values sampled every dt. An empty series has
// ArgMin and FirstViolation set to -1 and zero extrema, so reports stay
// JSON encodable.
func Summarize(values []float64, threshold, dt float64) Stats {
	st := Stats{Nodes: len(values), ArgMin: -1, FirstViolation: -1}
	if len(values) == 0 {
		return st
	}

	st.ArgMin = floats.MinIdx(values)
	st.Min = values[st.ArgMin]
	st.TimeOfMin = float64(st.ArgMin) * dt
	st.Max = floats.Max(values)
	st.Mean = stat.Mean(values, nil)

	for i, v := range values {
		if v < threshold {
			st.BelowThreshold++
			if st.FirstViolation < 0 {
				st.FirstViolation = i
			}
		}
	}
	st.Crossings = len(Crossings(values, threshold))
	return st
}

// SummarizeSeries returns one Stats per label, in label order.
func SummarizeSeries(s *proximity.Series, threshold, dt float64) []Stats {
	if s == nil {
		return nil
	}
	out := make([]Stats, 0, s.Len())
	for _, label := range s.Labels() {
		values, _ := s.Get(label)
		st := Summarize(values, threshold, dt)
		st.Label = label
		out = append(out, st)
	}
	return out
}

// Closest returns the stats with the smallest minimum, ignoring empty
// series. ok is false when there is none.
func Closest(stats []Stats) (best Stats, ok bool) {
	for _, st := range stats {
		if st.Nodes == 0 {
			continue
		}
		if !ok || st.Min < best.Min {
			best, ok = st, true
		}
	}
	return best, ok
}

// Crossings returns the nodes at which values goes from at or above
// threshold to below it. A series starting below threshold crosses at 0.
func Crossings(values []float64, threshold float64) []int {
	var out []int
	above := true
	for i, v := range values {
		below := v < threshold
		if below && above {
			out = append(out, i)
		}
		above = !below
	}
	return out
}
