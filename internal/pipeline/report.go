package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/metrics"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/record"
	"github.com/san-kum/trajprox/internal/traj"
)

// Report is everything derived from one record.
type Report struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Robot      string             `json:"robot"`
	CreatedAt  time.Time          `json:"created_at"`
	Dims       traj.Dims          `json:"dims"`
	Dt         float64            `json:"dt"`
	Threshold  float64            `json:"safety_threshold"`
	Results    *record.Results    `json:"results"`
	Pairs      *proximity.Series  `json:"pairs"`
	Targets    *proximity.Series  `json:"targets"`
	PairStats  []analysis.Stats   `json:"pair_stats"`
	TargetStat []analysis.Stats   `json:"target_stats"`
	Metrics    map[string]float64 `json:"metrics"`
	Timing     metrics.Timing     `json:"timing"`

	Trajectory *traj.Trajectory `json:"-"`
	Controls   []traj.Vector    `json:"-"`
}

// Series merges pair and target series, pairs first. Run rejects targets
// named like a pair, so no key is shared.
func (r *Report) Series() *proximity.Series {
	s := proximity.NewSeries()
	s.Merge(r.Pairs)
	s.Merge(r.Targets)
	return s
}

func (r *Report) Stats() []analysis.Stats {
	out := make([]analysis.Stats, 0, len(r.PairStats)+len(r.TargetStat))
	out = append(out, r.PairStats...)
	return append(out, r.TargetStat...)
}

// Scalars flattens the report into named numbers usable for ranking.
func (r *Report) Scalars() map[string]float64 {
	out := map[string]float64{
		"min_distance":        math.NaN(),
		"min_target_distance": math.NaN(),
		"violations":          0,
		"crossings":           0,
		"chatter_hz":          0,
	}
	if r.Results != nil {
		out["nnodes"] = float64(r.Results.Nnodes)
		out["max_iter"] = float64(r.Results.MaxIter)
	}

	if closest, ok := analysis.Closest(r.PairStats); ok {
		out["min_distance"] = closest.Min
		if values, ok := r.Pairs.Get(closest.Label); ok {
			out["chatter_hz"], _ = analysis.DominantFrequency(values, r.Dt)
		}
	}
	if closest, ok := analysis.Closest(r.TargetStat); ok {
		out["min_target_distance"] = closest.Min
	}
	for _, st := range r.PairStats {
		out["violations"] += float64(st.BelowThreshold)
		out["crossings"] += float64(st.Crossings)
	}
	for k, v := range r.Metrics {
		out[k] = v
	}
	for k, v := range r.Timing.Values() {
		out[k] = v
	}
	return out
}

func (r *Report) Scalar(name string) (float64, bool) {
	v, ok := r.Scalars()[name]
	return v, ok
}

// ScalarNames lists the keys of Scalars, sorted.
func (r *Report) ScalarNames() []string {
	s := r.Scalars()
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
