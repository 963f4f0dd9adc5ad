package metrics

import "github.com/san-kum/trajprox/internal/traj"

// Metric reduces a trajectory to one scalar, observing one node at a time.
type Metric interface {
	Name() string
	Observe(n traj.Node, u traj.Vector, t float64)
	Value() float64
	Reset()
}

// Evaluate resets every metric, feeds it all nodes in order and returns the
// values by name. Nodes past the last control observe an empty control.
func Evaluate(ms []Metric, t *traj.Trajectory, controls []traj.Vector, dt float64) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i := 0; i < t.Len(); i++ {
		var u traj.Vector
		if i < len(controls) {
			u = controls[i]
		}
		for _, m := range ms {
			m.Observe(t.Nodes[i], u, float64(i)*dt)
		}
	}

	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}

// Defaults is the metric set computed for every report.
func Defaults(dt, speedLimit float64) []Metric {
	return []Metric{
		NewControlEffort(),
		NewPeakJointSpeed(),
		NewSpeedCompliance(speedLimit),
		NewKineticEnergy(nil),
		NewIntegrationDefect(dt),
	}
}
