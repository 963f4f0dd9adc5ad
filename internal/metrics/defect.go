package metrics

import (
	"math"

	"github.com/san-kum/trajprox/internal/traj"
)

// IntegrationDefect is the largest explicit-Euler mismatch between
// consecutive nodes: max_k |q[k+1] - (q[k] + v[k]*dt)|. A record produced
// by an Euler-integrated problem has a defect near zero.
type IntegrationDefect struct {
	name string
	dt   float64
	prev *traj.Node
	max  float64
}

func NewIntegrationDefect(dt float64) *IntegrationDefect {
	return &IntegrationDefect{name: "integration_defect", dt: dt}
}

func (d *IntegrationDefect) Name() string { return d.name }

func (d *IntegrationDefect) Observe(n traj.Node, u traj.Vector, t float64) {
	if d.prev != nil && len(d.prev.Q) == len(n.Q) && len(d.prev.V) >= len(n.Q) {
		pred := make(traj.Vector, len(n.Q))
		for i := range pred {
			pred[i] = d.prev.Q[i] + d.prev.V[i]*d.dt
		}
		d.max = math.Max(d.max, n.Q.Sub(pred).Norm())
	}
	node := n
	d.prev = &node
}

func (d *IntegrationDefect) Value() float64 { return d.max }

func (d *IntegrationDefect) Reset() {
	d.prev = nil
	d.max = 0
}
