package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/trajprox/internal/traj"
)

// ControlEffort averages the L1 norm of the controls applied at each node.
// Nodes past the end of U carry no control and are left out, as are
// controls the solver emitted with NaN or Inf entries.
type ControlEffort struct {
	sum        float64
	peak       float64
	controlled int
	skipped    int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(n traj.Node, u traj.Vector, t float64) {
	if len(u) == 0 {
		return
	}
	if !u.IsValid() {
		c.skipped++
		return
	}
	l1 := floats.Norm(u, 1)
	c.sum += l1
	c.peak = max(c.peak, l1)
	c.controlled++
}

func (c *ControlEffort) Value() float64 {
	if c.controlled == 0 {
		return 0
	}
	return c.sum / float64(c.controlled)
}

// Peak is the largest L1 norm seen.
func (c *ControlEffort) Peak() float64 { return c.peak }

// Controlled is the number of nodes that contributed; Skipped counts the
// non-finite controls left out.
func (c *ControlEffort) Controlled() int { return c.controlled }

func (c *ControlEffort) Skipped() int { return c.skipped }

func (c *ControlEffort) Reset() {
	*c = ControlEffort{}
}
