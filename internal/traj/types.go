package traj

import (
	"math"

	"github.com/pkg/errors"
)

type Vector []float64

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Dims holds the per-node state size and how much of it is configuration.
type Dims struct {
	State  int
	Config int
}

// DimsFor returns the usual layout where the velocity has as many entries
// as the configuration.
func DimsFor(configDim int) Dims {
	return Dims{State: 2 * configDim, Config: configDim}
}

func (d Dims) Velocity() int {
	return d.State - d.Config
}

func (d Dims) Validate() error {
	if d.State <= 0 || d.Config <= 0 {
		return errors.Wrapf(ErrShape, "dimensions must be positive (state=%d, config=%d)", d.State, d.Config)
	}
	if d.Config > d.State {
		return errors.Wrapf(ErrShape, "config dimension %d exceeds state dimension %d", d.Config, d.State)
	}
	return nil
}

// Node is one discrete time step of a trajectory.
type Node struct {
	Q Vector
	V Vector
}

type Trajectory struct {
	Dims  Dims
	Nodes []Node
}

func (t *Trajectory) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Times returns the timestamp of every node for a fixed step dt.
func (t *Trajectory) Times(dt float64) []float64 {
	times := make([]float64, t.Len())
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}
