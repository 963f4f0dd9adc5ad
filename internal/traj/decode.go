package traj

import "github.com/pkg/errors"

// Decode partitions x into consecutive chunks of stateDim entries. The
// first configDim entries of each chunk become the node configuration and
// the rest its velocity.
func Decode(x []float64, stateDim, configDim int) (*Trajectory, error) {
	dims := Dims{State: stateDim, Config: configDim}
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if len(x)%stateDim != 0 {
		return nil, &ShapeError{Field: "X", Expected: stateDim, Actual: len(x), Multiple: true}
	}

	nodes := make([]Node, len(x)/stateDim)
	for i := range nodes {
		chunk := Vector(x[i*stateDim : (i+1)*stateDim])
		nodes[i] = Node{
			Q: chunk[:configDim].Clone(),
			V: chunk[configDim:].Clone(),
		}
	}

	return &Trajectory{Dims: dims, Nodes: nodes}, nil
}

func Configurations(t *Trajectory) []Vector {
	qs := make([]Vector, t.Len())
	for i := range qs {
		qs[i] = t.Nodes[i].Q
	}
	return qs
}

func Velocities(t *Trajectory) []Vector {
	vs := make([]Vector, t.Len())
	for i := range vs {
		vs[i] = t.Nodes[i].V
	}
	return vs
}

// Controls partitions the flat control record into vectors of controlDim.
func Controls(u []float64, controlDim int) ([]Vector, error) {
	if controlDim <= 0 {
		return nil, errors.Wrapf(ErrShape, "control dimension must be positive, got %d", controlDim)
	}
	if len(u)%controlDim != 0 {
		return nil, &ShapeError{Field: "U", Expected: controlDim, Actual: len(u), Multiple: true}
	}

	controls := make([]Vector, len(u)/controlDim)
	for i := range controls {
		controls[i] = Vector(u[i*controlDim : (i+1)*controlDim]).Clone()
	}
	return controls, nil
}

// Flatten concatenates (configuration, velocity) of every node in order.
func Flatten(t *Trajectory) []float64 {
	if t == nil {
		return nil
	}
	x := make([]float64, 0, t.Len()*t.Dims.State)
	for _, n := range t.Nodes {
		x = append(x, n.Q...)
		x = append(x, n.V...)
	}
	return x
}
