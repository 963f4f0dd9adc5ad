package proximity

import (
	"sync/atomic"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/kinematics/chain"
	"github.com/san-kum/trajprox/internal/traj"
)

// A carriage slides along X; "ball" rides on it, "post" and "beacon" are
// fixed. The mast frame sits 1m above the carriage.
const railYAML = `
name: rail
frames:
  - name: carriage
    joint: prismatic
    axis: [1, 0, 0]
  - name: mast
    parent: carriage
    origin: {xyz: [0, 0, 1]}
geometries:
  - name: ball
    frame: carriage
    shape: {type: sphere, radius: 0.05}
  - name: post
    origin: {xyz: [1, 0, 0]}
    shape: {type: sphere, radius: 0.05}
  - name: beacon
    origin: {xyz: [0, 2, 0]}
    shape: {type: point}
`

// testingT is satisfied by *testing.T and by GinkgoT().
type testingT interface {
	require.TestingT
	Helper()
}

const (
	ball   = 0
	post   = 1
	beacon = 2
)

func railEngine(tb testingT, opts ...kinematics.Option) *kinematics.Engine {
	tb.Helper()
	robot, err := chain.Parse([]byte(railYAML))
	require.NoError(tb, err)
	return robot.Engine(opts...)
}

// railTrajectory builds one node per carriage position, with zero velocity.
func railTrajectory(tb testingT, xs ...float64) *traj.Trajectory {
	tb.Helper()
	flat := make([]float64, 0, 2*len(xs))
	for _, x := range xs {
		flat = append(flat, x, 0)
	}
	t, err := traj.Decode(flat, 2, 1)
	require.NoError(tb, err)
	return t
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// countingEvaluator records how often each evaluator capability is used.
// Embedding the interface hides any optional capability of the wrapped
// evaluator.
type countingEvaluator struct {
	kinematics.Evaluator
	placements atomic.Int64
	poses      atomic.Int64
	distances  atomic.Int64
	names      atomic.Int64
	failAt     float64
	fail       bool
}

func countEvaluator(ev kinematics.Evaluator) *countingEvaluator {
	return &countingEvaluator{Evaluator: ev}
}

func (c *countingEvaluator) GeometryName(index int) (string, error) {
	c.names.Add(1)
	return c.Evaluator.GeometryName(index)
}

func (c *countingEvaluator) PlacementsOfGeometries(ws *kinematics.Workspace, q []float64) ([]kinematics.Pose, error) {
	c.placements.Add(1)
	if c.fail && q[0] == c.failAt {
		return nil, kinematics.ErrNoWorkspace
	}
	return c.Evaluator.PlacementsOfGeometries(ws, q)
}

func (c *countingEvaluator) PoseOfFrame(ws *kinematics.Workspace, frame string, q []float64) (kinematics.Pose, error) {
	c.poses.Add(1)
	return c.Evaluator.PoseOfFrame(ws, frame, q)
}

func (c *countingEvaluator) DistanceBetween(a kinematics.Shape, pa kinematics.Pose, b kinematics.Shape, pb kinematics.Pose) (float64, error) {
	c.distances.Add(1)
	return c.Evaluator.DistanceBetween(a, pa, b, pb)
}
