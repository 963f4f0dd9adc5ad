package proximity

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

// Target is a fixed translation tracked by a named frame.
type Target struct {
	Name        string
	Frame       string
	Translation r3.Vector
}

// DistanceToNamedTarget returns, per node, the Euclidean distance between
// the frame's translation and target. Orientation is ignored.
func (a *Analyzer) DistanceToNamedTarget(ctx context.Context, t *traj.Trajectory, ws *kinematics.Workspace, frameName string, target r3.Vector) ([]float64, error) {
	if _, err := a.ev.FrameID(frameName); err != nil {
		return nil, err
	}

	out := make([]float64, t.Len())
	err := a.forEachNode(ctx, t, ws, func(ws *kinematics.Workspace, i int, q traj.Vector) error {
		p, err := a.ev.PoseOfFrame(ws, frameName, q)
		if err != nil {
			return errors.Wrapf(err, "node %d", i)
		}
		out[i] = p.Translation.Sub(target).Norm()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DistancesToTargets evaluates every target with one forward kinematics
// pass per node when the evaluator supports it. Series are keyed by target
// name.
func (a *Analyzer) DistancesToTargets(ctx context.Context, t *traj.Trajectory, ws *kinematics.Workspace, targets []Target) (*Series, error) {
	ids := make([]int, len(targets))
	seen := make(map[string]bool, len(targets))
	for i, tg := range targets {
		if seen[tg.Name] {
			return nil, errors.Errorf("proximity: duplicate target %q", tg.Name)
		}
		seen[tg.Name] = true

		id, err := a.ev.FrameID(tg.Frame)
		if err != nil {
			return nil, errors.Wrapf(err, "target %q", tg.Name)
		}
		ids[i] = id
	}

	n := t.Len()
	values := make([][]float64, len(targets))
	for j := range values {
		values[j] = make([]float64, n)
	}

	batcher, batched := a.ev.(kinematics.FrameBatcher)
	err := a.forEachNode(ctx, t, ws, func(ws *kinematics.Workspace, i int, q traj.Vector) error {
		if len(targets) == 0 {
			return nil
		}
		if batched {
			poses, err := batcher.PosesOfFrames(ws, ids, q)
			if err != nil {
				return errors.Wrapf(err, "node %d", i)
			}
			for j, tg := range targets {
				values[j][i] = poses[j].Translation.Sub(tg.Translation).Norm()
			}
			return nil
		}
		for j, tg := range targets {
			p, err := a.ev.PoseOfFrame(ws, tg.Frame, q)
			if err != nil {
				return errors.Wrapf(err, "node %d, target %q", i, tg.Name)
			}
			values[j][i] = p.Translation.Sub(tg.Translation).Norm()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	series := NewSeries()
	for j, tg := range targets {
		series.Set(tg.Name, values[j])
	}
	return series, nil
}
