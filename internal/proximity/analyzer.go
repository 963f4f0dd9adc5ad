package proximity

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

type Options struct {
	// Workers > 1 splits the nodes into contiguous chunks evaluated
	// concurrently, each with a private workspace.
	Workers int
}

type Analyzer struct {
	ev   kinematics.Evaluator
	opts Options
	pool *kinematics.WorkspacePool
}

func New(ev kinematics.Evaluator, opts Options) *Analyzer {
	return &Analyzer{
		ev:   ev,
		opts: opts,
		pool: kinematics.NewWorkspacePool(ev),
	}
}

func (a *Analyzer) Evaluator() kinematics.Evaluator {
	return a.ev
}

type pairJob struct {
	label string
	a, b  int
	ga    kinematics.Geometry
	gb    kinematics.Geometry
}

// resolvePairs checks every index before resolving any name. Repeated
// labels are evaluated once.
func (a *Analyzer) resolvePairs(pairs []kinematics.Pair) ([]pairJob, error) {
	n := a.ev.NumGeometries()
	for _, p := range pairs {
		for _, idx := range []int{p.A, p.B} {
			if idx < 0 || idx >= n {
				return nil, &kinematics.IndexError{Kind: "geometry", Index: idx, Len: n}
			}
		}
	}

	jobs := make([]pairJob, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		nameA, err := a.ev.GeometryName(p.A)
		if err != nil {
			return nil, err
		}
		nameB, err := a.ev.GeometryName(p.B)
		if err != nil {
			return nil, err
		}
		label := kinematics.PairLabel(nameA, nameB)
		if seen[label] {
			continue
		}
		seen[label] = true

		ga, err := a.ev.Geometry(p.A)
		if err != nil {
			return nil, err
		}
		gb, err := a.ev.Geometry(p.B)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pairJob{label: label, a: p.A, b: p.B, ga: ga, gb: gb})
	}
	return jobs, nil
}

// MinimalDistancesForPairs returns one series per declared pair, keyed
// "<nameA>-<nameB>", each holding one distance per node.
func (a *Analyzer) MinimalDistancesForPairs(ctx context.Context, t *traj.Trajectory, pairs []kinematics.Pair, ws *kinematics.Workspace) (*Series, error) {
	jobs, err := a.resolvePairs(pairs)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	values := make([][]float64, len(jobs))
	for j := range values {
		values[j] = make([]float64, n)
	}

	err = a.forEachNode(ctx, t, ws, func(ws *kinematics.Workspace, i int, q traj.Vector) error {
		placements, err := a.ev.PlacementsOfGeometries(ws, q)
		if err != nil {
			return errors.Wrapf(err, "node %d", i)
		}
		for j, job := range jobs {
			if job.a >= len(placements) || job.b >= len(placements) {
				return &kinematics.IndexError{Kind: "geometry", Index: max(job.a, job.b), Len: len(placements)}
			}
			d, err := a.ev.DistanceBetween(job.ga.Shape, placements[job.a], job.gb.Shape, placements[job.b])
			if err != nil {
				return errors.Wrapf(err, "node %d, pair %s", i, job.label)
			}
			values[j][i] = d
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	series := NewSeries()
	for j, job := range jobs {
		series.Set(job.label, values[j])
	}
	return series, nil
}

// forEachNode calls fn for every node. Serially fn receives ws, or a pooled
// workspace when ws is nil. With several workers each chunk draws its own
// workspace from the pool and ws is left untouched.
func (a *Analyzer) forEachNode(ctx context.Context, t *traj.Trajectory, ws *kinematics.Workspace, fn func(*kinematics.Workspace, int, traj.Vector) error) error {
	n := t.Len()
	workers := a.opts.Workers
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		if ws == nil {
			ws = a.pool.Get()
			defer a.pool.Put(ws)
		}
		return evalRange(ctx, t, ws, 0, n, fn)
	}

	chunk := (n + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			ws := a.pool.Get()
			defer a.pool.Put(ws)
			return evalRange(gctx, t, ws, lo, hi, fn)
		})
	}
	return g.Wait()
}

func evalRange(ctx context.Context, t *traj.Trajectory, ws *kinematics.Workspace, lo, hi int, fn func(*kinematics.Workspace, int, traj.Vector) error) error {
	for i := lo; i < hi; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(ws, i, t.Nodes[i].Q); err != nil {
			return err
		}
	}
	return nil
}
