// Package batch analyzes many records against one pipeline.
package batch

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/san-kum/trajprox/internal/pipeline"
	"github.com/san-kum/trajprox/internal/record"
)

type Runner struct {
	pipeline *pipeline.Pipeline
	workers  int
}

// NewRunner runs at most workers records at once; values below 1 mean 1.
func NewRunner(p *pipeline.Pipeline, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{pipeline: p, workers: workers}
}

// Run analyzes every path. A failing record does not stop the others: the
// reports of the records that succeeded are returned in input order along
// with the combined error of those that failed.
func (r *Runner) Run(ctx context.Context, paths []string) ([]*pipeline.Report, error) {
	reports := make([]*pipeline.Report, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(r.workers, len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i], errs[i] = r.runOne(ctx, paths[i])
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case <-ctx.Done():
			for j := i; j < len(paths); j++ {
				errs[j] = errors.Wrap(ctx.Err(), paths[j])
			}
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var (
		out      []*pipeline.Report
		combined error
	)
	for i, rep := range reports {
		if errs[i] != nil {
			combined = multierr.Append(combined, errs[i])
			continue
		}
		out = append(out, rep)
	}
	logrus.Infof("Batch finished: %d of %d records analyzed", len(out), len(paths))
	return out, combined
}

func (r *Runner) runOne(ctx context.Context, path string) (*pipeline.Report, error) {
	rec, err := record.Load(path)
	if err != nil {
		logrus.Warnf("Skipping %s: %v", path, err)
		return nil, errors.Wrap(err, path)
	}
	rep, err := r.pipeline.Run(ctx, rec)
	if err != nil {
		logrus.Warnf("Skipping %s: %v", path, err)
		return nil, errors.Wrap(err, path)
	}
	return rep, nil
}

// Rank sorts reports in place by the named scalar, ascending. Reports
// without a finite value sort last; ties keep name order.
func Rank(reports []*pipeline.Report, metric string) []*pipeline.Report {
	key := func(rep *pipeline.Report) float64 {
		v, ok := rep.Scalar(metric)
		if !ok || math.IsNaN(v) {
			return math.Inf(1)
		}
		return v
	}
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := key(reports[i]), key(reports[j])
		if a != b {
			return a < b
		}
		return reports[i].Name < reports[j].Name
	})
	return reports
}
