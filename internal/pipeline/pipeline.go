package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/trajprox/internal/analysis"
	"github.com/san-kum/trajprox/internal/config"
	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/metrics"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/record"
)

// ErrLabelClash is returned when a target is named like one of the
// collision pair labels, since both share the report's series keys.
var ErrLabelClash = errors.New("pipeline: target name equals a pair label")

// Pipeline turns records into reports for one robot and configuration.
// It is safe for concurrent use once set up.
type Pipeline struct {
	cfg      *config.Config
	analyzer *proximity.Analyzer
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

func (p *Pipeline) Setup(ev kinematics.Evaluator) error {
	if err := p.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	p.analyzer = proximity.New(ev, proximity.Options{Workers: p.cfg.Workers})
	return nil
}

func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

func (p *Pipeline) Analyzer() *proximity.Analyzer {
	return p.analyzer
}

func (p *Pipeline) Run(ctx context.Context, rec *record.Record) (*Report, error) {
	if p.analyzer == nil {
		return nil, errors.New("pipeline not set up")
	}
	log := logrus.WithField("record", rec.Name())
	start := time.Now()

	res, err := rec.Results()
	if err != nil {
		return nil, err
	}
	dims := p.cfg.Dims()
	tr, err := rec.Trajectory(dims)
	if err != nil {
		return nil, err
	}
	controls, err := rec.Controls(p.cfg.Controls())
	if err != nil {
		return nil, err
	}
	log.Debugf("Decoded %d nodes (state %d, config %d), %d controls", tr.Len(), dims.State, dims.Config, len(controls))

	pairs := p.cfg.CollisionPairs()
	if pairs == nil {
		pairs = res.CollisionPairs
	}
	pairSeries, err := p.analyzer.MinimalDistancesForPairs(ctx, tr, pairs, nil)
	if err != nil {
		return nil, err
	}
	targets := p.cfg.ProximityTargets()
	for _, target := range targets {
		if _, clash := pairSeries.Get(target.Name); clash {
			return nil, errors.Wrapf(ErrLabelClash, "target %q", target.Name)
		}
	}
	targetSeries, err := p.analyzer.DistancesToTargets(ctx, tr, nil, targets)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:       rec.Name(),
		Robot:      p.cfg.Robot,
		CreatedAt:  time.Now(),
		Dims:       dims,
		Dt:         res.Dt,
		Threshold:  p.cfg.SafetyThreshold,
		Results:    res,
		Pairs:      pairSeries,
		Targets:    targetSeries,
		PairStats:  analysis.SummarizeSeries(pairSeries, p.cfg.SafetyThreshold, res.Dt),
		TargetStat: analysis.SummarizeSeries(targetSeries, p.cfg.SafetyThreshold, res.Dt),
		Metrics:    metrics.Evaluate(p.defaultMetrics(res.Dt), tr, controls, res.Dt),
		Timing:     metrics.SolveTimes(res.TimeCalc),
		Trajectory: tr,
		Controls:   controls,
	}

	if closest, ok := analysis.Closest(report.PairStats); ok {
		log.Infof("Closest pair %s: %.4g at node %d (t=%.3fs)", closest.Label, closest.Min, closest.ArgMin, closest.TimeOfMin)
		if closest.FirstViolation >= 0 {
			log.Warnf("Pair %s below safety threshold %.3g from node %d", closest.Label, p.cfg.SafetyThreshold, closest.FirstViolation)
		}
	}
	log.Infof("Analyzed %d nodes, %d pairs, %d targets in %s", tr.Len(), pairSeries.Len(), targetSeries.Len(), time.Since(start).Round(time.Microsecond))
	return report, nil
}
