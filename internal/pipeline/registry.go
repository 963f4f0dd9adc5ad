package pipeline

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/trajprox/internal/config"
	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/kinematics/chain"
	"github.com/san-kum/trajprox/internal/metrics"
)

// OpenEvaluator loads the robot named by cfg, adds the configured scene
// obstacles and returns an evaluator over it.
func OpenEvaluator(cfg *config.Config) (*kinematics.Engine, error) {
	robot, err := chain.Open(cfg.Robot)
	if err != nil {
		return nil, errors.Wrapf(err, "opening robot %s", cfg.Robot)
	}
	if robot.Model.ConfigDim() != cfg.ConfigDim {
		return nil, errors.Errorf("robot %s has %d joints, config_dim is %d", robot.Model.Name(), robot.Model.ConfigDim(), cfg.ConfigDim)
	}

	for _, o := range cfg.Obstacles {
		var shape kinematics.Shape = kinematics.Sphere{Radius: o.Radius}
		if o.Radius == 0 {
			shape = kinematics.Point{}
		}
		id, err := robot.AddObstacle(o.Name, o.Position(), shape)
		if err != nil {
			return nil, errors.Wrapf(err, "adding obstacle %q", o.Name)
		}
		logrus.Debugf("Added obstacle %s as geometry %d", o.Name, id)
	}

	logrus.Infof("Loaded robot %s: %d frames, %d geometries", robot.Model.Name(), robot.Model.NumFrames(), robot.Collision.NumGeometries())
	return robot.Engine(kinematics.WithSignedDistance(cfg.SignedDistance)), nil
}

func (p *Pipeline) defaultMetrics(dt float64) []metrics.Metric {
	return metrics.Defaults(dt, p.cfg.SpeedLimit)
}
