package metrics

import (
	"math"

	"github.com/san-kum/trajprox/internal/traj"
)

type PeakJointSpeed struct {
	name string
	peak float64
}

func NewPeakJointSpeed() *PeakJointSpeed {
	return &PeakJointSpeed{name: "peak_joint_speed"}
}

func (p *PeakJointSpeed) Name() string { return p.name }

func (p *PeakJointSpeed) Observe(n traj.Node, u traj.Vector, t float64) {
	p.peak = math.Max(p.peak, n.V.Norm())
}

func (p *PeakJointSpeed) Value() float64 { return p.peak }

func (p *PeakJointSpeed) Reset() { p.peak = 0 }

// SpeedCompliance is the fraction of nodes whose every joint speed stays
// within limit.
type SpeedCompliance struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewSpeedCompliance(limit float64) *SpeedCompliance {
	return &SpeedCompliance{
		name:  "speed_compliance",
		limit: limit,
	}
}

func (s *SpeedCompliance) Name() string {
	return s.name
}

func (s *SpeedCompliance) Observe(n traj.Node, u traj.Vector, t float64) {
	s.samples++
	for _, val := range n.V {
		if math.Abs(val) > s.limit {
			s.violations++
			break
		}
	}
}

func (s *SpeedCompliance) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *SpeedCompliance) Reset() {
	s.violations = 0
	s.samples = 0
}

// KineticEnergy averages 0.5 * sum(m_i * v_i^2) over nodes. Missing
// inertias default to 1.
type KineticEnergy struct {
	name     string
	inertias []float64
	total    float64
	samples  int
}

func NewKineticEnergy(inertias []float64) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", inertias: inertias}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(n traj.Node, u traj.Vector, t float64) {
	e := 0.0
	for i, v := range n.V {
		m := 1.0
		if i < len(k.inertias) {
			m = k.inertias[i]
		}
		e += 0.5 * m * v * v
	}
	k.total += e
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}
