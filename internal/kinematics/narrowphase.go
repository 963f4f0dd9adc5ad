package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
)

// NarrowPhase computes the minimal separation between two placed
// primitives. Negative values are penetration depths.
type NarrowPhase interface {
	Distance(a Shape, pa Pose, b Shape, pb Pose) (float64, error)
}

// SweptSphere handles every Shape through its segment-plus-radius form.
type SweptSphere struct{}

func (SweptSphere) Distance(a Shape, pa Pose, b Shape, pb Pose) (float64, error) {
	if err := ValidateShape(a); err != nil {
		return 0, err
	}
	if err := ValidateShape(b); err != nil {
		return 0, err
	}
	a0, a1, ra := placedSegment(a, pa)
	b0, b1, rb := placedSegment(b, pb)
	return SegmentDistance(a0, a1, b0, b1) - ra - rb, nil
}

func placedSegment(s Shape, p Pose) (r3.Vector, r3.Vector, float64) {
	half, radius := s.Segment()
	return p.Apply(r3.Vector{Z: -half}), p.Apply(r3.Vector{Z: half}), radius
}

const segmentEpsilon = 1e-12

// SegmentDistance returns the minimal distance between segments [p1, q1]
// and [p2, q2]. Degenerate segments are treated as points.
func SegmentDistance(p1, q1, p2, q2 r3.Vector) float64 {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= segmentEpsilon && e <= segmentEpsilon:
		return r.Norm()
	case a <= segmentEpsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= segmentEpsilon {
			s = clamp01(-c / a)
			break
		}
		b := d1.Dot(d2)
		if denom := a*e - b*b; denom > segmentEpsilon {
			s = clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}

	c1 := p1.Add(d1.Mul(s))
	c2 := p2.Add(d2.Mul(t))
	return c1.Sub(c2).Norm()
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
