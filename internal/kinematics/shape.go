package kinematics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Shape is a convex primitive described as a swept sphere: a segment along
// the local Z axis, centred on the origin, inflated by a radius.
type Shape interface {
	Kind() string
	Segment() (halfLength, radius float64)
}

type Point struct{}

func (Point) Kind() string {
	return "point"
}

func (Point) Segment() (float64, float64) {
	return 0, 0
}

type Sphere struct {
	Radius float64
}

func (Sphere) Kind() string {
	return "sphere"
}

func (s Sphere) Segment() (float64, float64) {
	return 0, s.Radius
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere(r=%g)", s.Radius)
}

// Capsule is a cylinder of the given Length capped by two hemispheres; the
// total tip-to-tip extent is Length + 2*Radius.
type Capsule struct {
	Radius float64
	Length float64
}

func (Capsule) Kind() string {
	return "capsule"
}

func (c Capsule) Segment() (float64, float64) {
	return c.Length / 2, c.Radius
}

func (c Capsule) String() string {
	return fmt.Sprintf("capsule(r=%g, l=%g)", c.Radius, c.Length)
}

// ValidateShape rejects nil shapes and negative dimensions.
func ValidateShape(s Shape) error {
	if s == nil {
		return errors.New("kinematics: nil shape")
	}
	half, radius := s.Segment()
	if half < 0 || radius < 0 {
		return errors.Errorf("kinematics: %s has negative dimensions", s.Kind())
	}
	return nil
}
