package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transform: a rotation stored as a unit quaternion followed
// by a translation. The zero value is the identity.
type Pose struct {
	Rotation    quat.Number
	Translation r3.Vector
}

func Identity() Pose {
	return Pose{Rotation: quat.Number{Real: 1}}
}

func NewPoseFromPoint(t r3.Vector) Pose {
	return Pose{Rotation: quat.Number{Real: 1}, Translation: t}
}

// NewPoseFromAxisAngle rotates by angle radians around axis, then
// translates by t. A zero axis yields a pure translation.
func NewPoseFromAxisAngle(axis r3.Vector, angle float64, t r3.Vector) Pose {
	return Pose{Rotation: axisAngle(axis, angle), Translation: t}
}

// NewPoseFromRPY uses the fixed-axis roll/pitch/yaw convention of robot
// description files: R = Rz(yaw) * Ry(pitch) * Rx(roll).
func NewPoseFromRPY(roll, pitch, yaw float64, t r3.Vector) Pose {
	qx := axisAngle(r3.Vector{X: 1}, roll)
	qy := axisAngle(r3.Vector{Y: 1}, pitch)
	qz := axisAngle(r3.Vector{Z: 1}, yaw)
	return Pose{Rotation: normalize(quat.Mul(qz, quat.Mul(qy, qx))), Translation: t}
}

func axisAngle(axis r3.Vector, angle float64) quat.Number {
	n := axis.Norm()
	if n == 0 {
		return quat.Number{Real: 1}
	}
	axis = axis.Mul(1 / n)
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

func (p Pose) rotation() quat.Number {
	if p.Rotation == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return p.Rotation
}

// Rotate applies only the rotational part of p to v.
func (p Pose) Rotate(v r3.Vector) r3.Vector {
	q := p.rotation()
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Apply maps a point expressed in p's local frame into p's parent frame.
func (p Pose) Apply(v r3.Vector) r3.Vector {
	return p.Rotate(v).Add(p.Translation)
}

// Compose returns p * o: o expressed in the frame p is expressed in.
func (p Pose) Compose(o Pose) Pose {
	return Pose{
		Rotation:    normalize(quat.Mul(p.rotation(), o.rotation())),
		Translation: p.Apply(o.Translation),
	}
}

func (p Pose) Inverse() Pose {
	inv := Pose{Rotation: quat.Conj(p.rotation())}
	inv.Translation = inv.Rotate(p.Translation).Mul(-1)
	return inv
}

// AlmostEqual compares translations and rotations within tol. q and -q
// describe the same rotation.
func (p Pose) AlmostEqual(o Pose, tol float64) bool {
	if p.Translation.Sub(o.Translation).Norm() > tol {
		return false
	}
	a, b := p.rotation(), o.rotation()
	same := quat.Abs(quat.Sub(a, b)) <= tol
	flipped := quat.Abs(quat.Add(a, b)) <= tol
	return same || flipped
}
