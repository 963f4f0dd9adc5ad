package chain

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

type JointType int

const (
	Fixed JointType = iota
	Revolute
	Prismatic
)

func (j JointType) String() string {
	switch j {
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	default:
		return "fixed"
	}
}

func parseJoint(s string) (JointType, error) {
	switch s {
	case "", "fixed":
		return Fixed, nil
	case "revolute", "continuous":
		return Revolute, nil
	case "prismatic":
		return Prismatic, nil
	}
	return Fixed, errors.Errorf("unknown joint type %q", s)
}

type frame struct {
	name   string
	parent int
	joint  JointType
	axis   r3.Vector
	origin kinematics.Pose
	qIndex int
}

// Model is an immutable kinematic tree. Frames are stored parent-first so a
// single forward pass computes every placement.
type Model struct {
	name   string
	frames []frame
	byName map[string]int
	nq     int
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) ConfigDim() int {
	return m.nq
}

func (m *Model) NumFrames() int {
	return len(m.frames)
}

func (m *Model) FrameID(name string) (int, error) {
	id, ok := m.byName[name]
	if !ok {
		return -1, &kinematics.LookupError{Kind: "frame", Name: name}
	}
	return id, nil
}

func (m *Model) FrameName(id int) (string, error) {
	if id < 0 || id >= len(m.frames) {
		return "", &kinematics.IndexError{Kind: "frame", Index: id, Len: len(m.frames)}
	}
	return m.frames[id].name, nil
}

// Joints returns the names of actuated frames in configuration order.
func (m *Model) Joints() []string {
	names := make([]string, 0, m.nq)
	for _, f := range m.frames {
		if f.joint != Fixed {
			names = append(names, f.name)
		}
	}
	return names
}

func (m *Model) NewData() kinematics.Data {
	oMf := make([]kinematics.Pose, len(m.frames))
	for i := range oMf {
		oMf[i] = kinematics.Identity()
	}
	return &Data{model: m, oMf: oMf}
}

// Data holds the world placement of every frame of one Model.
type Data struct {
	model *Model
	oMf   []kinematics.Pose
}

func (d *Data) ForwardKinematics(q []float64) error {
	m := d.model
	if len(q) != m.nq {
		return &traj.ShapeError{Field: "configuration", Expected: m.nq, Actual: len(q)}
	}

	d.oMf[0] = kinematics.Identity()
	for i := 1; i < len(m.frames); i++ {
		f := m.frames[i]
		local := f.origin
		switch f.joint {
		case Revolute:
			local = local.Compose(kinematics.NewPoseFromAxisAngle(f.axis, q[f.qIndex], r3.Vector{}))
		case Prismatic:
			local = local.Compose(kinematics.NewPoseFromPoint(f.axis.Mul(q[f.qIndex])))
		}
		d.oMf[i] = d.oMf[f.parent].Compose(local)
	}
	return nil
}

func (d *Data) FramePlacement(id int) (kinematics.Pose, error) {
	if id < 0 || id >= len(d.oMf) {
		return kinematics.Pose{}, &kinematics.IndexError{Kind: "frame", Index: id, Len: len(d.oMf)}
	}
	return d.oMf[id], nil
}
