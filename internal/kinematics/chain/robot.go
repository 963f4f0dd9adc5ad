package chain

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/kinematics"
)

// Robot pairs a kinematic Model with the collision geometries attached to
// its frames.
type Robot struct {
	Model     *Model
	Collision *kinematics.CollisionModel
}

func Build(desc Description) (*Robot, error) {
	m := &Model{
		name:   desc.Name,
		frames: []frame{{name: Universe, parent: -1, origin: kinematics.Identity()}},
		byName: map[string]int{Universe: 0},
	}

	for _, fd := range desc.Frames {
		if fd.Name == "" {
			return nil, errors.New("frame without a name")
		}
		if _, dup := m.byName[fd.Name]; dup {
			return nil, errors.Errorf("duplicate frame %q", fd.Name)
		}
		parentName := fd.Parent
		if parentName == "" {
			parentName = Universe
		}
		parent, ok := m.byName[parentName]
		if !ok {
			return nil, errors.Errorf("frame %q: parent %q must be declared before it", fd.Name, parentName)
		}
		joint, err := parseJoint(fd.Joint)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %q", fd.Name)
		}
		origin, err := fd.Origin.Pose()
		if err != nil {
			return nil, errors.Wrapf(err, "frame %q origin", fd.Name)
		}

		f := frame{name: fd.Name, parent: parent, joint: joint, origin: origin, qIndex: -1}
		if joint != Fixed {
			axis, err := vec3(fd.Axis, "axis")
			if err != nil {
				return nil, errors.Wrapf(err, "frame %q", fd.Name)
			}
			if axis.Norm() == 0 {
				return nil, errors.Errorf("frame %q: %s joint needs a non-zero axis", fd.Name, joint)
			}
			f.axis = axis.Normalize()
			f.qIndex = m.nq
			m.nq++
		}

		m.byName[fd.Name] = len(m.frames)
		m.frames = append(m.frames, f)
	}

	robot := &Robot{Model: m, Collision: kinematics.NewCollisionModel()}
	for _, gd := range desc.Geometries {
		frameName := gd.Frame
		if frameName == "" {
			frameName = Universe
		}
		parent, err := m.FrameID(frameName)
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %q", gd.Name)
		}
		placement, err := gd.Origin.Pose()
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %q origin", gd.Name)
		}
		shape, err := gd.Shape.Shape()
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %q", gd.Name)
		}
		if _, err := robot.Collision.Add(kinematics.Geometry{
			Name:        gd.Name,
			ParentFrame: parent,
			Placement:   placement,
			Shape:       shape,
		}); err != nil {
			return nil, err
		}
	}

	return robot, nil
}

// AddObstacle attaches a scene primitive to the universe frame and returns
// its geometry index.
func (r *Robot) AddObstacle(name string, translation r3.Vector, shape kinematics.Shape) (int, error) {
	return r.Collision.Add(kinematics.Geometry{
		Name:        name,
		ParentFrame: 0,
		Placement:   kinematics.NewPoseFromPoint(translation),
		Shape:       shape,
	})
}

func (r *Robot) Engine(opts ...kinematics.Option) *kinematics.Engine {
	return kinematics.NewEngine(r.Model, r.Collision, opts...)
}
