package chain

import (
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajprox/internal/kinematics"
)

const Universe = "universe"

type Description struct {
	Name       string         `yaml:"name"`
	Frames     []FrameDesc    `yaml:"frames"`
	Geometries []GeometryDesc `yaml:"geometries"`
}

type FrameDesc struct {
	Name   string    `yaml:"name"`
	Parent string    `yaml:"parent"`
	Joint  string    `yaml:"joint"`
	Axis   []float64 `yaml:"axis"`
	Origin Origin    `yaml:"origin"`
}

type GeometryDesc struct {
	Name   string    `yaml:"name"`
	Frame  string    `yaml:"frame"`
	Origin Origin    `yaml:"origin"`
	Shape  ShapeDesc `yaml:"shape"`
}

// Origin is a translation plus fixed-axis roll/pitch/yaw.
type Origin struct {
	XYZ []float64 `yaml:"xyz"`
	RPY []float64 `yaml:"rpy"`
}

type ShapeDesc struct {
	Type   string  `yaml:"type"`
	Radius float64 `yaml:"radius"`
	Length float64 `yaml:"length"`
}

func (o Origin) Pose() (kinematics.Pose, error) {
	xyz, err := vec3(o.XYZ, "xyz")
	if err != nil {
		return kinematics.Pose{}, err
	}
	rpy, err := vec3(o.RPY, "rpy")
	if err != nil {
		return kinematics.Pose{}, err
	}
	return kinematics.NewPoseFromRPY(rpy.X, rpy.Y, rpy.Z, xyz), nil
}

func (s ShapeDesc) Shape() (kinematics.Shape, error) {
	var shape kinematics.Shape
	switch s.Type {
	case "point":
		shape = kinematics.Point{}
	case "sphere":
		shape = kinematics.Sphere{Radius: s.Radius}
	case "capsule":
		shape = kinematics.Capsule{Radius: s.Radius, Length: s.Length}
	default:
		return nil, errors.Errorf("unknown shape type %q", s.Type)
	}
	if err := kinematics.ValidateShape(shape); err != nil {
		return nil, err
	}
	return shape, nil
}

func vec3(v []float64, field string) (r3.Vector, error) {
	switch len(v) {
	case 0:
		return r3.Vector{}, nil
	case 3:
		return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return r3.Vector{}, errors.Errorf("%s needs 3 values, got %d", field, len(v))
	}
}

func Load(path string) (*Robot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading robot description")
	}
	robot, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "robot description %s", path)
	}
	return robot, nil
}

func Parse(data []byte) (*Robot, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, errors.Wrap(err, "parsing robot description")
	}
	return Build(desc)
}
