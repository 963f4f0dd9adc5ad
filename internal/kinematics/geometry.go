package kinematics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Geometry is a collision primitive rigidly attached to a frame of the
// kinematic model at a fixed local placement.
type Geometry struct {
	Name        string
	ParentFrame int
	Placement   Pose
	Shape       Shape
}

// CollisionModel is the ordered list of collision geometries of a robot and
// its scene. Indices are stable: geometries are only ever appended.
type CollisionModel struct {
	geometries []Geometry
	byName     map[string]int
}

func NewCollisionModel() *CollisionModel {
	return &CollisionModel{byName: make(map[string]int)}
}

// Add appends g and returns its index.
func (c *CollisionModel) Add(g Geometry) (int, error) {
	if g.Name == "" {
		return -1, errors.New("kinematics: geometry needs a name")
	}
	if _, ok := c.byName[g.Name]; ok {
		return -1, errors.Errorf("kinematics: duplicate geometry %q", g.Name)
	}
	if err := ValidateShape(g.Shape); err != nil {
		return -1, errors.Wrapf(err, "geometry %q", g.Name)
	}
	c.geometries = append(c.geometries, g)
	c.byName[g.Name] = len(c.geometries) - 1
	return len(c.geometries) - 1, nil
}

func (c *CollisionModel) NumGeometries() int {
	return len(c.geometries)
}

func (c *CollisionModel) Geometry(index int) (Geometry, error) {
	if index < 0 || index >= len(c.geometries) {
		return Geometry{}, &IndexError{Kind: "geometry", Index: index, Len: len(c.geometries)}
	}
	return c.geometries[index], nil
}

func (c *CollisionModel) GeometryID(name string) (int, error) {
	id, ok := c.byName[name]
	if !ok {
		return -1, &LookupError{Kind: "geometry", Name: name}
	}
	return id, nil
}

func (c *CollisionModel) NewData() *CollisionData {
	return &CollisionData{Placements: make([]Pose, len(c.geometries))}
}

// CollisionData holds the world placement of every geometry, written by
// placement propagation.
type CollisionData struct {
	Placements []Pose
}

// Pair declares two geometries whose separation is tracked.
type Pair struct {
	A int
	B int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.A, p.B)
}

// PairLabel joins two geometry names the way distance series are keyed.
func PairLabel(nameA, nameB string) string {
	return nameA + "-" + nameB
}
