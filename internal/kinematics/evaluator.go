package kinematics

import "github.com/pkg/errors"

// Evaluator is the capability the proximity analysis consumes.
type Evaluator interface {
	FrameID(name string) (int, error)
	GeometryName(index int) (string, error)
	Geometry(index int) (Geometry, error)
	NumGeometries() int

	// PoseOfFrame runs forward kinematics for q and returns the pose of
	// the named frame. Only ws is mutated.
	PoseOfFrame(ws *Workspace, frameName string, q []float64) (Pose, error)

	// PlacementsOfGeometries runs forward kinematics for q and propagates
	// it to every geometry. The returned slice is owned by ws and is
	// overwritten by the next call.
	PlacementsOfGeometries(ws *Workspace, q []float64) ([]Pose, error)

	DistanceBetween(a Shape, pa Pose, b Shape, pb Pose) (float64, error)

	NewWorkspace() *Workspace
}

// FrameBatcher is implemented by evaluators that can read several frames
// from a single forward kinematics pass.
type FrameBatcher interface {
	PosesOfFrames(ws *Workspace, ids []int, q []float64) ([]Pose, error)
}

// Workspace bundles the scratch buffers of a model and its collision model.
type Workspace struct {
	Data      Data
	Collision *CollisionData
}

type Option func(*Engine)

// WithSignedDistance passes penetration depths through instead of
// clamping distances at zero.
func WithSignedDistance(signed bool) Option {
	return func(e *Engine) { e.signed = signed }
}

func WithNarrowPhase(np NarrowPhase) Option {
	return func(e *Engine) { e.narrow = np }
}

// Engine implements Evaluator over a Model, a CollisionModel and a
// NarrowPhase.
type Engine struct {
	model     Model
	collision *CollisionModel
	narrow    NarrowPhase
	signed    bool
}

func NewEngine(model Model, collision *CollisionModel, opts ...Option) *Engine {
	if collision == nil {
		collision = NewCollisionModel()
	}
	e := &Engine{model: model, collision: collision, narrow: SweptSphere{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Model() Model {
	return e.model
}

func (e *Engine) CollisionModel() *CollisionModel {
	return e.collision
}

func (e *Engine) FrameID(name string) (int, error) {
	return e.model.FrameID(name)
}

func (e *Engine) GeometryName(index int) (string, error) {
	g, err := e.collision.Geometry(index)
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

func (e *Engine) Geometry(index int) (Geometry, error) {
	return e.collision.Geometry(index)
}

func (e *Engine) NumGeometries() int {
	return e.collision.NumGeometries()
}

func (e *Engine) NewWorkspace() *Workspace {
	return &Workspace{Data: e.model.NewData(), Collision: e.collision.NewData()}
}

func (e *Engine) PoseOfFrame(ws *Workspace, frameName string, q []float64) (Pose, error) {
	if ws == nil || ws.Data == nil {
		return Pose{}, ErrNoWorkspace
	}
	id, err := e.model.FrameID(frameName)
	if err != nil {
		return Pose{}, err
	}
	if err := ws.Data.ForwardKinematics(q); err != nil {
		return Pose{}, err
	}
	return ws.Data.FramePlacement(id)
}

func (e *Engine) PosesOfFrames(ws *Workspace, ids []int, q []float64) ([]Pose, error) {
	if ws == nil || ws.Data == nil {
		return nil, ErrNoWorkspace
	}
	if err := ws.Data.ForwardKinematics(q); err != nil {
		return nil, err
	}
	poses := make([]Pose, len(ids))
	for i, id := range ids {
		p, err := ws.Data.FramePlacement(id)
		if err != nil {
			return nil, err
		}
		poses[i] = p
	}
	return poses, nil
}

func (e *Engine) PlacementsOfGeometries(ws *Workspace, q []float64) ([]Pose, error) {
	if ws == nil || ws.Data == nil {
		return nil, ErrNoWorkspace
	}
	if err := ws.Data.ForwardKinematics(q); err != nil {
		return nil, err
	}

	n := e.collision.NumGeometries()
	if ws.Collision == nil {
		ws.Collision = &CollisionData{}
	}
	if len(ws.Collision.Placements) != n {
		ws.Collision.Placements = make([]Pose, n)
	}

	for i, g := range e.collision.geometries {
		parent, err := ws.Data.FramePlacement(g.ParentFrame)
		if err != nil {
			return nil, errors.Wrapf(err, "placing geometry %q", g.Name)
		}
		ws.Collision.Placements[i] = parent.Compose(g.Placement)
	}
	return ws.Collision.Placements, nil
}

func (e *Engine) DistanceBetween(a Shape, pa Pose, b Shape, pb Pose) (float64, error) {
	d, err := e.narrow.Distance(a, pa, b, pb)
	if err != nil {
		return 0, err
	}
	if !e.signed && d < 0 {
		return 0, nil
	}
	return d, nil
}
