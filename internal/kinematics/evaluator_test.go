package kinematics

import (
	"sync"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slider is a one-joint model: frame "carriage" translates along X by q[0].
type slider struct{}

func (slider) Name() string   { return "slider" }
func (slider) ConfigDim() int { return 1 }
func (slider) NumFrames() int { return 2 }

func (slider) FrameID(name string) (int, error) {
	switch name {
	case "universe":
		return 0, nil
	case "carriage":
		return 1, nil
	}
	return -1, &LookupError{Kind: "frame", Name: name}
}

func (slider) FrameName(id int) (string, error) {
	switch id {
	case 0:
		return "universe", nil
	case 1:
		return "carriage", nil
	}
	return "", &IndexError{Kind: "frame", Index: id, Len: 2}
}

func (slider) NewData() Data {
	return &sliderData{}
}

type sliderData struct {
	x float64
}

func (d *sliderData) ForwardKinematics(q []float64) error {
	if len(q) != 1 {
		return errors.Errorf("slider wants 1 coordinate, got %d", len(q))
	}
	d.x = q[0]
	return nil
}

func (d *sliderData) FramePlacement(id int) (Pose, error) {
	switch id {
	case 0:
		return Identity(), nil
	case 1:
		return NewPoseFromPoint(r3.Vector{X: d.x}), nil
	}
	return Pose{}, &IndexError{Kind: "frame", Index: id, Len: 2}
}

func newSliderEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cm := NewCollisionModel()
	_, err := cm.Add(Geometry{Name: "tool", ParentFrame: 1, Placement: NewPoseFromPoint(r3.Vector{Z: 0.5}), Shape: Sphere{Radius: 0.1}})
	require.NoError(t, err)
	_, err = cm.Add(Geometry{Name: "wall", ParentFrame: 0, Placement: NewPoseFromPoint(r3.Vector{X: 1, Z: 0.5}), Shape: Sphere{Radius: 0.1}})
	require.NoError(t, err)
	return NewEngine(slider{}, cm, opts...)
}

func TestCollisionModelAdd(t *testing.T) {
	cm := NewCollisionModel()

	id, err := cm.Add(Geometry{Name: "a", Shape: Point{}})
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	_, err = cm.Add(Geometry{Name: "a", Shape: Point{}})
	assert.Error(t, err, "duplicate name")

	_, err = cm.Add(Geometry{Shape: Point{}})
	assert.Error(t, err, "empty name")

	_, err = cm.Add(Geometry{Name: "b"})
	assert.Error(t, err, "nil shape")

	assert.Equal(t, 1, cm.NumGeometries())

	got, err := cm.GeometryID("a")
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = cm.GeometryID("missing")
	var lookup *LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "geometry", lookup.Kind)
	assert.True(t, errors.Is(err, ErrLookup))

	_, err = cm.Geometry(3)
	var idx *IndexError
	require.ErrorAs(t, err, &idx)
	assert.Equal(t, 3, idx.Index)
	assert.Equal(t, 1, idx.Len)
	assert.EqualError(t, err, "kinematics: geometry index 3 out of range [0, 1)")
}

func TestEnginePlacements(t *testing.T) {
	e := newSliderEngine(t)
	ws := e.NewWorkspace()

	placements, err := e.PlacementsOfGeometries(ws, []float64{0.25})
	require.NoError(t, err)
	require.Len(t, placements, 2)
	assertVec(t, r3.Vector{X: 0.25, Z: 0.5}, placements[0].Translation)
	assertVec(t, r3.Vector{X: 1, Z: 0.5}, placements[1].Translation)

	again, err := e.PlacementsOfGeometries(ws, []float64{0.5})
	require.NoError(t, err)
	assert.Same(t, &placements[0], &again[0], "placements live in the workspace")
	assertVec(t, r3.Vector{X: 0.5, Z: 0.5}, again[0].Translation)
}

func TestEnginePoseOfFrame(t *testing.T) {
	e := newSliderEngine(t)
	ws := e.NewWorkspace()

	p, err := e.PoseOfFrame(ws, "carriage", []float64{-0.3})
	require.NoError(t, err)
	assertVec(t, r3.Vector{X: -0.3}, p.Translation)

	_, err = e.PoseOfFrame(ws, "gripper", []float64{0})
	assert.True(t, errors.Is(err, ErrLookup))

	_, err = e.PoseOfFrame(ws, "carriage", []float64{0, 1})
	assert.Error(t, err)

	_, err = e.PoseOfFrame(nil, "carriage", []float64{0})
	assert.True(t, errors.Is(err, ErrNoWorkspace))

	_, err = e.PlacementsOfGeometries(&Workspace{}, []float64{0})
	assert.True(t, errors.Is(err, ErrNoWorkspace))
}

func TestEngineDistanceClamping(t *testing.T) {
	a, b := Sphere{Radius: 0.2}, Sphere{Radius: 0.2}
	pa, pb := Identity(), NewPoseFromPoint(r3.Vector{X: 0.3})

	clamped := newSliderEngine(t)
	d, err := clamped.DistanceBetween(a, pa, b, pb)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	signed := newSliderEngine(t, WithSignedDistance(true))
	d, err = signed.DistanceBetween(a, pa, b, pb)
	require.NoError(t, err)
	assert.InDelta(t, -0.1, d, tol)
}

type fixedNarrowPhase float64

func (f fixedNarrowPhase) Distance(Shape, Pose, Shape, Pose) (float64, error) {
	return float64(f), nil
}

func TestEngineCustomNarrowPhase(t *testing.T) {
	e := newSliderEngine(t, WithNarrowPhase(fixedNarrowPhase(42)))
	d, err := e.DistanceBetween(Point{}, Identity(), Point{}, Identity())
	require.NoError(t, err)
	assert.Equal(t, 42.0, d)
}

func TestEngineGeometryAccessors(t *testing.T) {
	e := newSliderEngine(t)
	assert.Equal(t, 2, e.NumGeometries())

	name, err := e.GeometryName(1)
	require.NoError(t, err)
	assert.Equal(t, "wall", name)

	_, err = e.GeometryName(2)
	assert.True(t, errors.Is(err, ErrIndex))

	g, err := e.Geometry(0)
	require.NoError(t, err)
	assert.Equal(t, 1, g.ParentFrame)

	id, err := e.FrameID("carriage")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestWorkspacePoolConcurrent(t *testing.T) {
	e := newSliderEngine(t)
	pool := NewWorkspacePool(e)

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws := pool.Get()
			defer pool.Put(ws)

			placements, err := e.PlacementsOfGeometries(ws, []float64{float64(i)})
			if err != nil {
				return
			}
			results[i] = placements[0].Translation.X
		}(i)
	}
	wg.Wait()

	for i, x := range results {
		assert.Equal(t, float64(i), x)
	}
	pool.Put(nil)
}

func TestEnginePosesOfFrames(t *testing.T) {
	e := newSliderEngine(t)
	var _ FrameBatcher = e

	poses, err := e.PosesOfFrames(e.NewWorkspace(), []int{1, 0, 1}, []float64{0.7})
	require.NoError(t, err)
	require.Len(t, poses, 3)
	assertVec(t, r3.Vector{X: 0.7}, poses[0].Translation)
	assertVec(t, r3.Vector{}, poses[1].Translation)

	_, err = e.PosesOfFrames(e.NewWorkspace(), []int{5}, []float64{0})
	assert.True(t, errors.Is(err, ErrIndex))

	_, err = e.PosesOfFrames(nil, []int{0}, []float64{0})
	assert.True(t, errors.Is(err, ErrNoWorkspace))
}
