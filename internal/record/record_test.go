package record

import (
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

func mustParse(t *testing.T, doc string) *Record {
	t.Helper()
	r, err := Parse([]byte(doc), "mem.json")
	require.NoError(t, err)
	return r
}

func TestLoadResults(t *testing.T) {
	r, err := Load("testdata/nnodes2.json")
	require.NoError(t, err)

	res, err := r.Results()
	require.NoError(t, err)

	want := &Results{
		Name: "nnodes2",
		Weights: Weights{
			GripperPose:         10,
			GripperPoseTerminal: 100,
			StateReg:            0.001,
			StateRegTerminal:    0.01,
			ControlReg:          0.0001,
		},
		MaxIter:        10,
		MaxQPIters:     25,
		TimeCalc:       []float64{0.012, 0.015, 0.011},
		Nnodes:         2,
		Dt:             0.05,
		CollisionPairs: []kinematics.Pair{{A: 0, B: 7}, {A: 2, B: 7}},
		X:              res.X,
		U:              []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, res.X, 28)
	assert.Equal(t, []float64{10, 100, 0.001, 0.01, 0.0001}, res.Weights.Slice())
}

func TestLoadMissingNnodes(t *testing.T) {
	r, err := Load("testdata/missing_nnodes.json")
	require.NoError(t, err, "fields are read lazily")

	res, err := r.Results()
	assert.Nil(t, res)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, KeyNnodes, missing.Field)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.EqualError(t, err, `record: missing required key "Nnodes"`)

	_, err = r.Nnodes()
	assert.True(t, errors.Is(err, ErrMissingField))

	dt, err := r.Dt()
	require.NoError(t, err)
	assert.Equal(t, 0.05, dt)
}

func TestLoadUnreadable(t *testing.T) {
	_, err := Load("testdata/absent.json")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "testdata/absent.json", ioErr.Path)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrParse))
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{"[1, 2, 3]", "null", "42", "{", ""} {
		t.Run(doc, func(t *testing.T) {
			_, err := Parse([]byte(doc), "x.json")
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Empty(t, parseErr.Field)
			assert.True(t, errors.Is(err, ErrParse))
			assert.NotNil(t, errors.Cause(err))
		})
	}

	_, err := Load("testdata/not_object.json")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestAccessorTypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
		call  func(*Record) error
	}{
		{
			name:  "fractional max_iter",
			doc:   `{"max_iter": 10.5}`,
			field: KeyMaxIter,
			call:  func(r *Record) error { _, err := r.MaxIter(); return err },
		},
		{
			name:  "string Nnodes",
			doc:   `{"Nnodes": "2"}`,
			field: KeyNnodes,
			call:  func(r *Record) error { _, err := r.Nnodes(); return err },
		},
		{
			name:  "null dt",
			doc:   `{"dt": null}`,
			field: KeyDt,
			call:  func(r *Record) error { _, err := r.Dt(); return err },
		},
		{
			name:  "four weights",
			doc:   `{"weights": [1, 2, 3, 4]}`,
			field: KeyWeights,
			call:  func(r *Record) error { _, err := r.Weights(); return err },
		},
		{
			name:  "null inside X",
			doc:   `{"X": [1, null, 3]}`,
			field: KeyX,
			call:  func(r *Record) error { _, err := r.X(); return err },
		},
		{
			name:  "U not an array",
			doc:   `{"U": {"a": 1}}`,
			field: KeyU,
			call:  func(r *Record) error { _, err := r.U(); return err },
		},
		{
			name:  "time_calc of strings",
			doc:   `{"time_calc": ["fast"]}`,
			field: KeyTimeCalc,
			call:  func(r *Record) error { _, err := r.TimeCalc(); return err },
		},
		{
			name:  "pair of three",
			doc:   `{"collision_pairs": [[0, 1, 2]]}`,
			field: KeyCollisionPairs,
			call:  func(r *Record) error { _, err := r.CollisionPairs(); return err },
		},
		{
			name:  "fractional pair index",
			doc:   `{"collision_pairs": [[0, 1.5]]}`,
			field: KeyCollisionPairs,
			call:  func(r *Record) error { _, err := r.CollisionPairs(); return err },
		},
		{
			name:  "pair with null",
			doc:   `{"collision_pairs": [[null, 1]]}`,
			field: KeyCollisionPairs,
			call:  func(r *Record) error { _, err := r.CollisionPairs(); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call(mustParse(t, tt.doc))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
			assert.True(t, strings.HasPrefix(err.Error(), `record: field "`+tt.field+`"`))
		})
	}
}

func TestAccessorsMissing(t *testing.T) {
	r := mustParse(t, `{}`)
	calls := map[string]func() error{
		KeyWeights:        func() error { _, err := r.Weights(); return err },
		KeyMaxIter:        func() error { _, err := r.MaxIter(); return err },
		KeyMaxQPIters:     func() error { _, err := r.MaxQPIters(); return err },
		KeyTimeCalc:       func() error { _, err := r.TimeCalc(); return err },
		KeyNnodes:         func() error { _, err := r.Nnodes(); return err },
		KeyDt:             func() error { _, err := r.Dt(); return err },
		KeyCollisionPairs: func() error { _, err := r.CollisionPairs(); return err },
		KeyX:              func() error { _, err := r.X(); return err },
		KeyU:              func() error { _, err := r.U(); return err },
	}
	require.Len(t, calls, len(RequiredKeys))

	for key, call := range calls {
		var missing *MissingFieldError
		require.ErrorAs(t, call(), &missing, key)
		assert.Equal(t, key, missing.Field)
	}
}

func TestTrajectoryMemoised(t *testing.T) {
	r, err := Load("testdata/nnodes2.json")
	require.NoError(t, err)

	dims := traj.DimsFor(7)
	first, err := r.Trajectory(dims)
	require.NoError(t, err)
	require.Equal(t, 2, first.Len())
	assert.Equal(t, traj.Vector{1.0, 1.01, 1.02, 1.03, 1.04, 1.05, 1.06}, first.Nodes[1].Q)

	second, err := r.Trajectory(dims)
	require.NoError(t, err)
	assert.Same(t, first, second)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Trajectory(dims)
			assert.NoError(t, err)
			assert.Same(t, first, got)
		}()
	}
	wg.Wait()
}

func TestTrajectoryShapeErrors(t *testing.T) {
	r, err := Load("testdata/nnodes2.json")
	require.NoError(t, err)

	_, err = r.Trajectory(traj.Dims{State: 5, Config: 2})
	var shape *traj.ShapeError
	require.ErrorAs(t, err, &shape)
	assert.True(t, shape.Multiple)
	assert.Equal(t, 28, shape.Actual)

	// 28 values split into 7 chunks of 4, but the record declares 2 nodes.
	_, err = r.Trajectory(traj.DimsFor(2))
	require.ErrorAs(t, err, &shape)
	assert.False(t, shape.Multiple)
	assert.Equal(t, 8, shape.Expected)
	assert.Equal(t, 28, shape.Actual)
}

func TestEmptyTrajectory(t *testing.T) {
	r := mustParse(t, `{"Nnodes": 0, "X": []}`)
	tr, err := r.Trajectory(traj.DimsFor(7))
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Len())
}

func TestControls(t *testing.T) {
	r, err := Load("testdata/nnodes2.json")
	require.NoError(t, err)

	u, err := r.Controls(7)
	require.NoError(t, err)
	require.Len(t, u, 2)
	assert.Equal(t, traj.Vector{0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.4}, u[1])

	_, err = r.Controls(3)
	assert.True(t, errors.Is(err, traj.ErrShape))
}

func TestDeriveName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"results/scene1/nnodes10fdt50maxit10maxqpiters25.json", "nnodes10fdt50maxit10maxqpiters25"},
		{"run.json", "run"},
		{"/abs/dir/run.yaml", "run.yaml"},
		{"archive.json.json", "archive.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveName(tt.path), tt.path)
	}

	r := mustParse(t, `{}`)
	assert.Equal(t, "mem", r.Name())
	assert.Equal(t, "mem.json", r.Source())
}

func TestKeys(t *testing.T) {
	r := mustParse(t, `{"dt": 1, "X": [], "Nnodes": 0}`)
	assert.Equal(t, []string{"Nnodes", "X", "dt"}, r.Keys())
}
