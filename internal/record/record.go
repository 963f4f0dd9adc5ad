package record

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/traj"
)

// Keys of the record object.
const (
	KeyWeights        = "weights"
	KeyMaxIter        = "max_iter"
	KeyMaxQPIters     = "max_qp_iters"
	KeyTimeCalc       = "time_calc"
	KeyNnodes         = "Nnodes"
	KeyDt             = "dt"
	KeyCollisionPairs = "collision_pairs"
	KeyX              = "X"
	KeyU              = "U"
)

// RequiredKeys lists every key Results reads, in record order.
var RequiredKeys = []string{
	KeyWeights, KeyMaxIter, KeyMaxQPIters, KeyTimeCalc, KeyNnodes,
	KeyDt, KeyCollisionPairs, KeyX, KeyU,
}

const suffix = ".json"

// Record is an immutable, lazily decoded MPC result.
type Record struct {
	source string
	fields map[string]json.RawMessage

	mu    sync.Mutex
	trajs map[traj.Dims]*traj.Trajectory
}

func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return Parse(data, path)
}

// Parse builds a Record from raw JSON. source is used for naming only.
func Parse(data []byte, source string) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ParseError{Err: err}
	}
	if fields == nil {
		return nil, &ParseError{Err: errors.New("null document")}
	}
	return &Record{source: source, fields: fields, trajs: make(map[traj.Dims]*traj.Trajectory)}, nil
}

// DeriveName returns the last path segment without the record suffix.
func DeriveName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

func (r *Record) Source() string {
	return r.source
}

func (r *Record) Name() string {
	return DeriveName(r.source)
}

// Keys returns the keys present in the record, sorted.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Record) raw(key string) (json.RawMessage, error) {
	v, ok := r.fields[key]
	if !ok {
		return nil, &MissingFieldError{Field: key}
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, &ParseError{Field: key, Err: errors.New("null value")}
	}
	return v, nil
}

func (r *Record) floatField(key string) (float64, error) {
	raw, err := r.raw(key)
	if err != nil {
		return 0, err
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &ParseError{Field: key, Err: err}
	}
	return f, nil
}

func (r *Record) intField(key string) (int, error) {
	f, err := r.floatField(key)
	if err != nil {
		return 0, err
	}
	n, err := toInt(f)
	if err != nil {
		return 0, &ParseError{Field: key, Err: err}
	}
	return n, nil
}

func toInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errors.Errorf("%v is not an integer", f)
	}
	return int(f), nil
}

func (r *Record) floatsField(key string) ([]float64, error) {
	raw, err := r.raw(key)
	if err != nil {
		return nil, err
	}
	var ptrs []*float64
	if err := json.Unmarshal(raw, &ptrs); err != nil {
		return nil, &ParseError{Field: key, Err: err}
	}
	vals := make([]float64, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			return nil, &ParseError{Field: key, Err: errors.Errorf("element %d is null", i)}
		}
		vals[i] = *p
	}
	return vals, nil
}

func (r *Record) Weights() (Weights, error) {
	vals, err := r.floatsField(KeyWeights)
	if err != nil {
		return Weights{}, err
	}
	if len(vals) != numWeights {
		return Weights{}, &ParseError{Field: KeyWeights, Err: errors.Errorf("want %d weights, got %d", numWeights, len(vals))}
	}
	return weightsFrom(vals), nil
}

func (r *Record) MaxIter() (int, error) {
	return r.intField(KeyMaxIter)
}

func (r *Record) MaxQPIters() (int, error) {
	return r.intField(KeyMaxQPIters)
}

// TimeCalc returns the wall-clock seconds of every solve.
func (r *Record) TimeCalc() ([]float64, error) {
	return r.floatsField(KeyTimeCalc)
}

func (r *Record) Nnodes() (int, error) {
	return r.intField(KeyNnodes)
}

func (r *Record) Dt() (float64, error) {
	return r.floatField(KeyDt)
}

func (r *Record) CollisionPairs() ([]kinematics.Pair, error) {
	raw, err := r.raw(KeyCollisionPairs)
	if err != nil {
		return nil, err
	}
	var rows [][]*float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &ParseError{Field: KeyCollisionPairs, Err: err}
	}

	pairs := make([]kinematics.Pair, len(rows))
	for i, row := range rows {
		if len(row) != 2 || row[0] == nil || row[1] == nil {
			return nil, &ParseError{Field: KeyCollisionPairs, Err: errors.Errorf("pair %d is not two indices", i)}
		}
		a, err := toInt(*row[0])
		if err != nil {
			return nil, &ParseError{Field: KeyCollisionPairs, Err: errors.Wrapf(err, "pair %d", i)}
		}
		b, err := toInt(*row[1])
		if err != nil {
			return nil, &ParseError{Field: KeyCollisionPairs, Err: errors.Wrapf(err, "pair %d", i)}
		}
		pairs[i] = kinematics.Pair{A: a, B: b}
	}
	return pairs, nil
}

// X returns a copy of the flat state record.
func (r *Record) X() ([]float64, error) {
	return r.floatsField(KeyX)
}

// U returns a copy of the flat control record.
func (r *Record) U() ([]float64, error) {
	return r.floatsField(KeyU)
}

// Trajectory decodes X for dims and checks it holds exactly Nnodes nodes.
// The result is computed once per dims; callers must not modify it.
func (r *Record) Trajectory(dims traj.Dims) (*traj.Trajectory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trajs[dims]; ok {
		return t, nil
	}

	x, err := r.X()
	if err != nil {
		return nil, err
	}
	n, err := r.Nnodes()
	if err != nil {
		return nil, err
	}
	t, err := traj.Decode(x, dims.State, dims.Config)
	if err != nil {
		return nil, err
	}
	if t.Len() != n {
		return nil, &traj.ShapeError{Field: KeyX, Expected: n * dims.State, Actual: len(x)}
	}

	r.trajs[dims] = t
	return t, nil
}

func (r *Record) Controls(controlDim int) ([]traj.Vector, error) {
	u, err := r.U()
	if err != nil {
		return nil, err
	}
	return traj.Controls(u, controlDim)
}
