package record

import (
	"github.com/san-kum/trajprox/internal/kinematics"
)

const numWeights = 5

// Weights of the optimal control problem, in the order the record stores
// them.
type Weights struct {
	GripperPose         float64 `json:"gripper_pose"`
	GripperPoseTerminal float64 `json:"gripper_pose_terminal"`
	StateReg            float64 `json:"state_reg"`
	StateRegTerminal    float64 `json:"state_reg_terminal"`
	ControlReg          float64 `json:"control_reg"`
}

func weightsFrom(v []float64) Weights {
	return Weights{
		GripperPose:         v[0],
		GripperPoseTerminal: v[1],
		StateReg:            v[2],
		StateRegTerminal:    v[3],
		ControlReg:          v[4],
	}
}

func (w Weights) Slice() []float64 {
	return []float64{w.GripperPose, w.GripperPoseTerminal, w.StateReg, w.StateRegTerminal, w.ControlReg}
}

// Results is a fully decoded snapshot of a Record.
type Results struct {
	Name           string            `json:"name"`
	Weights        Weights           `json:"weights"`
	MaxIter        int               `json:"max_iter"`
	MaxQPIters     int               `json:"max_qp_iters"`
	TimeCalc       []float64         `json:"time_calc"`
	Nnodes         int               `json:"nnodes"`
	Dt             float64           `json:"dt"`
	CollisionPairs []kinematics.Pair `json:"collision_pairs"`
	X              []float64         `json:"-"`
	U              []float64         `json:"-"`
}

// Results decodes every required key. On the first failure it returns nil
// and that error.
func (r *Record) Results() (*Results, error) {
	var (
		res Results
		err error
	)
	res.Name = r.Name()
	if res.Weights, err = r.Weights(); err != nil {
		return nil, err
	}
	if res.MaxIter, err = r.MaxIter(); err != nil {
		return nil, err
	}
	if res.MaxQPIters, err = r.MaxQPIters(); err != nil {
		return nil, err
	}
	if res.TimeCalc, err = r.TimeCalc(); err != nil {
		return nil, err
	}
	if res.Nnodes, err = r.Nnodes(); err != nil {
		return nil, err
	}
	if res.Dt, err = r.Dt(); err != nil {
		return nil, err
	}
	if res.CollisionPairs, err = r.CollisionPairs(); err != nil {
		return nil, err
	}
	if res.X, err = r.X(); err != nil {
		return nil, err
	}
	if res.U, err = r.U(); err != nil {
		return nil, err
	}
	return &res, nil
}
