package kinematics

// Model is the immutable kinematic topology of a robot.
type Model interface {
	Name() string
	ConfigDim() int
	NumFrames() int
	FrameID(name string) (int, error)
	FrameName(id int) (string, error)
	NewData() Data
}

// Data is the scratch buffer of a Model. ForwardKinematics overwrites the
// placement of every frame; FramePlacement reads the last result.
type Data interface {
	ForwardKinematics(q []float64) error
	FramePlacement(id int) (Pose, error)
}
