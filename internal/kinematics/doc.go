// Package kinematics is the seam between proximity analysis and a rigid-body
// kinematics and collision engine.
//
// The analysis code only talks to an [Evaluator]:
//
//   - [Evaluator.PoseOfFrame]: forward kinematics, then the pose of one frame
//   - [Evaluator.PlacementsOfGeometries]: forward kinematics propagated onto
//     every collision geometry
//   - [Evaluator.DistanceBetween]: narrow-phase distance between two placed
//     primitives
//   - [Evaluator.FrameID], [Evaluator.GeometryName]: name/index resolution
//
// [Engine] implements Evaluator on top of any [Model] (forward kinematics
// backend), a [CollisionModel] and a [NarrowPhase]. The package chain
// provides a Model loaded from a YAML robot description.
//
// # Scratch buffers
//
// Model and CollisionModel are immutable topology and may be shared. Every
// evaluation mutates a caller-owned [Workspace]; a Workspace must never be
// used by two goroutines at once. Use [WorkspacePool] to hand private
// workspaces to concurrent workers.
package kinematics
