// Package traj reshapes the flat state and control arrays of an MPC record
// into ordered per-node vectors.
//
// A state record X is a concatenation of Nnodes chunks of length
// [Dims.State]; the first [Dims.Config] entries of each chunk are the joint
// configuration, the remainder the joint velocity:
//
//	t, err := traj.Decode(x, 14, 7)
//	qs := traj.Configurations(t)
//
// Dimensions are always explicit so the same decoder serves any robot class.
// Decoding is pure reshaping: values are copied, never computed.
package traj
