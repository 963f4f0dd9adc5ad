// Package analysis summarises distance series and trajectories.
//
//   - [Summarize]: minimum, argmin, mean and threshold violations of a series
//   - [Crossings]: nodes where a series drops below a threshold
//   - [DominantFrequency]: strongest oscillation of a series, to spot chatter
//   - [JointPhase]: (q, v) phase portrait of one joint
//
// # Safety margins
//
// A pair is considered unsafe at every node whose distance is below the
// safety threshold:
//
//	st := analysis.Summarize(values, 5e-3, dt)
//	if st.FirstViolation >= 0 {
//	    // first unsafe node
//	}
package analysis
