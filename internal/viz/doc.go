// Package viz renders reports in the terminal.
//
// Static views ([Sparkline], [SummaryTable], [Plot]) return strings for the
// CLI to print. [Inspector] is a Bubble Tea model that steps through the
// nodes of a trajectory and shows the configuration, velocity and every
// distance at the current node.
//
// # Key Bindings
//
//	←/→, h/l  - Previous/next node
//	Home/End  - First/last node
//	T         - Cycle color themes
//	Q         - Quit
package viz
