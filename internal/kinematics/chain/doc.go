// Package chain is a kinematics backend for tree-structured robots described
// in YAML.
//
// A description lists frames parent-first. Each frame is attached to its
// parent through a fixed origin followed by an optional joint; actuated
// joints (revolute, prismatic) consume one configuration entry each, in
// declaration order:
//
//	name: arm
//	frames:
//	  - name: link1
//	    parent: universe
//	    joint: revolute
//	    axis: [0, 0, 1]
//	    origin: {xyz: [0, 0, 0.3]}
//	geometries:
//	  - name: link1_capsule
//	    frame: link1
//	    shape: {type: capsule, radius: 0.05, length: 0.2}
//
// The root frame "universe" always exists with index 0. Descriptions shipped
// with the binary are opened as "builtin:<name>", e.g. "builtin:panda".
package chain
