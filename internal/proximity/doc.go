// Package proximity drives a decoded trajectory through a kinematics
// Evaluator and produces named distance series: one per declared collision
// pair and one per tracked target.
//
// Forward kinematics and placement propagation run once per node; every
// pair query at that node reuses the same placements. Labels are resolved
// before the first node is evaluated, so lookup and index errors surface
// without any kinematics work. No partial series is ever returned.
package proximity
