// Package layout computes the 3D radial tree layout of a hierarchy.
//
// The layout is a pure function of a [hierarchy.Hierarchy] snapshot and runs
// in three steps:
//
//  1. [AssignLevels] gives every node reachable from a root its breadth-first
//     depth. Roots are nodes with an empty parents list.
//  2. [ComputePositions] turns depths into coordinates. All roots sit at the
//     shared center (0, 0, maxLevel). Every other node sits on a circle of
//     radius RadiusScale·depth at height maxLevel − depth, at an angle
//     derived from its parent of record.
//  3. [Build] runs both steps and assembles a [Scene]: placed nodes, one line
//     segment per parent → child relation and one arrowhead marker per edge,
//     pointing from the child to the parent.
//
// # Angular Spread
//
// Each root receives a reference angle 2π·i/rootCount, where i is its index
// among the roots in document order. A node with k > 1 siblings is placed at
//
//	parentAngle − Spread/2 + Spread·index/(k−1)
//
// where index is its position in the parent's children list; a lone child
// inherits the parent's angle exactly. Spread defaults to π/4. The stored
// children order therefore fixes the angular order of siblings.
//
// # Failure Policy
//
// A snapshot that references unknown nodes, or that has nodes but no root,
// fails the pass with a coded error. Nodes unreachable from any root are left
// out of the positions and listed in [Scene.Disconnected]. Edges whose
// endpoints coincide keep their segment but get no arrowhead; they are listed
// in [Scene.Skipped].
//
// # Determinism
//
// Output depends only on the snapshot and the options. Maps are never
// iterated to produce ordered output; every list follows document order or
// children order.
package layout
