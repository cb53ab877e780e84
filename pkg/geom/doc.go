// Package geom provides the 3D vector math and the arrowhead marker geometry
// used by the radial layout.
//
// [Arrowhead] computes a flat isosceles triangle placed near the target end
// of a directed edge. The scene builder calls it with the child position as
// start and the parent position as end, so every marker points from child to
// parent.
package geom
