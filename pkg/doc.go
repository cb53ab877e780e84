// Package pkg provides the libraries behind radialtree, a 3D radial layout
// for hierarchies.
//
// # Overview
//
// Radialtree places every node of a hierarchy in 3D space. Roots sit at the
// apex, each generation one level lower, and siblings fan out by angle around
// the vertical axis. The pkg directory is organized into four areas:
//
//  1. Core - [hierarchy], [layout], [geom]: pure data and geometry, no I/O
//  2. Persistence - [store], [cache]: documents and computed results
//  3. Rendering - [render/radial], [render/nodelink], [render]
//  4. Orchestration - [pipeline], [config], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	hierarchy document (file or MongoDB)
//	         ↓
//	    [store] package (decode, normalize legacy shapes)
//	         ↓
//	    [hierarchy] package (immutable snapshot)
//	         ↓
//	    [layout] package (levels → angles → positions → arrows)
//	         ↓
//	    [render/radial] package (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/radialtree/pkg/hierarchy"
//	    "github.com/matzehuels/radialtree/pkg/layout"
//	    "github.com/matzehuels/radialtree/pkg/render/radial"
//	)
//
//	h, _ := hierarchy.Merge(hierarchy.New(), hierarchy.LinkRequest{
//	    ParentID: "A",
//	    ChildIDs: []string{"B", "C"},
//	})
//	scene, _ := layout.Build(h, layout.DefaultOptions())
//	svg := radial.RenderSVG(scene)
//
// # Main Packages
//
// [hierarchy] - Parent/child snapshot with document order, plus the
// copy-on-write [hierarchy.Merge] and [hierarchy.Unlink] edits.
//
// [layout] - Level assignment by breadth-first search from the roots, radial
// angle and position computation, and scene assembly.
//
// [geom] - 3D vectors and isosceles arrowhead triangles.
//
// [store] - Document persistence: a JSON file (optionally repaired on load)
// or a MongoDB collection.
//
// [cache] - Scene and artifact cache with file, Redis and null backends.
//
// [pipeline] - load → layout → render with caching, used by the CLI, the
// HTTP server and the watch loop.
//
// [render/radial] - Orthographic rendering of a scene.
//
// [render/nodelink] - Flat Graphviz diagrams of the hierarchy.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//
// Mongo and Redis tests run only when RADIALTREE_TEST_MONGO_URI or
// RADIALTREE_TEST_REDIS_ADDR is set.
//
// [render/radial]: https://pkg.go.dev/github.com/matzehuels/radialtree/pkg/render/radial
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/radialtree/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/matzehuels/radialtree/pkg/errors
package pkg
