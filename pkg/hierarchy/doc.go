// Package hierarchy provides the node snapshot consumed by the radial layout.
//
// A [Hierarchy] is a forest of named nodes. Each node records an ordered list
// of parents and an ordered list of children; the children order is the
// display order used by the layout. Relations are stored as an index keyed by
// node ID rather than as pointers between nodes, so back-references never form
// ownership cycles.
//
// # Document Order
//
// A hierarchy remembers the order in which node IDs were added. Stores
// populate it in the order the IDs appear in the persisted document, and the
// layout uses it to order roots, which fixes each root's reference angle.
//
// # Multiple Parents
//
// Storage allows several parents per node. Layout honours only the first
// entry, the parent of record. This is a limitation of the radial algorithm,
// not a merge policy: no attempt is made to combine angles of several parents.
//
// # Editing
//
// [Merge] applies a [LinkRequest] and [Unlink] removes one relation. Both are
// copy-on-write: the input hierarchy is never modified, so a snapshot handed
// to a layout pass stays stable while the store is edited.
//
// # Validation
//
// Stores accept documents whose relations reference missing nodes so that
// they can still be edited and repaired. [Hierarchy.Validate] reports the
// first dangling reference; the layout refuses to run on such a snapshot.
package hierarchy
