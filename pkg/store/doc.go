// Package store loads and saves hierarchy documents.
//
// # Document Format
//
// A hierarchy document is a JSON object keyed by node name. Key order is
// significant: it is the document order that decides root order and the
// order in which nodes are laid out.
//
//	{
//	  "A": {"parent": [], "children": ["B", "C"]},
//	  "B": {"parent": ["A"], "children": []},
//	  "C": {"parent": "A"}
//	}
//
// The "parent" field may be absent, null, a string or a list of strings.
// All four shapes are normalized into an ordered list on load. An absent or
// null "children" field is an empty list. [Encode] always writes the
// normalized list form.
//
// # Backends
//
// [FileStore] keeps the document in a single JSON file and writes it
// atomically. A missing file loads as an empty hierarchy. With [Lenient],
// hand-edited files with trailing commas, single quotes or similar slips are
// repaired before decoding.
//
// [MongoStore] keeps one MongoDB document per node, with a sequence number
// that preserves document order.
//
// Use [Open] to construct the backend selected by [Options].
package store
