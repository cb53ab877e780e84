package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kaptinlin/jsonrepair"

	errs "github.com/matzehuels/radialtree/pkg/errors"
	"github.com/matzehuels/radialtree/pkg/hierarchy"
)

// entry is the on-disk shape of one node. Parent is kept raw because it
// comes in several shapes.
type entry struct {
	Parent   json.RawMessage `json:"parent"`
	Children []string        `json:"children"`
}

// normalized is the shape written by [Encode].
type normalized struct {
	Parent   []string `json:"parent"`
	Children []string `json:"children"`
}

// Decode reads a hierarchy document from r, keeping the key order of the
// top-level object as document order.
//
// Errors are coded [errs.ErrCodeMalformedSnapshot]. An empty document (no
// bytes at all) decodes to an empty hierarchy. Decode does not check that
// referenced nodes exist; that is left to the layout, which reports dangling
// references with the offending node.
//
// A node name that appears twice in the top-level object is rejected with
// an error wrapping [hierarchy.ErrDuplicateNodeID] rather than letting the
// later entry win, so a hand-edited document never silently loses a node.
func Decode(r io.Reader) (*hierarchy.Hierarchy, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err == io.EOF {
		return hierarchy.New(), nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "decode document")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errs.New(errs.ErrCodeMalformedSnapshot, "document must be a JSON object keyed by node name")
	}

	h := hierarchy.New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "decode document")
		}
		id, _ := tok.(string)

		var e entry
		if err := dec.Decode(&e); err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "node %q", id)
		}
		parents, err := parseParents(e.Parent)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "node %q", id)
		}
		if err := h.AddNode(hierarchy.Node{ID: id, Parents: parents, Children: e.Children}); err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "node %q", id)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "decode document")
	}
	return h, nil
}

// DecodeLenient is like [Decode], but when data is not valid JSON it is
// repaired first. Structural problems (duplicate names, wrong shapes) are not
// repaired.
func DecodeLenient(data []byte) (*hierarchy.Hierarchy, error) {
	if json.Valid(data) || len(bytes.TrimSpace(data)) == 0 {
		return Decode(bytes.NewReader(data))
	}
	repaired, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedSnapshot, err, "repair document")
	}
	return Decode(bytes.NewReader([]byte(repaired)))
}

// parseParents normalizes the parent field. Absent, null and "" mean no
// parent; empty strings inside a list are dropped.
func parseParents(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var p string
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p == "" {
			return nil, nil
		}
		return []string{p}, nil
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parent list: %w", err)
		}
		out := list[:0]
		for _, p := range list {
			if p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parent must be null, a string or a list of strings, got %s", raw)
	}
}

// Encode writes h to w as an indented document in document order, with
// every parent field in list form.
func Encode(w io.Writer, h *hierarchy.Hierarchy) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range h.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return fmt.Errorf("encode %q: %w", id, err)
		}
		n, _ := h.Node(id)
		val, err := json.Marshal(normalized{Parent: n.Parents, Children: n.Children})
		if err != nil {
			return fmt.Errorf("encode %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	out.WriteByte('\n')
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
