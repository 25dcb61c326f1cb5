package job

import (
	"slices"

	"github.com/google/uuid"
)

// Clone duplicates the node. With copyChildren the whole subtree is
// duplicated; every copy, at every depth, carries a fresh identity so the
// clone can live in the same project as the original without id collisions.
// Without copyChildren the copy is childless. Either way the copy starts
// detached: it has no parents and must be attached explicitly.
func (nb *NodeBase) Clone(copyChildren bool) Node {
	dup := nb.this.clone()
	if !copyChildren {
		return dup
	}
	for _, c := range nb.children {
		// Children always copy their own subtrees.
		if err := dup.Base().AddChild(c.Base().Clone(true)); err != nil {
			// The source tree already satisfied every structural rule,
			// and a detached copy cannot violate one the original met.
			panic("job: clone reattach failed: " + err.Error())
		}
	}
	return dup
}

// cloneInto copies the shared state from nb into dst with a fresh identity.
// Kind implementations call it from their clone methods before copying
// their own fields.
func (nb *NodeBase) cloneInto(dst *NodeBase, self Node) {
	dst.id = uuid.NewString()
	dst.kind = nb.kind
	dst.name = nb.name
	dst.position = slices.Clone(nb.position)
	dst.rotation = slices.Clone(nb.rotation)
	dst.properties = cloneRecord(nb.properties)
	dst.geometry = cloneRecord(nb.geometry)
	dst.this = self
}

// cloneRecord deep-copies a Record, descending into nested Records, Record
// slices and the scalar slice types Records are built from.
func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return cloneRecord(t)
	case map[string]any:
		return map[string]any(cloneRecord(t))
	case []Record:
		out := make([]Record, len(t))
		for i, r := range t {
			out[i] = cloneRecord(r)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return slices.Clone(t)
	case []string:
		return slices.Clone(t)
	case [][]float64:
		out := make([][]float64, len(t))
		for i, e := range t {
			out[i] = slices.Clone(e)
		}
		return out
	default:
		return v
	}
}
