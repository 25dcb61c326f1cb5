package job

import "strings"

// TreeOptions controls what TreeString prints per node.
type TreeOptions struct {
	// HideKind suppresses the node kind after the name.
	HideKind bool
	// ShowID appends the node id after each entry.
	ShowID bool
}

// TreeString renders the subtree rooted at nb as an indented outline, one
// node per line, children connected with box-drawing branches.
func (nb *NodeBase) TreeString(opts TreeOptions) string {
	var b strings.Builder
	b.WriteString(nb.label(opts))
	b.WriteByte('\n')
	writeBranches(&b, nb.children, "", opts)
	return b.String()
}

func writeBranches(b *strings.Builder, children []Node, prefix string, opts TreeOptions) {
	for i, c := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(c.Base().label(opts))
		b.WriteByte('\n')
		writeBranches(b, c.Base().children, childPrefix, opts)
	}
}

func (nb *NodeBase) label(opts TreeOptions) string {
	var b strings.Builder
	b.WriteString(nb.name)
	if !opts.HideKind {
		b.WriteString(" (")
		b.WriteString(string(nb.kind))
		b.WriteByte(')')
	}
	if opts.ShowID {
		b.WriteString(" [")
		b.WriteString(nb.id)
		b.WriteByte(']')
	}
	return b.String()
}
