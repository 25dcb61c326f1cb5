// Package treeviz renders a print job's node tree as a Graphviz diagram.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no graphviz installation is required.
package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fbeier/nanoprint/pkg/job"
)

// Options configures tree diagram rendering.
type Options struct {
	// ShowIDs appends the node identity to each label.
	ShowIDs bool
}

// ToDOT converts the tree rooted at root to Graphviz DOT format. Printable
// nodes (structures, text, lenses) are filled to stand out from the
// grouping and alignment nodes around them.
func ToDOT(root job.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	nodes := append([]job.Node{root}, root.Base().AllDescendants()...)
	for _, n := range nodes {
		attrs := fmtAttrs(n, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Base().ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, c := range n.Base().Children() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Base().ID(), c.Base().ID())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n job.Node, opts Options) []string {
	nb := n.Base()
	label := fmt.Sprintf("%s\n%s", nb.Name(), nb.Kind())
	if opts.ShowIDs {
		label += "\n" + nb.ID()
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if nb.Kind().Terminal() {
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// ToDOTManifest builds the DOT graph from decoded manifest node records
// instead of a live tree, so archives can be visualized without
// reconstructing node objects. Records missing id, name or type are
// skipped; dangling child references render as edges to nowhere and are
// dropped by Graphviz.
func ToDOTManifest(nodes []map[string]any, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, rec := range nodes {
		id, _ := rec["id"].(string)
		name, _ := rec["name"].(string)
		kind, _ := rec["type"].(string)
		if id == "" || name == "" || kind == "" {
			continue
		}
		label := name + "\n" + kind
		if opts.ShowIDs {
			label += "\n" + id
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if job.Kind(kind).Terminal() {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, rec := range nodes {
		id, _ := rec["id"].(string)
		if id == "" {
			continue
		}
		children, _ := rec["children"].([]any)
		for _, c := range children {
			if cid, ok := c.(string); ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", id, cid)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
