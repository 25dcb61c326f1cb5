package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbeier/nanoprint/pkg/archive"
)

// treeCommand creates the tree command for printing an archive's node tree.
func (c *CLI) treeCommand() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "tree <job.nano>",
		Short: "Print a .nano archive's node tree as an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(args[0], showIDs)
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show node ids")
	return cmd
}

func (c *CLI) runTree(path string, showIDs bool) error {
	contents, err := archive.Read(path)
	if err != nil {
		return err
	}
	outline, err := manifestOutline(contents.Nodes, showIDs)
	if err != nil {
		return err
	}
	fmt.Print(outline)
	return nil
}

// manifestOutline rebuilds the tree shape from manifest records and renders
// it one node per line. Roots are records never referenced as a child; a
// well-formed archive has exactly one, the project, but the outline prints
// whatever the manifest holds.
func manifestOutline(nodes []map[string]any, showIDs bool) (string, error) {
	byID := make(map[string]map[string]any, len(nodes))
	referenced := make(map[string]bool)
	for _, rec := range nodes {
		id, _ := rec["id"].(string)
		if id == "" {
			return "", fmt.Errorf("manifest node without id")
		}
		byID[id] = rec
		for _, cid := range childIDs(rec) {
			referenced[cid] = true
		}
	}

	var b strings.Builder
	for _, rec := range nodes {
		id, _ := rec["id"].(string)
		if referenced[id] {
			continue
		}
		b.WriteString(recordLabel(rec, showIDs))
		b.WriteByte('\n')
		writeOutlineBranches(&b, rec, byID, "", showIDs)
	}
	return b.String(), nil
}

func writeOutlineBranches(b *strings.Builder, rec map[string]any, byID map[string]map[string]any, prefix string, showIDs bool) {
	ids := childIDs(rec)
	for i, cid := range ids {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(ids)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		child, ok := byID[cid]
		if !ok {
			b.WriteString(StyleWarning.Render("<dangling " + cid + ">"))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(recordLabel(child, showIDs))
		b.WriteByte('\n')
		writeOutlineBranches(b, child, byID, childPrefix, showIDs)
	}
}

func childIDs(rec map[string]any) []string {
	raw, _ := rec["children"].([]any)
	ids := make([]string, 0, len(raw))
	for _, c := range raw {
		if cid, ok := c.(string); ok {
			ids = append(ids, cid)
		}
	}
	return ids
}

func recordLabel(rec map[string]any, showIDs bool) string {
	name, _ := rec["name"].(string)
	kind, _ := rec["type"].(string)
	label := name + " " + StyleDim.Render("("+kind+")")
	if showIDs {
		id, _ := rec["id"].(string)
		label += " " + StyleDim.Render("["+id+"]")
	}
	return label
}
