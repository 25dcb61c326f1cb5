package cli

import (
	"strings"
	"testing"
)

func TestManifestOutline(t *testing.T) {
	nodes := []map[string]any{
		{"id": "p1", "name": "Project", "type": "project", "children": []any{"s1"}},
		{"id": "s1", "name": "scene", "type": "scene", "children": []any{"t1", "ghost"}},
		{"id": "t1", "name": "tower", "type": "structure"},
	}

	outline, err := manifestOutline(nodes, false)
	if err != nil {
		t.Fatalf("manifestOutline failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(outline, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("outline has %d lines, want 4:\n%s", len(lines), outline)
	}
	if !strings.HasPrefix(lines[0], "Project") {
		t.Errorf("first line = %q, want the project root", lines[0])
	}
	if !strings.Contains(lines[2], "├── ") || !strings.Contains(lines[2], "tower") {
		t.Errorf("tower line = %q, want a branch connector", lines[2])
	}
	if !strings.Contains(lines[3], "<dangling ghost>") {
		t.Errorf("dangling line = %q, want a dangling marker", lines[3])
	}
}

func TestManifestOutlineShowIDs(t *testing.T) {
	nodes := []map[string]any{
		{"id": "p1", "name": "Project", "type": "project"},
	}
	outline, err := manifestOutline(nodes, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(outline, "p1") {
		t.Errorf("outline %q misses the id", outline)
	}
}

func TestManifestOutlineMultipleRoots(t *testing.T) {
	nodes := []map[string]any{
		{"id": "a", "name": "first", "type": "group"},
		{"id": "b", "name": "second", "type": "group"},
	}
	outline, err := manifestOutline(nodes, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(outline, "first") || !strings.Contains(outline, "second") {
		t.Errorf("outline %q should print every root", outline)
	}
}

func TestManifestOutlineRejectsMissingID(t *testing.T) {
	nodes := []map[string]any{{"name": "broken", "type": "group"}}
	if _, err := manifestOutline(nodes, false); err == nil {
		t.Error("manifestOutline accepted a record without an id")
	}
}
