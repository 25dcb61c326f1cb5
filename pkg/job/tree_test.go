package job

import (
	"strings"
	"testing"
)

func TestTreeString(t *testing.T) {
	p, _, _, _, _, _ := buildSample(t)

	got := p.TreeString(TreeOptions{})
	want := strings.Join([]string{
		"Project (project)",
		"├── scene (scene)",
		"│   ├── g1 (group)",
		"│   │   └── leaf (structure)",
		"│   └── g2 (group)",
		"└── capture (capture)",
		"",
	}, "\n")
	if got != want {
		t.Errorf("TreeString() = %q, want %q", got, want)
	}
}

func TestTreeStringOptions(t *testing.T) {
	scene := mustScene(t, "scene")

	plain := scene.TreeString(TreeOptions{HideKind: true})
	if strings.Contains(plain, "(scene)") {
		t.Errorf("HideKind output still shows the kind: %q", plain)
	}

	withID := scene.TreeString(TreeOptions{ShowID: true})
	if !strings.Contains(withID, scene.ID()) {
		t.Errorf("ShowID output misses the id: %q", withID)
	}
}
