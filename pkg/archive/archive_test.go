package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbeier/nanoprint/pkg/job"
	"github.com/fbeier/nanoprint/pkg/preset"
	"github.com/fbeier/nanoprint/pkg/resource"
)

type fixture struct {
	project   *job.Project
	scene     *job.Scene
	meshPath  string
	imagePath string
	mesh      *resource.Mesh
	image     *resource.Image
}

func buildFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	meshPath := filepath.Join(dir, "part.stl")
	buf := make([]byte, 84+2*50)
	copy(buf, "binary mesh fixture")
	binary.LittleEndian.PutUint32(buf[80:84], 2)
	if err := os.WriteFile(meshPath, buf, 0644); err != nil {
		t.Fatal(err)
	}
	imagePath := filepath.Join(dir, "marker.png")
	if err := os.WriteFile(imagePath, []byte("pixels"), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := resource.NewMesh("part", meshPath, resource.DefaultMeshOptions())
	if err != nil {
		t.Fatal(err)
	}
	image, err := resource.NewImage("marker", imagePath)
	if err != nil {
		t.Fatal(err)
	}
	wp := preset.New("wp")

	p, err := job.NewProject("25x", "IP-n162", "FuSi")
	if err != nil {
		t.Fatal(err)
	}
	p.SetAuthor("fbeier")
	if err := p.LoadPresets(wp); err != nil {
		t.Fatal(err)
	}
	if err := p.LoadResources(mesh, image); err != nil {
		t.Fatal(err)
	}

	scene, err := job.NewScene("scene", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	structure, err := job.NewStructure("tower", wp, mesh)
	if err != nil {
		t.Fatal(err)
	}
	marker, err := job.NewMarkerAligner("marker", image, []float64{5, 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := marker.AddMarker("m0", 0, []float64{0, 0}); err != nil {
		t.Fatal(err)
	}
	iface, err := job.NewInterfaceAligner("interface")
	if err != nil {
		t.Fatal(err)
	}

	if err := p.AddChild(scene); err != nil {
		t.Fatal(err)
	}
	if err := scene.AddChild(marker, iface, structure); err != nil {
		t.Fatal(err)
	}

	return &fixture{
		project:   p,
		scene:     scene,
		meshPath:  meshPath,
		imagePath: imagePath,
		mesh:      mesh,
		image:     image,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	fx := buildFixture(t)
	path := filepath.Join(t.TempDir(), "job.nano")

	if err := Write(fx.project, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(c.Presets) != 1 {
		t.Errorf("Presets = %d, want 1", len(c.Presets))
	}
	if len(c.Resources) != 2 {
		t.Errorf("Resources = %d, want 2", len(c.Resources))
	}
	wantNodes := 1 + len(fx.project.AllDescendants())
	if len(c.Nodes) != wantNodes {
		t.Errorf("Nodes = %d, want %d", len(c.Nodes), wantNodes)
	}
	if c.Nodes[0]["type"] != "project" {
		t.Errorf("first node type = %v, want project", c.Nodes[0]["type"])
	}
	if c.Info.Author != "fbeier" || c.Info.Objective != "25x" {
		t.Errorf("Info = %+v", c.Info)
	}

	if sc := c.Node(fx.scene.ID()); sc == nil || sc["name"] != "scene" {
		t.Errorf("Node(%s) = %v, want the scene record", fx.scene.ID(), sc)
	}
	if missing := c.MissingPayloads(); len(missing) != 0 {
		t.Errorf("MissingPayloads() = %v, want none", missing)
	}

	payloads := make(map[string]bool, len(c.Payloads))
	for _, p := range c.Payloads {
		payloads[p] = true
	}
	if !payloads[fx.mesh.ArchivePath()] || !payloads[fx.image.ArchivePath()] {
		t.Errorf("Payloads = %v, missing resource entries", c.Payloads)
	}
}

func TestWriteAppendsExtension(t *testing.T) {
	fx := buildFixture(t)
	dir := t.TempDir()

	if err := Write(fx.project, filepath.Join(dir, "job")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "job.nano")); err != nil {
		t.Errorf("job.nano not created: %v", err)
	}
}

func TestWriteSkipsMissingResourceFile(t *testing.T) {
	fx := buildFixture(t)
	if err := os.Remove(fx.imagePath); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "job.nano")

	if err := Write(fx.project, path); err != nil {
		t.Fatalf("Write failed on a missing resource file: %v", err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	missing := c.MissingPayloads()
	if len(missing) != 1 || missing[0] != fx.image.ArchivePath() {
		t.Errorf("MissingPayloads() = %v, want the image path", missing)
	}
	// The manifest still references the skipped resource.
	if len(c.Resources) != 2 {
		t.Errorf("Resources = %d, want 2", len(c.Resources))
	}
}

func TestWriteManifestDeterministic(t *testing.T) {
	fx := buildFixture(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a.nano")
	second := filepath.Join(dir, "b.nano")

	if err := Write(fx.project, first); err != nil {
		t.Fatal(err)
	}
	if err := Write(fx.project, second); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(zipEntry(t, first, "__main__.toml"), zipEntry(t, second, "__main__.toml")) {
		t.Error("two writes of the same project produced different manifests")
	}
}

func zipEntry(t *testing.T, path, name string) []byte {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	t.Fatalf("entry %s not found in %s", name, path)
	return nil
}

func TestWriteNilProject(t *testing.T) {
	if err := Write(nil, filepath.Join(t.TempDir(), "job.nano")); err == nil {
		t.Error("Write accepted a nil project")
	}
}

func TestReadRejectsIncompleteArchive(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.nano")
	if err := os.WriteFile(plain, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(plain); err == nil {
		t.Error("Read accepted a non-zip file")
	}

	// A zip without the manifest is rejected too.
	noManifest := filepath.Join(dir, "nomanifest.nano")
	f, err := os.Create(noManifest)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("project_info.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = Read(noManifest)
	if err == nil || !strings.Contains(err.Error(), "__main__.toml") {
		t.Errorf("Read error = %v, want a missing manifest error", err)
	}
}
