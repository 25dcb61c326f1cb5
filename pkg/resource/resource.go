// Package resource models the payload files a print job carries into its
// archive: marker images and printable meshes. Resources are content
// addressed; the archive path of a file is derived from the MD5 digest of
// its bytes, so identical payloads share one archive entry.
package resource

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Resource is a payload file referenced by nodes and serialized into the
// archive manifest.
type Resource interface {
	// ID returns the resource's unique identity.
	ID() string
	// Name returns the display name.
	Name() string
	// SourcePath returns the local file the resource was created from.
	SourcePath() string
	// ArchivePath returns the content-addressed path inside the archive.
	ArchivePath() string
	// Record projects the resource into its manifest representation.
	Record() map[string]any
}

// base carries the state shared by all resource types.
type base struct {
	id          string
	kind        string
	name        string
	sourcePath  string
	archivePath string
}

func newBase(kind, name, sourcePath string) (base, error) {
	if strings.TrimSpace(name) == "" {
		return base{}, fmt.Errorf("resource name must not be empty")
	}
	archivePath, err := GeneratePath(sourcePath)
	if err != nil {
		return base{}, err
	}
	return base{
		id:          uuid.NewString(),
		kind:        kind,
		name:        name,
		sourcePath:  sourcePath,
		archivePath: archivePath,
	}, nil
}

func (b *base) ID() string          { return b.id }
func (b *base) Name() string        { return b.name }
func (b *base) SourcePath() string  { return b.sourcePath }
func (b *base) ArchivePath() string { return b.archivePath }

func (b *base) record() map[string]any {
	return map[string]any{
		"type": b.kind,
		"id":   b.id,
		"name": b.name,
		"path": b.archivePath,
	}
}

// GeneratePath derives the archive path for a local file:
// resources/<md5 of content>/<basename>. The file must exist; a resource
// pointing at a missing file fails here, at construction, not at export.
func GeneratePath(sourcePath string) (string, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("resource file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", sourcePath, err)
	}
	digest := fmt.Sprintf("%x", h.Sum(nil))
	return path.Join("resources", digest, filepath.Base(sourcePath)), nil
}

// Image is a marker image used by marker alignment.
type Image struct {
	base
}

// NewImage builds an image resource from the file at sourcePath.
func NewImage(name, sourcePath string) (*Image, error) {
	b, err := newBase("image_file", name, sourcePath)
	if err != nil {
		return nil, err
	}
	return &Image{base: b}, nil
}

// Record projects the image into its manifest representation.
func (i *Image) Record() map[string]any { return i.record() }

// MeshOptions are the load-time transform and repair settings of a mesh.
type MeshOptions struct {
	Translation []float64 // um
	Rotation    []float64 // deg
	Scale       []float64
	AutoCenter  bool
	EnhanceMesh bool
	// SimplifyMesh reduces the triangle count towards TargetRatio percent.
	SimplifyMesh bool
	TargetRatio  float64
}

// DefaultMeshOptions returns the identity transform with mesh enhancement
// enabled and no simplification.
func DefaultMeshOptions() MeshOptions {
	return MeshOptions{
		Translation: []float64{0, 0, 0},
		Rotation:    []float64{0, 0, 0},
		Scale:       []float64{1, 1, 1},
		EnhanceMesh: true,
		TargetRatio: 100,
	}
}

// Mesh is a printable geometry loaded from an STL file.
type Mesh struct {
	base
	opts MeshOptions

	triangleCount int
}

// NewMesh builds a mesh resource from the STL file at sourcePath and counts
// its triangles.
func NewMesh(name, sourcePath string, opts MeshOptions) (*Mesh, error) {
	for _, v := range [][]float64{opts.Translation, opts.Rotation, opts.Scale} {
		if len(v) != 3 {
			return nil, fmt.Errorf("mesh transform vectors must have three components, got %v", v)
		}
	}
	if opts.TargetRatio < 0 || opts.TargetRatio > 100 {
		return nil, fmt.Errorf("target ratio %v: must be within [0, 100]", opts.TargetRatio)
	}
	b, err := newBase("mesh_file", name, sourcePath)
	if err != nil {
		return nil, err
	}
	count, err := stlTriangleCount(sourcePath)
	if err != nil {
		return nil, err
	}
	opts.Translation = slices.Clone(opts.Translation)
	opts.Rotation = slices.Clone(opts.Rotation)
	opts.Scale = slices.Clone(opts.Scale)
	return &Mesh{base: b, opts: opts, triangleCount: count}, nil
}

// TriangleCount returns the triangle count of the source STL.
func (m *Mesh) TriangleCount() int { return m.triangleCount }

// Options returns the mesh's load-time settings.
func (m *Mesh) Options() MeshOptions { return m.opts }

// Record projects the mesh into its manifest representation.
func (m *Mesh) Record() map[string]any {
	rec := m.record()
	rec["translation"] = slices.Clone(m.opts.Translation)
	rec["auto_center"] = m.opts.AutoCenter
	rec["rotation"] = slices.Clone(m.opts.Rotation)
	rec["scale"] = slices.Clone(m.opts.Scale)
	rec["enhance_mesh"] = m.opts.EnhanceMesh
	rec["simplify_mesh"] = m.opts.SimplifyMesh
	rec["target_ratio"] = m.opts.TargetRatio
	rec["properties"] = map[string]any{
		"original_triangle_count": m.triangleCount,
	}
	return rec
}
