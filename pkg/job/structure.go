package job

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fbeier/nanoprint/pkg/preset"
	"github.com/fbeier/nanoprint/pkg/resource"
)

// Slicing origin references accepted by printable nodes.
var slicingOrigins = []string{
	"structure_center", "zero", "scene_top", "scene_bottom",
	"structure_top", "structure_bottom", "scene_center",
}

// Lens polynomial conventions.
const (
	PolynomialNormalized = "Normalized"
	PolynomialStandard   = "Standard"
)

// ErrNegativePriority reports a printable node with a priority below zero.
var ErrNegativePriority = errors.New("priority must be zero or greater")

// printCore carries the exposure parameters shared by every printable kind
// (Structure, Text, Lens): the preset reference and the slicing controls.
type printCore struct {
	preset             *preset.Preset
	slicingOrigin      string
	slicingOffset      float64
	priority           int
	exposeIndividually bool
}

func newPrintCore(p *preset.Preset) printCore {
	return printCore{preset: p, slicingOrigin: "scene_bottom"}
}

// Preset returns the exposure preset, or nil when none is assigned.
func (pc *printCore) Preset() *preset.Preset { return pc.preset }

// SetPreset assigns the exposure preset. nil clears it.
func (pc *printCore) SetPreset(p *preset.Preset) { pc.preset = p }

// SlicingOrigin returns the slicing origin reference.
func (pc *printCore) SlicingOrigin() string { return pc.slicingOrigin }

// SetSlicingOrigin sets the slicing origin reference. It must be one of the
// known origin names.
func (pc *printCore) SetSlicingOrigin(origin string) error {
	if !slices.Contains(slicingOrigins, origin) {
		return fmt.Errorf("slicing origin %q: must be one of %v", origin, slicingOrigins)
	}
	pc.slicingOrigin = origin
	return nil
}

// SlicingOffset returns the slicing offset in micrometers.
func (pc *printCore) SlicingOffset() float64 { return pc.slicingOffset }

// SetSlicingOffset sets the slicing offset.
func (pc *printCore) SetSlicingOffset(offset float64) { pc.slicingOffset = offset }

// Priority returns the exposure priority.
func (pc *printCore) Priority() int { return pc.priority }

// SetPriority sets the exposure priority. Negative values are rejected.
func (pc *printCore) SetPriority(p int) error {
	if p < 0 {
		return ErrNegativePriority
	}
	pc.priority = p
	return nil
}

// ExposeIndividually reports whether the node is exposed in its own pass.
func (pc *printCore) ExposeIndividually() bool { return pc.exposeIndividually }

// SetExposeIndividually flips individual exposure.
func (pc *printCore) SetExposeIndividually(v bool) { pc.exposeIndividually = v }

// presetID is the manifest reference to the preset or the empty string.
func (pc *printCore) presetID() string {
	if pc.preset == nil {
		return ""
	}
	return pc.preset.ID
}

// extendRecord adds the shared printable keys to a base record.
func (pc *printCore) extendRecord(rec Record) Record {
	rec["preset"] = pc.presetID()
	rec["slicing_origin_reference"] = pc.slicingOrigin
	rec["slicing_offset"] = pc.slicingOffset
	rec["priority"] = pc.priority
	rec["expose_individually"] = pc.exposeIndividually
	return rec
}

// Structure prints a mesh resource. It is terminal: nothing can be attached
// beneath a structure. Size is the mesh scaling in micrometers per axis,
// serialized as a factor of the mesh's native 100 um extent.
type Structure struct {
	NodeBase
	printCore

	mesh *resource.Mesh
	size []float64
}

// NewStructure builds a structure printing mesh with preset. Either may be
// nil and assigned later; the archive writer warns about unresolved
// references. The default size is 100 um per axis.
func NewStructure(name string, p *preset.Preset, mesh *resource.Mesh) (*Structure, error) {
	s := &Structure{
		printCore: newPrintCore(p),
		mesh:      mesh,
		size:      []float64{100, 100, 100},
	}
	if err := s.init(KindStructure, name, s, nil, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// Mesh returns the printed mesh resource, or nil when none is assigned.
func (s *Structure) Mesh() *resource.Mesh { return s.mesh }

// SetMesh assigns the mesh resource.
func (s *Structure) SetMesh(m *resource.Mesh) { s.mesh = m }

// Size returns the structure's size per axis in micrometers.
func (s *Structure) Size() []float64 { return s.size }

// SetSize sets the structure's size per axis in micrometers.
func (s *Structure) SetSize(size []float64) error {
	if len(size) != 3 {
		return fmt.Errorf("size: %w", ErrBadVector)
	}
	s.size = slices.Clone(size)
	return nil
}

func (s *Structure) Record() Record {
	meshID := ""
	if s.mesh != nil {
		meshID = s.mesh.ID()
	}
	rec := s.NodeBase.Record()
	rec["geometry"] = Record{
		"type":     "mesh",
		"resource": meshID,
		"scale":    []float64{s.size[0] / 100, s.size[1] / 100, s.size[2] / 100},
	}
	return s.extendRecord(rec)
}

func (s *Structure) clone() Node {
	dup := &Structure{
		printCore: s.printCore,
		mesh:      s.mesh,
		size:      slices.Clone(s.size),
	}
	s.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Text prints extruded text instead of a mesh. Also terminal.
type Text struct {
	NodeBase
	printCore

	text     string
	fontSize float64
	height   float64
}

// NewText builds a text structure with 10 um glyphs extruded 5 um.
func NewText(name string, p *preset.Preset, text string) (*Text, error) {
	t := &Text{
		printCore: newPrintCore(p),
		text:      text,
		fontSize:  10,
		height:    5,
	}
	if err := t.init(KindStructure, name, t, nil, nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Text returns the printed text content.
func (t *Text) Text() string { return t.text }

// SetText sets the printed text content.
func (t *Text) SetText(s string) { t.text = s }

// FontSize returns the glyph size in micrometers.
func (t *Text) FontSize() float64 { return t.fontSize }

// SetFontSize sets the glyph size. Must be positive.
func (t *Text) SetFontSize(v float64) error {
	if v <= 0 {
		return fmt.Errorf("font size %v: must be positive", v)
	}
	t.fontSize = v
	return nil
}

// Height returns the extrusion height in micrometers.
func (t *Text) Height() float64 { return t.height }

// SetHeight sets the extrusion height. Must be positive.
func (t *Text) SetHeight(v float64) error {
	if v <= 0 {
		return fmt.Errorf("height %v: must be positive", v)
	}
	t.height = v
	return nil
}

func (t *Text) Record() Record {
	rec := t.NodeBase.Record()
	rec["geometry"] = Record{
		"type":      "text",
		"text":      t.text,
		"font_size": t.fontSize,
		"height":    t.height,
	}
	return t.extendRecord(rec)
}

func (t *Text) clone() Node {
	dup := &Text{
		printCore: t.printCore,
		text:      t.text,
		fontSize:  t.fontSize,
		height:    t.height,
	}
	t.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Lens prints a parametric aspheric lens surface. Also terminal.
type Lens struct {
	NodeBase
	printCore

	radius         float64
	height         float64
	cropBase       bool
	asymmetric     bool
	curvature      float64
	conicConstant  float64
	curvatureY     float64
	conicConstantY float64

	polynomialType     string
	polynomialFactors  []float64
	polynomialFactorsY []float64

	surfaceCompensationFactors  []float64
	surfaceCompensationFactorsY []float64

	radialSegments int
	phiSegments    int
}

// NewLens builds a lens with a 100 um radius and 50 um height and the
// tessellation defaults of 500 radial and 360 phi segments.
func NewLens(name string, p *preset.Preset) (*Lens, error) {
	l := &Lens{
		printCore:      newPrintCore(p),
		radius:         100,
		height:         50,
		curvature:      0.01,
		conicConstant:  0.01,
		curvatureY:     0.01,
		conicConstantY: -1,
		polynomialType: PolynomialNormalized,
		radialSegments: 500,
		phiSegments:    360,
	}
	if err := l.init(KindStructure, name, l, nil, nil); err != nil {
		return nil, err
	}
	return l, nil
}

// Radius returns the lens radius in micrometers.
func (l *Lens) Radius() float64 { return l.radius }

// SetRadius sets the lens radius. Must be positive.
func (l *Lens) SetRadius(v float64) error {
	if v <= 0 {
		return fmt.Errorf("radius %v: must be positive", v)
	}
	l.radius = v
	return nil
}

// Height returns the lens height in micrometers.
func (l *Lens) Height() float64 { return l.height }

// SetHeight sets the lens height. Must be positive.
func (l *Lens) SetHeight(v float64) error {
	if v <= 0 {
		return fmt.Errorf("height %v: must be positive", v)
	}
	l.height = v
	return nil
}

// SetCropBase controls whether the lens base is cropped.
func (l *Lens) SetCropBase(v bool) { l.cropBase = v }

// SetAsymmetric controls whether the Y axis uses its own curvature,
// conic constant and polynomial factors.
func (l *Lens) SetAsymmetric(v bool) { l.asymmetric = v }

// SetSurface sets the curvatures and conic constants for both axes. The Y
// values only take effect on asymmetric lenses.
func (l *Lens) SetSurface(curvature, conicConstant, curvatureY, conicConstantY float64) {
	l.curvature = curvature
	l.conicConstant = conicConstant
	l.curvatureY = curvatureY
	l.conicConstantY = conicConstantY
}

// SetSegments sets the tessellation resolution.
func (l *Lens) SetSegments(radial, phi int) error {
	if radial <= 0 || phi <= 0 {
		return fmt.Errorf("segments %d/%d: must be positive", radial, phi)
	}
	l.radialSegments = radial
	l.phiSegments = phi
	return nil
}

// Polynomial sets the polynomial surface terms. factorsY only applies when
// the lens is asymmetric and is ignored otherwise.
func (l *Lens) Polynomial(typ string, factors, factorsY []float64) error {
	if typ != PolynomialNormalized && typ != PolynomialStandard {
		return fmt.Errorf("polynomial type %q: must be %q or %q",
			typ, PolynomialNormalized, PolynomialStandard)
	}
	l.polynomialType = typ
	l.polynomialFactors = slices.Clone(factors)
	if l.asymmetric {
		l.polynomialFactorsY = slices.Clone(factorsY)
	}
	return nil
}

// SurfaceCompensation sets the surface compensation terms. factorsY only
// applies when the lens is asymmetric.
func (l *Lens) SurfaceCompensation(factors, factorsY []float64) {
	l.surfaceCompensationFactors = slices.Clone(factors)
	if l.asymmetric {
		l.surfaceCompensationFactorsY = slices.Clone(factorsY)
	}
}

func (l *Lens) Record() Record {
	rec := l.NodeBase.Record()
	rec["geometry"] = Record{
		"type":                           "lens",
		"radius":                         l.radius,
		"height":                         l.height,
		"crop_base":                      l.cropBase,
		"asymmetric":                     l.asymmetric,
		"curvature":                      l.curvature,
		"conic_constant":                 l.conicConstant,
		"curvature_y":                    l.curvatureY,
		"conic_constant_y":               l.conicConstantY,
		"polynomial_type":                l.polynomialType,
		"polynomial_factors":             slices.Clone(l.polynomialFactors),
		"polynomial_factors_y":           slices.Clone(l.polynomialFactorsY),
		"surface_compensation_factors":   slices.Clone(l.surfaceCompensationFactors),
		"surface_compensation_factors_y": slices.Clone(l.surfaceCompensationFactorsY),
		"nr_radial_segments":             l.radialSegments,
		"nr_phi_segments":                l.phiSegments,
	}
	return l.extendRecord(rec)
}

func (l *Lens) clone() Node {
	dup := &Lens{
		printCore:                   l.printCore,
		radius:                      l.radius,
		height:                      l.height,
		cropBase:                    l.cropBase,
		asymmetric:                  l.asymmetric,
		curvature:                   l.curvature,
		conicConstant:               l.conicConstant,
		curvatureY:                  l.curvatureY,
		conicConstantY:              l.conicConstantY,
		polynomialType:              l.polynomialType,
		polynomialFactors:           slices.Clone(l.polynomialFactors),
		polynomialFactorsY:          slices.Clone(l.polynomialFactorsY),
		surfaceCompensationFactors:  slices.Clone(l.surfaceCompensationFactors),
		surfaceCompensationFactorsY: slices.Clone(l.surfaceCompensationFactorsY),
		radialSegments:              l.radialSegments,
		phiSegments:                 l.phiSegments,
	}
	l.cloneInto(&dup.NodeBase, dup)
	return dup
}
