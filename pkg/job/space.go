package job

import (
	"errors"
	"fmt"
	"slices"
)

// Array grid conventions.
const (
	OrderLexical = "Lexical"
	OrderMeander = "Meander"

	ShapeRectangular = "Rectangular"
	ShapeRound       = "Round"
)

// ErrBadGrid reports an array grid with a count or spacing that is not a
// pair, or a count that is not strictly positive.
var ErrBadGrid = errors.New("grid count and spacing must be pairs, count positive")

// Scene is the coordinate frame printable structures live in. Scenes cannot
// contain other scenes, directly or transitively.
type Scene struct {
	NodeBase

	writingDirectionUpward bool
}

// NewScene builds a scene at the given position and rotation. nil vectors
// mean the origin.
func NewScene(name string, position, rotation []float64) (*Scene, error) {
	s := &Scene{writingDirectionUpward: true}
	if err := s.init(KindScene, name, s, position, rotation); err != nil {
		return nil, err
	}
	return s, nil
}

// WritingDirectionUpward reports whether the scene writes bottom-up.
func (s *Scene) WritingDirectionUpward() bool { return s.writingDirectionUpward }

// SetWritingDirectionUpward flips the scene's writing direction.
func (s *Scene) SetWritingDirectionUpward(up bool) { s.writingDirectionUpward = up }

func (s *Scene) Record() Record {
	rec := s.NodeBase.Record()
	rec["writing_direction_upward"] = s.writingDirectionUpward
	return rec
}

func (s *Scene) clone() Node {
	dup := &Scene{writingDirectionUpward: s.writingDirectionUpward}
	s.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Group is a plain transform container with no behavior of its own.
type Group struct {
	NodeBase
}

// NewGroup builds a group at the given position and rotation.
func NewGroup(name string, position, rotation []float64) (*Group, error) {
	g := &Group{}
	if err := g.init(KindGroup, name, g, position, rotation); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) clone() Node {
	dup := &Group{}
	g.cloneInto(&dup.NodeBase, dup)
	return dup
}

// Array replicates its subtree over a grid. Count is the number of grid
// points per axis, Spacing the grid pitch in micrometers.
type Array struct {
	NodeBase

	count   []int
	spacing []float64
	order   string
	shape   string
}

// NewArray builds an array with a 5x5 grid at 100 um pitch, lexical order
// and rectangular shape.
func NewArray(name string, position, rotation []float64) (*Array, error) {
	a := &Array{
		count:   []int{5, 5},
		spacing: []float64{100, 100},
		order:   OrderLexical,
		shape:   ShapeRectangular,
	}
	if err := a.init(KindArray, name, a, position, rotation); err != nil {
		return nil, err
	}
	return a, nil
}

// Count returns the grid point count per axis.
func (a *Array) Count() []int { return a.count }

// Spacing returns the grid pitch per axis in micrometers.
func (a *Array) Spacing() []float64 { return a.spacing }

// Order returns the traversal order, OrderLexical or OrderMeander.
func (a *Array) Order() string { return a.order }

// Shape returns the grid shape, ShapeRectangular or ShapeRound.
func (a *Array) Shape() string { return a.shape }

// SetGrid sets count and spacing together. Both must be pairs and every
// count must be positive.
func (a *Array) SetGrid(count []int, spacing []float64) error {
	if len(count) != 2 || len(spacing) != 2 {
		return ErrBadGrid
	}
	for _, c := range count {
		if c <= 0 {
			return ErrBadGrid
		}
	}
	a.count = slices.Clone(count)
	a.spacing = slices.Clone(spacing)
	return nil
}

// SetOrder sets the grid traversal order.
func (a *Array) SetOrder(order string) error {
	if order != OrderLexical && order != OrderMeander {
		return fmt.Errorf("array order %q: must be %q or %q", order, OrderLexical, OrderMeander)
	}
	a.order = order
	return nil
}

// SetShape sets the grid shape.
func (a *Array) SetShape(shape string) error {
	if shape != ShapeRectangular && shape != ShapeRound {
		return fmt.Errorf("array shape %q: must be %q or %q", shape, ShapeRectangular, ShapeRound)
	}
	a.shape = shape
	return nil
}

func (a *Array) Record() Record {
	rec := a.NodeBase.Record()
	rec["count"] = slices.Clone(a.count)
	rec["spacing"] = slices.Clone(a.spacing)
	rec["order"] = a.order
	rec["shape"] = a.shape
	return rec
}

func (a *Array) clone() Node {
	dup := &Array{
		count:   slices.Clone(a.count),
		spacing: slices.Clone(a.spacing),
		order:   a.order,
		shape:   a.shape,
	}
	a.cloneInto(&dup.NodeBase, dup)
	return dup
}
