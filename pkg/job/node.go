package job

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// logger emits the package's non-fatal warnings (structures attached outside
// a scene). It defaults to the process-wide logger; CLIs can redirect it.
var logger = log.Default()

// SetLogger redirects the package's warning output.
func SetLogger(l *log.Logger) { logger = l }

// Record is the flat key/value projection of an entity as it appears in the
// archive manifest. Values are limited to strings, numbers, booleans, string
// and number slices, nested Records and slices of Records.
type Record map[string]any

// Node is implemented by every node kind in this package. The tree
// functionality lives on [NodeBase], which all kinds embed; Record is the
// projection consumed by the archive writer and is extended per kind.
//
// The interface carries an unexported method so the set of kinds stays
// closed: the attach rules in AddChild switch over the Kind tag and must
// know every variant.
type Node interface {
	// Base returns the embedded [NodeBase] carrying the tree state.
	Base() *NodeBase

	// Record projects the node into its manifest representation.
	Record() Record

	// clone builds a new node of the same concrete kind with a fresh
	// identity and copied scalar fields, but no tree relationships.
	clone() Node
}

// GrabStep selects, among the current node's children of the given kind,
// the child at Index (counting only matching children, in insertion order).
type GrabStep struct {
	Kind  Kind
	Index int
}

// NodeBase carries the state shared by all node kinds: identity, type tag,
// display name, spatial transform, the free-form property and geometry maps,
// and the parent/child/ancestor/descendant bookkeeping.
//
// The slices returned by Children, AllDescendants and AllAncestors are live
// views of the node's private caches. Treat them as read-only: mutating them
// in place corrupts the tree invariants. Use AddChild and Clone instead.
type NodeBase struct {
	id         string
	kind       Kind
	name       string
	position   []float64
	rotation   []float64
	properties Record
	geometry   Record

	// this is the node as its concrete kind, so methods on NodeBase can
	// reach the kind-specific clone and Record implementations.
	this Node

	children    []Node
	parents     []Node
	descendants []Node
	ancestors   []Node
}

// init wires up a freshly constructed node. Every kind constructor calls it
// with itself as self. nil position/rotation mean the origin; a fresh slice
// is allocated per call.
func (nb *NodeBase) init(kind Kind, name string, self Node, position, rotation []float64) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if position == nil {
		position = []float64{0, 0, 0}
	}
	if rotation == nil {
		rotation = []float64{0, 0, 0}
	}
	if len(position) != 3 {
		return fmt.Errorf("position: %w", ErrBadVector)
	}
	if len(rotation) != 3 {
		return fmt.Errorf("rotation: %w", ErrBadVector)
	}
	nb.id = uuid.NewString()
	nb.kind = kind
	nb.name = name
	nb.position = slices.Clone(position)
	nb.rotation = slices.Clone(rotation)
	nb.properties = Record{}
	nb.geometry = Record{}
	nb.this = self
	return nil
}

// Base returns nb itself; it satisfies the [Node] interface for every kind
// embedding NodeBase.
func (nb *NodeBase) Base() *NodeBase { return nb }

// ID returns the node's unique identity. It never changes after
// construction; copies receive fresh identities.
func (nb *NodeBase) ID() string { return nb.id }

// Kind returns the node's type tag.
func (nb *NodeBase) Kind() Kind { return nb.kind }

// Name returns the display name.
func (nb *NodeBase) Name() string { return nb.name }

// SetName renames the node. Empty or whitespace-only names are rejected.
func (nb *NodeBase) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	nb.name = name
	return nil
}

// Position returns the node's position [x, y, z] in micrometers.
func (nb *NodeBase) Position() []float64 { return nb.position }

// Rotation returns the node's rotation [psi, theta, phi] in degrees.
func (nb *NodeBase) Rotation() []float64 { return nb.rotation }

// Properties returns the free-form property map serialized with the node.
func (nb *NodeBase) Properties() Record { return nb.properties }

// Geometry returns the free-form geometry map serialized with the node.
func (nb *NodeBase) Geometry() Record { return nb.geometry }

// At sets position and rotation in one call. Both must have exactly three
// components.
func (nb *NodeBase) At(position, rotation []float64) error {
	if len(position) != 3 {
		return fmt.Errorf("position: %w", ErrBadVector)
	}
	if len(rotation) != 3 {
		return fmt.Errorf("rotation: %w", ErrBadVector)
	}
	nb.position = slices.Clone(position)
	nb.rotation = slices.Clone(rotation)
	return nil
}

// Translate shifts the position by [dx, dy, dz].
func (nb *NodeBase) Translate(delta []float64) error {
	if len(delta) != 3 {
		return fmt.Errorf("translation: %w", ErrBadVector)
	}
	for i, d := range delta {
		nb.position[i] += d
	}
	return nil
}

// Rotate adds [dpsi, dtheta, dphi] to the rotation, wrapping into [0, 360).
func (nb *NodeBase) Rotate(delta []float64) error {
	if len(delta) != 3 {
		return fmt.Errorf("rotation: %w", ErrBadVector)
	}
	for i, d := range delta {
		nb.rotation[i] = math.Mod(nb.rotation[i]+d, 360)
		if nb.rotation[i] < 0 {
			nb.rotation[i] += 360
		}
	}
	return nil
}

// Children returns the node's direct children in insertion order.
func (nb *NodeBase) Children() []Node { return nb.children }

// AllDescendants returns every node reachable through children, in
// depth-first pre-order with siblings in insertion order. The slice is
// refreshed eagerly by AddChild; it is never stale.
func (nb *NodeBase) AllDescendants() []Node { return nb.descendants }

// AllAncestors returns every node reachable through parents, nearest first.
// Like AllDescendants it is maintained eagerly on every mutation.
func (nb *NodeBase) AllAncestors() []Node { return nb.ancestors }

// AddChild attaches one or more candidate nodes as children of nb, each
// validated in order against the structural rules: terminal parents reject
// everything, projects can never be children, scenes cannot nest, and a
// node cannot be attached beneath itself. The first violation stops the
// call and is returned; candidates accepted before it remain attached.
//
// After a successful attach every affected node's AllDescendants and
// AllAncestors reflect the new shape; callers never trigger a recompute.
func (nb *NodeBase) AddChild(children ...Node) error {
	for _, child := range children {
		if err := nb.attach(child); err != nil {
			return err
		}
	}
	return nil
}

func (nb *NodeBase) attach(child Node) error {
	if child == nil || child.Base() == nil || child.Base().this == nil {
		return ErrNotANode
	}
	cb := child.Base()
	switch {
	case nb.kind.Terminal():
		return fmt.Errorf("%q (%s): %w", nb.name, nb.kind, ErrTerminalParent)
	case cb.kind == KindProject:
		return fmt.Errorf("%q: %w", cb.name, ErrProjectChild)
	case cb.kind == KindScene && (nb.kind == KindScene || nb.hasAncestorKind(KindScene)):
		return fmt.Errorf("%q under %q: %w", cb.name, nb.name, ErrNestedScene)
	case cb == nb || containsNode(cb.descendants, nb):
		return fmt.Errorf("%q under %q: %w", cb.name, nb.name, ErrCycle)
	}

	cb.parents = append(cb.parents, nb.this)
	nb.children = append(nb.children, child)

	nb.refresh()
	for _, d := range nb.descendants {
		d.Base().refresh()
	}
	for _, a := range cb.ancestors {
		a.Base().refresh()
	}

	if cb.kind == KindStructure && nb.kind != KindScene && !nb.hasAncestorKind(KindScene) {
		logger.Warn("structure attached outside a scene",
			"structure", cb.name, "parent", nb.name)
	}
	return nil
}

// refresh regenerates both relationship caches from the live links.
func (nb *NodeBase) refresh() {
	nb.descendants = nb.generateDescendants()
	nb.ancestors = nb.generateAncestors()
}

func (nb *NodeBase) generateDescendants() []Node {
	var out []Node
	var walk func(n *NodeBase)
	walk = func(n *NodeBase) {
		for _, c := range n.children {
			out = append(out, c)
			walk(c.Base())
		}
	}
	walk(nb)
	return out
}

func (nb *NodeBase) generateAncestors() []Node {
	var out []Node
	queue := []*NodeBase{nb}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range n.parents {
			out = append(out, p)
			queue = append(queue, p.Base())
		}
	}
	return out
}

func (nb *NodeBase) hasAncestorKind(k Kind) bool {
	for _, a := range nb.ancestors {
		if a.Base().kind == k {
			return true
		}
	}
	return false
}

func containsNode(nodes []Node, nb *NodeBase) bool {
	for _, n := range nodes {
		if n.Base() == nb {
			return true
		}
	}
	return false
}

// GrabNode descends from nb one step at a time: each step filters the
// current node's children by kind and picks the child at the step's index
// within that filtered list. It returns an error when a step asks for an
// index past the end of the filtered list.
func (nb *NodeBase) GrabNode(steps ...GrabStep) (Node, error) {
	current := nb.this
	for _, st := range steps {
		var filtered []Node
		for _, c := range current.Base().children {
			if c.Base().kind == st.Kind {
				filtered = append(filtered, c)
			}
		}
		if st.Index < 0 || st.Index >= len(filtered) {
			return nil, fmt.Errorf("grab %s[%d] under %q: only %d matching children",
				st.Kind, st.Index, current.Base().name, len(filtered))
		}
		current = filtered[st.Index]
	}
	return current, nil
}

// GrabAllBFS returns nb and every descendant of the given kind in
// breadth-first order, siblings in insertion order.
func (nb *NodeBase) GrabAllBFS(kind Kind) []Node {
	var out []Node
	queue := []Node{nb.this}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Base().kind == kind {
			out = append(out, n)
		}
		queue = append(queue, n.Base().children...)
	}
	return out
}

// AppendNode attaches n to the deepest descendant of nb, so long linear
// chains can be grown without tracking the current tail. Among equally deep
// branches the earliest-discovered one wins.
func (nb *NodeBase) AppendNode(n Node) error {
	return nb.deepest().Base().AddChild(n)
}

func (nb *NodeBase) deepest() Node {
	best, bestDepth := nb.this, 0
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		if depth > bestDepth {
			best, bestDepth = n, depth
		}
		for _, c := range n.Base().children {
			walk(c, depth+1)
		}
	}
	walk(nb.this, 0)
	return best
}

// Record projects the shared node state. Child nodes appear as their ids;
// this is the only place object references turn into identities. Kind
// implementations extend the returned Record with their own keys.
func (nb *NodeBase) Record() Record {
	ids := make([]string, len(nb.children))
	for i, c := range nb.children {
		ids[i] = c.Base().id
	}
	return Record{
		"type":       string(nb.kind),
		"id":         nb.id,
		"name":       nb.name,
		"position":   slices.Clone(nb.position),
		"rotation":   slices.Clone(nb.rotation),
		"children":   ids,
		"properties": nb.properties,
		"geometry":   nb.geometry,
	}
}
