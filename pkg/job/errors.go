package job

import "errors"

var (
	// ErrEmptyName is returned when a node is constructed or renamed with a
	// name that is empty or contains only whitespace.
	ErrEmptyName = errors.New("node name must not be empty")

	// ErrBadVector is returned when a position, rotation or translation does
	// not have exactly three components.
	ErrBadVector = errors.New("vector must have exactly three components")

	// ErrNotANode is returned by [NodeBase.AddChild] when a candidate child
	// is nil or was not built through one of the package constructors.
	ErrNotANode = errors.New("child is not an initialized node")

	// ErrTerminalParent is returned by [NodeBase.AddChild] when the receiver
	// is a structure (or text/lens) node. Structures are terminal.
	ErrTerminalParent = errors.New("structure nodes cannot have children")

	// ErrProjectChild is returned by [NodeBase.AddChild] when the candidate
	// is a project node. Projects are always roots.
	ErrProjectChild = errors.New("a project node cannot be a child")

	// ErrNestedScene is returned by [NodeBase.AddChild] when attaching a
	// scene beneath a node that already sits inside a scene.
	ErrNestedScene = errors.New("nested scenes are not allowed")

	// ErrCycle is returned by [NodeBase.AddChild] when the receiver is the
	// candidate itself or one of its descendants, so the attach would close
	// a cycle.
	ErrCycle = errors.New("attach would create a cycle")
)
