package job

// Kind is the type tag of a node. The set of kinds is closed: the archive
// format understood by the print controller only recognizes these tags.
type Kind string

const (
	KindProject            Kind = "project"
	KindScene              Kind = "scene"
	KindGroup              Kind = "group"
	KindArray              Kind = "array"
	KindStructure          Kind = "structure"
	KindCoarseAlignment    Kind = "coarse_alignment"
	KindInterfaceAlignment Kind = "interface_alignment"
	KindMarkerAlignment    Kind = "marker_alignment"
	KindEdgeAlignment      Kind = "edge_alignment"
	KindFiberCoreAlignment Kind = "fiber_core_alignment"
	KindDoseCompensation   Kind = "dose_compensation"
	KindCapture            Kind = "capture"
	KindStageMove          Kind = "stage_move"
	KindWait               Kind = "wait"
)

// Kinds returns all node kinds in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindProject, KindScene, KindGroup, KindArray, KindStructure,
		KindCoarseAlignment, KindInterfaceAlignment, KindMarkerAlignment,
		KindEdgeAlignment, KindFiberCoreAlignment, KindDoseCompensation,
		KindCapture, KindStageMove, KindWait,
	}
}

// Valid reports whether k is one of the recognized node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProject, KindScene, KindGroup, KindArray, KindStructure,
		KindCoarseAlignment, KindInterfaceAlignment, KindMarkerAlignment,
		KindEdgeAlignment, KindFiberCoreAlignment, KindDoseCompensation,
		KindCapture, KindStageMove, KindWait:
		return true
	}
	return false
}

// Terminal reports whether nodes of this kind reject all children.
// Structures (including their text and lens variants, which share the
// structure tag) are leaves of the print-job tree.
func (k Kind) Terminal() bool { return k == KindStructure }

func (k Kind) String() string { return string(k) }
