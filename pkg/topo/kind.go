package topo

// Kind enumerates the topological entity kinds, ordered by dimension.
// The ordinal doubles as the topological rank used by DominantKind.
type Kind int

const (
	KindVertex Kind = iota
	KindEdge
	KindWire
	KindFace
	KindShell
	KindSolid
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindWire:
		return "wire"
	case KindFace:
		return "face"
	case KindShell:
		return "shell"
	case KindSolid:
		return "solid"
	default:
		return "unknown"
	}
}

// Rank returns the topological rank of the kind (vertex lowest).
func (k Kind) Rank() int {
	return int(k)
}

// Axis identifies a principal axis, or none.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}
