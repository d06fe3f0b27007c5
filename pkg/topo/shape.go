package topo

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// ShapeTolerance is the epsilon below which a dimension counts as degenerate
// and two points count as coincident.
const ShapeTolerance = 1e-6

// Tolerance2D is the looser epsilon used to classify a bounding box as flat.
// Kernel output for planar shapes carries more noise than point coincidence
// checks, so flatness detection needs more slack.
const Tolerance2D = 0.4

// Shape is the capability surface shared by all six entity kinds.
// Collection and BBox depend only on this interface, never on concrete
// kinds, except where 2D/3D side selection explicitly branches.
//
// Transform verbs come in pairs: the bare verb mutates the receiver and
// returns it; the past-tense verb clones first and leaves the receiver
// untouched. Call sites rely on the name to signal aliasing.
type Shape interface {
	Kind() Kind
	// ID is the structural identity hash of the entity. It is assigned at
	// creation, survives in-place mutation, and is refreshed by Copy.
	ID() string
	IsEmpty() bool
	Copy() Shape

	BBox() (*BBox, error)
	Center() (r3.Vector, error)
	Area() float64
	// Equals reports geometric equality, a strictly stronger notion than
	// identity: two independently built shapes with the same geometry are
	// equal but have different IDs.
	Equals(other Shape) bool

	Move(d r3.Vector) Shape
	Moved(d r3.Vector) Shape
	Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape
	Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape
	Mirror(axis Axis, pivot r3.Vector) Shape
	Mirrored(axis Axis, pivot r3.Vector) Shape
	Scale(factor float64, pivot r3.Vector) Shape
	Scaled(factor float64, pivot r3.Vector) Shape

	// Boundary extraction. Higher-order entities expose their own
	// sub-entities; a vertex returns itself under Vertices.
	Vertices() []*Vertex
	Edges() []*Edge
	Faces() []*Face

	ToData() ShapeData
	String() string
}

// ShapeData is the serializable form of an entity, used by Collection.ToData.
type ShapeData struct {
	Kind     string       `json:"kind"`
	Coords   [][3]float64 `json:"coords,omitempty"`
	Bounds   *[6]float64  `json:"bounds,omitempty"`
	Children []ShapeData  `json:"children,omitempty"`
}

// ---------------------------------------------------------------------------
// Point arithmetic helpers shared by the entity kinds
// ---------------------------------------------------------------------------

// newShapeID mints a structural identity hash for a freshly created entity.
func newShapeID() string {
	return uuid.NewString()
}

// pointsEqual reports coincidence within ShapeTolerance.
func pointsEqual(a, b r3.Vector) bool {
	return a.Sub(b).Norm() <= ShapeTolerance
}

func coord(p r3.Vector) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// rotatePoint rotates p by degrees around the principal axis through pivot.
func rotatePoint(p r3.Vector, axis Axis, degrees float64, pivot r3.Vector) r3.Vector {
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	d := p.Sub(pivot)
	var r r3.Vector
	switch axis {
	case AxisX:
		r = r3.Vector{X: d.X, Y: d.Y*cos - d.Z*sin, Z: d.Y*sin + d.Z*cos}
	case AxisY:
		r = r3.Vector{X: d.X*cos + d.Z*sin, Y: d.Y, Z: -d.X*sin + d.Z*cos}
	case AxisZ:
		r = r3.Vector{X: d.X*cos - d.Y*sin, Y: d.X*sin + d.Y*cos, Z: d.Z}
	default:
		r = d
	}
	return r.Add(pivot)
}

// mirrorPoint reflects p across the plane normal to axis through pivot.
func mirrorPoint(p r3.Vector, axis Axis, pivot r3.Vector) r3.Vector {
	d := p.Sub(pivot)
	switch axis {
	case AxisX:
		d.X = -d.X
	case AxisY:
		d.Y = -d.Y
	case AxisZ:
		d.Z = -d.Z
	}
	return d.Add(pivot)
}

// scalePoint scales p uniformly about pivot.
func scalePoint(p r3.Vector, factor float64, pivot r3.Vector) r3.Vector {
	return p.Sub(pivot).Mul(factor).Add(pivot)
}

// axisVector returns the unit vector of a principal axis.
func axisVector(axis Axis) r3.Vector {
	switch axis {
	case AxisX:
		return r3.Vector{X: 1}
	case AxisY:
		return r3.Vector{Y: 1}
	case AxisZ:
		return r3.Vector{Z: 1}
	}
	return r3.Vector{}
}

// axisValue extracts the coordinate of p along a principal axis.
func axisValue(p r3.Vector, axis Axis) float64 {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	case AxisZ:
		return p.Z
	}
	return 0
}
