package topo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Edge is a one-dimensional entity: a straight segment between two points.
type Edge struct {
	id   string
	A, B r3.Vector
}

var _ Shape = (*Edge)(nil)

// NewEdge creates an edge between two points.
func NewEdge(a, b r3.Vector) *Edge {
	return &Edge{id: newShapeID(), A: a, B: b}
}

func (e *Edge) Kind() Kind { return KindEdge }
func (e *Edge) ID() string { return e.id }

// IsEmpty reports whether the edge has (near) zero length.
func (e *Edge) IsEmpty() bool { return pointsEqual(e.A, e.B) }

func (e *Edge) Copy() Shape { return NewEdge(e.A, e.B) }

// Length returns the segment length.
func (e *Edge) Length() float64 { return e.B.Sub(e.A).Norm() }

func (e *Edge) BBox() (*BBox, error) {
	return newBBoxFromBounds([6]float64{
		math.Min(e.A.X, e.B.X), math.Max(e.A.X, e.B.X),
		math.Min(e.A.Y, e.B.Y), math.Max(e.A.Y, e.B.Y),
		math.Min(e.A.Z, e.B.Z), math.Max(e.A.Z, e.B.Z),
	}), nil
}

func (e *Edge) Center() (r3.Vector, error) {
	return e.A.Add(e.B).Mul(0.5), nil
}

func (e *Edge) Area() float64 { return 0 }

// Equals compares endpoints in either orientation.
func (e *Edge) Equals(other Shape) bool {
	o, ok := other.(*Edge)
	if !ok {
		return false
	}
	return (pointsEqual(e.A, o.A) && pointsEqual(e.B, o.B)) ||
		(pointsEqual(e.A, o.B) && pointsEqual(e.B, o.A))
}

func (e *Edge) Move(d r3.Vector) Shape {
	e.A = e.A.Add(d)
	e.B = e.B.Add(d)
	return e
}

func (e *Edge) Moved(d r3.Vector) Shape { return e.Copy().Move(d) }

func (e *Edge) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	e.A = rotatePoint(e.A, axis, degrees, pivot)
	e.B = rotatePoint(e.B, axis, degrees, pivot)
	return e
}

func (e *Edge) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return e.Copy().Rotate(axis, degrees, pivot)
}

func (e *Edge) Mirror(axis Axis, pivot r3.Vector) Shape {
	e.A = mirrorPoint(e.A, axis, pivot)
	e.B = mirrorPoint(e.B, axis, pivot)
	return e
}

func (e *Edge) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return e.Copy().Mirror(axis, pivot)
}

func (e *Edge) Scale(factor float64, pivot r3.Vector) Shape {
	e.A = scalePoint(e.A, factor, pivot)
	e.B = scalePoint(e.B, factor, pivot)
	return e
}

func (e *Edge) Scaled(factor float64, pivot r3.Vector) Shape {
	return e.Copy().Scale(factor, pivot)
}

func (e *Edge) Vertices() []*Vertex {
	return []*Vertex{NewVertexFromPoint(e.A), NewVertexFromPoint(e.B)}
}

func (e *Edge) Edges() []*Edge { return []*Edge{e} }
func (e *Edge) Faces() []*Face { return nil }

// touches reports whether the edge shares an endpoint with other,
// within ShapeTolerance. Used by wire connectivity grouping.
func (e *Edge) touches(other *Edge) bool {
	return pointsEqual(e.A, other.A) || pointsEqual(e.A, other.B) ||
		pointsEqual(e.B, other.A) || pointsEqual(e.B, other.B)
}

func (e *Edge) ToData() ShapeData {
	return ShapeData{Kind: e.Kind().String(), Coords: [][3]float64{coord(e.A), coord(e.B)}}
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge(%.3f,%.3f,%.3f -> %.3f,%.3f,%.3f)",
		e.A.X, e.A.Y, e.A.Z, e.B.X, e.B.Y, e.B.Z)
}
