package topo

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Vertex is a zero-dimensional entity: a single point in space.
type Vertex struct {
	id string
	P  r3.Vector
}

var _ Shape = (*Vertex)(nil)

// NewVertex creates a vertex at (x, y, z).
func NewVertex(x, y, z float64) *Vertex {
	return &Vertex{id: newShapeID(), P: r3.Vector{X: x, Y: y, Z: z}}
}

// NewVertexFromPoint creates a vertex at p.
func NewVertexFromPoint(p r3.Vector) *Vertex {
	return &Vertex{id: newShapeID(), P: p}
}

func (v *Vertex) Kind() Kind    { return KindVertex }
func (v *Vertex) ID() string    { return v.id }
func (v *Vertex) IsEmpty() bool { return false }

func (v *Vertex) Copy() Shape {
	return NewVertexFromPoint(v.P)
}

func (v *Vertex) BBox() (*BBox, error) {
	return newBBoxFromBounds([6]float64{v.P.X, v.P.X, v.P.Y, v.P.Y, v.P.Z, v.P.Z}), nil
}

func (v *Vertex) Center() (r3.Vector, error) { return v.P, nil }

func (v *Vertex) Area() float64 { return 0 }

func (v *Vertex) Equals(other Shape) bool {
	o, ok := other.(*Vertex)
	return ok && pointsEqual(v.P, o.P)
}

func (v *Vertex) Move(d r3.Vector) Shape {
	v.P = v.P.Add(d)
	return v
}

func (v *Vertex) Moved(d r3.Vector) Shape { return v.Copy().Move(d) }

func (v *Vertex) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	v.P = rotatePoint(v.P, axis, degrees, pivot)
	return v
}

func (v *Vertex) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return v.Copy().Rotate(axis, degrees, pivot)
}

func (v *Vertex) Mirror(axis Axis, pivot r3.Vector) Shape {
	v.P = mirrorPoint(v.P, axis, pivot)
	return v
}

func (v *Vertex) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return v.Copy().Mirror(axis, pivot)
}

func (v *Vertex) Scale(factor float64, pivot r3.Vector) Shape {
	v.P = scalePoint(v.P, factor, pivot)
	return v
}

func (v *Vertex) Scaled(factor float64, pivot r3.Vector) Shape {
	return v.Copy().Scale(factor, pivot)
}

func (v *Vertex) Vertices() []*Vertex { return []*Vertex{v} }
func (v *Vertex) Edges() []*Edge      { return nil }
func (v *Vertex) Faces() []*Face      { return nil }

func (v *Vertex) ToData() ShapeData {
	return ShapeData{Kind: v.Kind().String(), Coords: [][3]float64{coord(v.P)}}
}

func (v *Vertex) String() string {
	return fmt.Sprintf("Vertex(%.3f, %.3f, %.3f)", v.P.X, v.P.Y, v.P.Z)
}
