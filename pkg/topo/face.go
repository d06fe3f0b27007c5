package topo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Face is a two-dimensional entity: a planar polygon given by its corner
// points in boundary order.
type Face struct {
	id      string
	corners []r3.Vector
}

var _ Shape = (*Face)(nil)

// NewFace creates a face from corner points in boundary order.
func NewFace(corners ...r3.Vector) (*Face, error) {
	if len(corners) < 3 {
		return nil, errors.Errorf("face needs at least 3 corners, got %d", len(corners))
	}
	return &Face{id: newShapeID(), corners: corners}, nil
}

// NewRectFace creates an axis-aligned rectangle face spanning two corner
// points that share exactly one axis-aligned plane.
func NewRectFace(a, b r3.Vector) (*Face, error) {
	min := r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	max := r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	spans := [3]float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z}

	flat := AxisNone
	flatCount := 0
	for i, s := range spans {
		if s <= ShapeTolerance {
			flat = Axis(i + 1)
			flatCount++
		}
	}
	if flatCount != 1 {
		return nil, errors.Errorf("rectangle corners must span exactly one plane, %d axes are flat", flatCount)
	}

	var corners []r3.Vector
	switch flat {
	case AxisZ:
		corners = []r3.Vector{
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: min.Z},
		}
	case AxisY:
		corners = []r3.Vector{
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: min.Z},
			{X: max.X, Y: min.Y, Z: max.Z},
			{X: min.X, Y: min.Y, Z: max.Z},
		}
	default: // AxisX
		corners = []r3.Vector{
			{X: min.X, Y: min.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: min.Z},
			{X: min.X, Y: max.Y, Z: max.Z},
			{X: min.X, Y: min.Y, Z: max.Z},
		}
	}
	return &Face{id: newShapeID(), corners: corners}, nil
}

func (f *Face) Kind() Kind { return KindFace }
func (f *Face) ID() string { return f.id }

// IsEmpty reports whether the polygon has (near) zero area.
func (f *Face) IsEmpty() bool { return f.Area() <= ShapeTolerance }

func (f *Face) Copy() Shape {
	corners := make([]r3.Vector, len(f.corners))
	copy(corners, f.corners)
	return &Face{id: newShapeID(), corners: corners}
}

// Corners returns the boundary corner points in order.
func (f *Face) Corners() []r3.Vector { return f.corners }

// Normal returns the unit normal of the face plane, computed from the
// polygon's vector area. Zero for degenerate polygons.
func (f *Face) Normal() r3.Vector {
	n := f.vectorArea()
	norm := n.Norm()
	if norm <= ShapeTolerance {
		return r3.Vector{}
	}
	return n.Mul(1 / norm)
}

// vectorArea is half the sum of consecutive corner cross products;
// its norm is the polygon area for planar polygons.
func (f *Face) vectorArea() r3.Vector {
	var sum r3.Vector
	for i := range f.corners {
		a := f.corners[i]
		b := f.corners[(i+1)%len(f.corners)]
		sum = sum.Add(a.Cross(b))
	}
	return sum.Mul(0.5)
}

func (f *Face) BBox() (*BBox, error) {
	if len(f.corners) == 0 {
		return nil, errEmptyShape
	}
	bounds := [6]float64{
		math.Inf(1), math.Inf(-1),
		math.Inf(1), math.Inf(-1),
		math.Inf(1), math.Inf(-1),
	}
	for _, c := range f.corners {
		bounds[0] = math.Min(bounds[0], c.X)
		bounds[1] = math.Max(bounds[1], c.X)
		bounds[2] = math.Min(bounds[2], c.Y)
		bounds[3] = math.Max(bounds[3], c.Y)
		bounds[4] = math.Min(bounds[4], c.Z)
		bounds[5] = math.Max(bounds[5], c.Z)
	}
	return newBBoxFromBounds(bounds), nil
}

func (f *Face) Center() (r3.Vector, error) {
	b, err := f.BBox()
	if err != nil {
		return r3.Vector{}, err
	}
	return b.Center(), nil
}

func (f *Face) Area() float64 {
	return f.vectorArea().Norm()
}

// Equals compares corner cycles, tolerating rotation and reversal of the
// boundary order.
func (f *Face) Equals(other Shape) bool {
	o, ok := other.(*Face)
	if !ok {
		return false
	}
	n := len(f.corners)
	if n != len(o.corners) {
		return false
	}
	match := func(reversed bool) bool {
		for offset := 0; offset < n; offset++ {
			all := true
			for i := 0; i < n; i++ {
				j := (offset + i) % n
				if reversed {
					j = (offset - i + 2*n) % n
				}
				if !pointsEqual(f.corners[i], o.corners[j]) {
					all = false
					break
				}
			}
			if all {
				return true
			}
		}
		return false
	}
	return match(false) || match(true)
}

func (f *Face) Move(d r3.Vector) Shape {
	for i := range f.corners {
		f.corners[i] = f.corners[i].Add(d)
	}
	return f
}

func (f *Face) Moved(d r3.Vector) Shape { return f.Copy().Move(d) }

func (f *Face) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	for i := range f.corners {
		f.corners[i] = rotatePoint(f.corners[i], axis, degrees, pivot)
	}
	return f
}

func (f *Face) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return f.Copy().Rotate(axis, degrees, pivot)
}

func (f *Face) Mirror(axis Axis, pivot r3.Vector) Shape {
	for i := range f.corners {
		f.corners[i] = mirrorPoint(f.corners[i], axis, pivot)
	}
	return f
}

func (f *Face) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return f.Copy().Mirror(axis, pivot)
}

func (f *Face) Scale(factor float64, pivot r3.Vector) Shape {
	for i := range f.corners {
		f.corners[i] = scalePoint(f.corners[i], factor, pivot)
	}
	return f
}

func (f *Face) Scaled(factor float64, pivot r3.Vector) Shape {
	return f.Copy().Scale(factor, pivot)
}

func (f *Face) Vertices() []*Vertex {
	verts := make([]*Vertex, 0, len(f.corners))
	for _, c := range f.corners {
		verts = append(verts, NewVertexFromPoint(c))
	}
	return verts
}

func (f *Face) Edges() []*Edge {
	edges := make([]*Edge, 0, len(f.corners))
	for i := range f.corners {
		edges = append(edges, NewEdge(f.corners[i], f.corners[(i+1)%len(f.corners)]))
	}
	return edges
}

func (f *Face) Faces() []*Face { return []*Face{f} }

// Wire returns the boundary wire of the face.
func (f *Face) Wire() *Wire {
	return NewWire(f.Edges()...)
}

func (f *Face) ToData() ShapeData {
	d := ShapeData{Kind: f.Kind().String()}
	for _, c := range f.corners {
		d.Coords = append(d.Coords, coord(c))
	}
	return d
}

func (f *Face) String() string {
	return fmt.Sprintf("Face(%d corners, area %.3f)", len(f.corners), f.Area())
}
