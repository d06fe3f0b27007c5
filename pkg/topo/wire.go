package topo

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Wire is a one-dimensional entity made of connected edges.
// The edges are owned by the wire; callers hand over ownership on
// construction.
type Wire struct {
	id    string
	edges []*Edge
}

var _ Shape = (*Wire)(nil)

// NewWire creates a wire from a set of edges. The edges are chained into
// endpoint order where possible; edges that cannot be chained keep their
// given position.
func NewWire(edges ...*Edge) *Wire {
	return &Wire{id: newShapeID(), edges: chainEdges(edges)}
}

// chainEdges reorders edges into a connected walk starting from the first
// edge, greedily appending whichever remaining edge touches the tail.
// Branching or disconnected inputs degrade to the given order for the
// unreachable remainder.
func chainEdges(edges []*Edge) []*Edge {
	if len(edges) < 2 {
		return edges
	}
	remaining := make([]*Edge, len(edges)-1)
	copy(remaining, edges[1:])
	chain := []*Edge{edges[0]}
	tail := edges[0].B

	for len(remaining) > 0 {
		found := -1
		for i, e := range remaining {
			if pointsEqual(e.A, tail) {
				found = i
				break
			}
			if pointsEqual(e.B, tail) {
				// Flip so the chain direction is consistent.
				e.A, e.B = e.B, e.A
				found = i
				break
			}
		}
		if found < 0 {
			chain = append(chain, remaining...)
			break
		}
		chain = append(chain, remaining[found])
		tail = remaining[found].B
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return chain
}

func (w *Wire) Kind() Kind { return KindWire }
func (w *Wire) ID() string { return w.id }

func (w *Wire) IsEmpty() bool {
	for _, e := range w.edges {
		if !e.IsEmpty() {
			return false
		}
	}
	return true
}

func (w *Wire) Copy() Shape {
	edges := make([]*Edge, len(w.edges))
	for i, e := range w.edges {
		edges[i] = e.Copy().(*Edge)
	}
	return &Wire{id: newShapeID(), edges: edges}
}

// Length returns the total length of all member edges.
func (w *Wire) Length() float64 {
	var sum float64
	for _, e := range w.edges {
		sum += e.Length()
	}
	return sum
}

func (w *Wire) BBox() (*BBox, error) {
	var acc *BBox
	for _, e := range w.edges {
		b, err := e.BBox()
		if err != nil {
			continue
		}
		if acc == nil {
			acc = b
		} else {
			acc = acc.Added(b)
		}
	}
	if acc == nil {
		return nil, errEmptyShape
	}
	return acc, nil
}

func (w *Wire) Center() (r3.Vector, error) {
	b, err := w.BBox()
	if err != nil {
		return r3.Vector{}, err
	}
	return b.Center(), nil
}

func (w *Wire) Area() float64 { return 0 }

// Equals compares the member edge multisets geometrically.
func (w *Wire) Equals(other Shape) bool {
	o, ok := other.(*Wire)
	if !ok || len(w.edges) != len(o.edges) {
		return false
	}
	used := make([]bool, len(o.edges))
	for _, e := range w.edges {
		matched := false
		for j, oe := range o.edges {
			if !used[j] && e.Equals(oe) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (w *Wire) Move(d r3.Vector) Shape {
	for _, e := range w.edges {
		e.Move(d)
	}
	return w
}

func (w *Wire) Moved(d r3.Vector) Shape { return w.Copy().Move(d) }

func (w *Wire) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	for _, e := range w.edges {
		e.Rotate(axis, degrees, pivot)
	}
	return w
}

func (w *Wire) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return w.Copy().Rotate(axis, degrees, pivot)
}

func (w *Wire) Mirror(axis Axis, pivot r3.Vector) Shape {
	for _, e := range w.edges {
		e.Mirror(axis, pivot)
	}
	return w
}

func (w *Wire) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return w.Copy().Mirror(axis, pivot)
}

func (w *Wire) Scale(factor float64, pivot r3.Vector) Shape {
	for _, e := range w.edges {
		e.Scale(factor, pivot)
	}
	return w
}

func (w *Wire) Scaled(factor float64, pivot r3.Vector) Shape {
	return w.Copy().Scale(factor, pivot)
}

func (w *Wire) Vertices() []*Vertex {
	var verts []*Vertex
	for _, e := range w.edges {
		verts = append(verts, e.Vertices()...)
	}
	return verts
}

func (w *Wire) Edges() []*Edge { return w.edges }
func (w *Wire) Faces() []*Face { return nil }

func (w *Wire) ToData() ShapeData {
	d := ShapeData{Kind: w.Kind().String()}
	for _, e := range w.edges {
		d.Children = append(d.Children, e.ToData())
	}
	return d
}

func (w *Wire) String() string {
	return fmt.Sprintf("Wire(%d edges)", len(w.edges))
}
