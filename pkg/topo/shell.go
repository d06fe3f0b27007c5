package topo

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Shell is a two-dimensional entity made of connected faces, such as the
// boundary of a solid.
type Shell struct {
	id    string
	faces []*Face
}

var _ Shape = (*Shell)(nil)

// NewShell creates a shell from a set of faces.
func NewShell(faces ...*Face) *Shell {
	return &Shell{id: newShapeID(), faces: faces}
}

func (s *Shell) Kind() Kind { return KindShell }
func (s *Shell) ID() string { return s.id }

func (s *Shell) IsEmpty() bool {
	for _, f := range s.faces {
		if !f.IsEmpty() {
			return false
		}
	}
	return true
}

func (s *Shell) Copy() Shape {
	faces := make([]*Face, len(s.faces))
	for i, f := range s.faces {
		faces[i] = f.Copy().(*Face)
	}
	return &Shell{id: newShapeID(), faces: faces}
}

func (s *Shell) BBox() (*BBox, error) {
	var acc *BBox
	for _, f := range s.faces {
		b, err := f.BBox()
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

func (s *Shell) Center() (r3.Vector, error) {
	b, err := s.BBox()
	if err != nil {
		return r3.Vector{}, err
	}
	return b.Center(), nil
}

// Area returns the summed area of the member faces.
func (s *Shell) Area() float64 {
	var sum float64
	for _, f := range s.faces {
		sum += f.Area()
	}
	return sum
}

// Equals compares the member face multisets geometrically.
func (s *Shell) Equals(other Shape) bool {
	o, ok := other.(*Shell)
	if !ok || len(s.faces) != len(o.faces) {
		return false
	}
	used := make([]bool, len(o.faces))
	for _, f := range s.faces {
		matched := false
		for j, of := range o.faces {
			if !used[j] && f.Equals(of) {
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

func (s *Shell) Move(d r3.Vector) Shape {
	for _, f := range s.faces {
		f.Move(d)
	}
	return s
}

func (s *Shell) Moved(d r3.Vector) Shape { return s.Copy().Move(d) }

func (s *Shell) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	for _, f := range s.faces {
		f.Rotate(axis, degrees, pivot)
	}
	return s
}

func (s *Shell) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return s.Copy().Rotate(axis, degrees, pivot)
}

func (s *Shell) Mirror(axis Axis, pivot r3.Vector) Shape {
	for _, f := range s.faces {
		f.Mirror(axis, pivot)
	}
	return s
}

func (s *Shell) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return s.Copy().Mirror(axis, pivot)
}

func (s *Shell) Scale(factor float64, pivot r3.Vector) Shape {
	for _, f := range s.faces {
		f.Scale(factor, pivot)
	}
	return s
}

func (s *Shell) Scaled(factor float64, pivot r3.Vector) Shape {
	return s.Copy().Scale(factor, pivot)
}

func (s *Shell) Vertices() []*Vertex {
	var verts []*Vertex
	for _, f := range s.faces {
		verts = append(verts, f.Vertices()...)
	}
	return verts
}

func (s *Shell) Edges() []*Edge {
	var edges []*Edge
	for _, f := range s.faces {
		edges = append(edges, f.Edges()...)
	}
	return edges
}

func (s *Shell) Faces() []*Face { return s.faces }

func (s *Shell) ToData() ShapeData {
	d := ShapeData{Kind: s.Kind().String()}
	for _, f := range s.faces {
		d.Children = append(d.Children, f.ToData())
	}
	return d
}

func (s *Shell) String() string {
	return fmt.Sprintf("Shell(%d faces)", len(s.faces))
}
