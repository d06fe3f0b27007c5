package topo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/chazu/kerf/pkg/kernel"
)

// Solid is a three-dimensional entity. Construction starts from an
// axis-aligned box; boolean results wrap whatever handle the kernel
// returns. Geometry that cannot be derived analytically (area and faces of
// non-box solids, meshes) is delegated to the kernel through the injected
// Env.
type Solid struct {
	id     string
	env    *Env
	handle kernel.Solid
	// boxExact is true while the solid is still exactly its axis-aligned
	// corner box, so faces and area can be derived without the kernel.
	boxExact bool
	min, max r3.Vector
}

var _ Shape = (*Solid)(nil)

// NewBoxSolid creates a box solid spanning two opposite corner points.
// A kernel handle is built when the env carries a kernel; otherwise the
// solid stays analytic and boolean operations on it will degrade.
func NewBoxSolid(env *Env, a, b r3.Vector) (*Solid, error) {
	min := r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	max := r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	if pointsEqual(min, max) {
		return nil, errors.New("box corners are coincident")
	}
	s := &Solid{id: newShapeID(), env: env, boxExact: true, min: min, max: max}
	if env != nil && env.Kernel != nil {
		h, err := env.Kernel.BoxFromCorners(coord(min), coord(max))
		if err != nil {
			if env.Logger != nil {
				env.Logger.Warnf("kernel box construction failed, solid stays analytic: %v", err)
			}
		} else {
			s.handle = h
		}
	}
	return s, nil
}

// newSolidFromHandle wraps a kernel handle produced by a boolean operation.
func newSolidFromHandle(env *Env, h kernel.Solid) *Solid {
	min, max := h.BoundingBox()
	return &Solid{
		id:     newShapeID(),
		env:    env,
		handle: h,
		min:    r3.Vector{X: min[0], Y: min[1], Z: min[2]},
		max:    r3.Vector{X: max[0], Y: max[1], Z: max[2]},
	}
}

func (s *Solid) Kind() Kind { return KindSolid }
func (s *Solid) ID() string { return s.id }

// Handle exposes the kernel handle, nil for analytic-only solids.
func (s *Solid) Handle() kernel.Solid { return s.handle }

// Env returns the injected environment the solid was built with.
func (s *Solid) Env() *Env { return s.env }

func (s *Solid) IsEmpty() bool {
	d := s.max.Sub(s.min)
	return d.X <= ShapeTolerance && d.Y <= ShapeTolerance && d.Z <= ShapeTolerance
}

func (s *Solid) Copy() Shape {
	// Kernel handles are immutable (transforms return new handles), so the
	// copy can share the current one.
	return &Solid{
		id:       newShapeID(),
		env:      s.env,
		handle:   s.handle,
		boxExact: s.boxExact,
		min:      s.min,
		max:      s.max,
	}
}

func (s *Solid) BBox() (*BBox, error) {
	return newBBoxFromBounds([6]float64{
		s.min.X, s.max.X, s.min.Y, s.max.Y, s.min.Z, s.max.Z,
	}), nil
}

func (s *Solid) Center() (r3.Vector, error) {
	return s.min.Add(s.max).Mul(0.5), nil
}

// Area returns the surface area: exact for box solids, mesh-derived for
// kernel-backed boolean results, and the bounding-box surface otherwise.
func (s *Solid) Area() float64 {
	d := s.max.Sub(s.min)
	if s.boxExact || s.handle == nil {
		return 2 * (d.X*d.Y + d.X*d.Z + d.Y*d.Z)
	}
	mesh, err := s.env.Kernel.ToMesh(s.handle)
	if err != nil {
		if s.env.Logger != nil {
			s.env.Logger.Warnf("mesh for area failed, using bounds: %v", err)
		}
		return 2 * (d.X*d.Y + d.X*d.Z + d.Y*d.Z)
	}
	return meshArea(mesh)
}

// meshArea sums the triangle areas of a kernel mesh.
func meshArea(m *kernel.Mesh) float64 {
	var sum float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := meshVertex(m, m.Indices[i])
		b := meshVertex(m, m.Indices[i+1])
		c := meshVertex(m, m.Indices[i+2])
		sum += b.Sub(a).Cross(c.Sub(a)).Norm() / 2
	}
	return sum
}

func meshVertex(m *kernel.Mesh, idx uint32) r3.Vector {
	i := int(idx) * 3
	return r3.Vector{
		X: float64(m.Vertices[i]),
		Y: float64(m.Vertices[i+1]),
		Z: float64(m.Vertices[i+2]),
	}
}

// Equals compares solids by their bounding geometry. Exact volumetric
// equality is the kernel's concern and is not reproducible for opaque
// handles, so two solids with matching bounds are treated as equal.
func (s *Solid) Equals(other Shape) bool {
	o, ok := other.(*Solid)
	if !ok {
		return false
	}
	return pointsEqual(s.min, o.min) && pointsEqual(s.max, o.max)
}

// corners returns the 8 corner points of the current bounds.
func (s *Solid) corners() [8]r3.Vector {
	var out [8]r3.Vector
	i := 0
	for _, x := range [2]float64{s.min.X, s.max.X} {
		for _, y := range [2]float64{s.min.Y, s.max.Y} {
			for _, z := range [2]float64{s.min.Z, s.max.Z} {
				out[i] = r3.Vector{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return out
}

// setBoundsFromPoints resets min/max to the AABB of the given points.
func (s *Solid) setBoundsFromPoints(pts []r3.Vector) {
	min := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range pts {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	s.min, s.max = min, max
}

func (s *Solid) refreshBoundsFromHandle() {
	min, max := s.handle.BoundingBox()
	s.min = r3.Vector{X: min[0], Y: min[1], Z: min[2]}
	s.max = r3.Vector{X: max[0], Y: max[1], Z: max[2]}
}

func (s *Solid) Move(d r3.Vector) Shape {
	s.min = s.min.Add(d)
	s.max = s.max.Add(d)
	if s.handle != nil {
		s.handle = s.env.Kernel.Translate(s.handle, d.X, d.Y, d.Z)
	}
	return s
}

func (s *Solid) Moved(d r3.Vector) Shape { return s.Copy().Move(d) }

func (s *Solid) Rotate(axis Axis, degrees float64, pivot r3.Vector) Shape {
	if s.handle != nil {
		h := s.env.Kernel.Translate(s.handle, -pivot.X, -pivot.Y, -pivot.Z)
		switch axis {
		case AxisX:
			h = s.env.Kernel.Rotate(h, degrees, 0, 0)
		case AxisY:
			h = s.env.Kernel.Rotate(h, 0, degrees, 0)
		case AxisZ:
			h = s.env.Kernel.Rotate(h, 0, 0, degrees)
		}
		s.handle = s.env.Kernel.Translate(h, pivot.X, pivot.Y, pivot.Z)
	}
	pts := s.corners()
	rotated := make([]r3.Vector, len(pts))
	for i, p := range pts {
		rotated[i] = rotatePoint(p, axis, degrees, pivot)
	}
	if s.handle != nil {
		s.refreshBoundsFromHandle()
	} else {
		s.setBoundsFromPoints(rotated)
	}
	// Quarter-turn rotations about a principal axis keep the box exact.
	if math.Mod(math.Abs(degrees), 90) > ShapeTolerance {
		s.boxExact = false
	}
	return s
}

func (s *Solid) Rotated(axis Axis, degrees float64, pivot r3.Vector) Shape {
	return s.Copy().Rotate(axis, degrees, pivot)
}

func (s *Solid) Mirror(axis Axis, pivot r3.Vector) Shape {
	a := mirrorPoint(s.min, axis, pivot)
	b := mirrorPoint(s.max, axis, pivot)
	s.min = r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	s.max = r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	if s.handle != nil {
		var kaxis int
		switch axis {
		case AxisX:
			kaxis = kernel.AxisX
		case AxisY:
			kaxis = kernel.AxisY
		case AxisZ:
			kaxis = kernel.AxisZ
		}
		h := s.env.Kernel.Translate(s.handle, -pivot.X, -pivot.Y, -pivot.Z)
		h = s.env.Kernel.Mirror(h, kaxis)
		s.handle = s.env.Kernel.Translate(h, pivot.X, pivot.Y, pivot.Z)
	}
	return s
}

func (s *Solid) Mirrored(axis Axis, pivot r3.Vector) Shape {
	return s.Copy().Mirror(axis, pivot)
}

func (s *Solid) Scale(factor float64, pivot r3.Vector) Shape {
	a := scalePoint(s.min, factor, pivot)
	b := scalePoint(s.max, factor, pivot)
	s.min = r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	s.max = r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	if s.handle != nil {
		h := s.env.Kernel.Translate(s.handle, -pivot.X, -pivot.Y, -pivot.Z)
		h = s.env.Kernel.Scale(h, factor)
		s.handle = s.env.Kernel.Translate(h, pivot.X, pivot.Y, pivot.Z)
	}
	return s
}

func (s *Solid) Scaled(factor float64, pivot r3.Vector) Shape {
	return s.Copy().Scale(factor, pivot)
}

func (s *Solid) Vertices() []*Vertex {
	pts := s.corners()
	verts := make([]*Vertex, 0, len(pts))
	for _, p := range pts {
		verts = append(verts, NewVertexFromPoint(p))
	}
	return verts
}

func (s *Solid) Edges() []*Edge {
	var edges []*Edge
	for _, f := range s.Faces() {
		edges = append(edges, f.Edges()...)
	}
	return edges
}

// Faces returns the 6 rectangle faces of the corner box. For boolean
// results this is the bounding hull, the closest face set derivable
// without boundary extraction support in the kernel.
func (s *Solid) Faces() []*Face {
	sides := [6][2]r3.Vector{
		{{X: s.min.X, Y: s.min.Y, Z: s.min.Z}, {X: s.min.X, Y: s.max.Y, Z: s.max.Z}}, // left
		{{X: s.max.X, Y: s.min.Y, Z: s.min.Z}, {X: s.max.X, Y: s.max.Y, Z: s.max.Z}}, // right
		{{X: s.min.X, Y: s.min.Y, Z: s.min.Z}, {X: s.max.X, Y: s.min.Y, Z: s.max.Z}}, // front
		{{X: s.min.X, Y: s.max.Y, Z: s.min.Z}, {X: s.max.X, Y: s.max.Y, Z: s.max.Z}}, // back
		{{X: s.min.X, Y: s.min.Y, Z: s.min.Z}, {X: s.max.X, Y: s.max.Y, Z: s.min.Z}}, // bottom
		{{X: s.min.X, Y: s.min.Y, Z: s.max.Z}, {X: s.max.X, Y: s.max.Y, Z: s.max.Z}}, // top
	}
	faces := make([]*Face, 0, 6)
	for _, c := range sides {
		f, err := NewRectFace(c[0], c[1])
		if err != nil {
			continue
		}
		faces = append(faces, f)
	}
	return faces
}

// Shell returns the boundary shell of the corner box.
func (s *Solid) Shell() *Shell {
	return NewShell(s.Faces()...)
}

// Mesh triangulates the solid through the kernel.
func (s *Solid) Mesh() (*kernel.Mesh, error) {
	if s.handle == nil || s.env == nil || s.env.Kernel == nil {
		return nil, errors.New("solid has no kernel handle")
	}
	return s.env.Kernel.ToMesh(s.handle)
}

func (s *Solid) ToData() ShapeData {
	bounds := [6]float64{s.min.X, s.max.X, s.min.Y, s.max.Y, s.min.Z, s.max.Z}
	return ShapeData{Kind: s.Kind().String(), Bounds: &bounds}
}

func (s *Solid) String() string {
	d := s.max.Sub(s.min)
	return fmt.Sprintf("Solid(%.3f x %.3f x %.3f)", d.X, d.Y, d.Z)
}
