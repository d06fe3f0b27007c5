package topo

import (
	"github.com/chazu/kerf/pkg/kernel"
)

// Primitive selects the buffer a mesh group indexes into.
type Primitive int

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveTriangles
)

// MeshGroup locates one shape's contribution inside a MeshBuffer and
// carries enough metadata to pick, highlight or recolor it.
type MeshGroup struct {
	ShapeID      string
	Kind         Kind
	IndexInShape int
	Color        [3]float32
	Primitive    Primitive
	// Start and Count index float triples in the primitive's buffer.
	Start, Count int
}

// MeshBuffer accumulates render-ready geometry for a whole collection:
// flat float32 coordinate buffers per primitive class plus per-shape
// groups. Vertices feed the point buffer, edges and wires the line buffer,
// faces and solids the triangle buffer.
type MeshBuffer struct {
	Points    []float32
	Lines     []float32
	Triangles []float32
	Normals   []float32
	Groups    []MeshGroup
}

// colorPalette cycles per shape so adjacent parts render distinguishably.
var colorPalette = [][3]float32{
	{0.84, 0.60, 0.13},
	{0.33, 0.42, 0.18},
	{0.27, 0.51, 0.71},
	{0.80, 0.36, 0.36},
	{0.58, 0.44, 0.86},
	{0.50, 0.50, 0.50},
}

// NewMeshBuffer tessellates every member of the collection into a single
// buffer set. Solid members that fail to mesh degrade to their face hull;
// nothing aborts buffer construction.
func NewMeshBuffer(c *Collection) *MeshBuffer {
	buf := &MeshBuffer{}
	for i, s := range c.shapes {
		buf.addShape(c, s, i)
	}
	return buf
}

// ToMeshBuffer is the collection-side spelling of NewMeshBuffer.
func (c *Collection) ToMeshBuffer() *MeshBuffer { return NewMeshBuffer(c) }

func (b *MeshBuffer) addShape(c *Collection, s Shape, index int) {
	color := colorPalette[index%len(colorPalette)]
	switch v := s.(type) {
	case *Vertex:
		b.addPoints(v, index, color)
	case *Edge:
		b.addLines(s, index, color, []*Edge{v})
	case *Wire:
		b.addLines(s, index, color, v.Edges())
	case *Face:
		b.addFaceTriangles(s, index, color, v)
	case *Shell:
		for _, f := range v.Faces() {
			b.addFaceTriangles(s, index, color, f)
		}
	case *Solid:
		mesh, err := v.Mesh()
		if err != nil {
			if c.env != nil && c.env.Logger != nil {
				c.env.Logger.Debugf("meshing failed for %v, using face hull: %v", v, err)
			}
			for _, f := range v.Faces() {
				b.addFaceTriangles(s, index, color, f)
			}
			return
		}
		b.addKernelMesh(s, index, color, mesh)
	}
}

func (b *MeshBuffer) addPoints(v *Vertex, index int, color [3]float32) {
	start := len(b.Points) / 3
	b.Points = append(b.Points, float32(v.P.X), float32(v.P.Y), float32(v.P.Z))
	b.Groups = append(b.Groups, MeshGroup{
		ShapeID:      v.ID(),
		Kind:         KindVertex,
		IndexInShape: index,
		Color:        color,
		Primitive:    PrimitivePoints,
		Start:        start,
		Count:        1,
	})
}

func (b *MeshBuffer) addLines(owner Shape, index int, color [3]float32, edges []*Edge) {
	start := len(b.Lines) / 3
	for _, e := range edges {
		b.Lines = append(b.Lines,
			float32(e.A.X), float32(e.A.Y), float32(e.A.Z),
			float32(e.B.X), float32(e.B.Y), float32(e.B.Z),
		)
	}
	b.Groups = append(b.Groups, MeshGroup{
		ShapeID:      owner.ID(),
		Kind:         owner.Kind(),
		IndexInShape: index,
		Color:        color,
		Primitive:    PrimitiveLines,
		Start:        start,
		Count:        len(edges) * 2,
	})
}

// addFaceTriangles fan-triangulates a convex polygon face.
func (b *MeshBuffer) addFaceTriangles(owner Shape, index int, color [3]float32, f *Face) {
	corners := f.Corners()
	if len(corners) < 3 {
		return
	}
	start := len(b.Triangles) / 3
	n := f.Normal()
	nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
	for i := 1; i+1 < len(corners); i++ {
		for _, p := range []int{0, i, i + 1} {
			c := corners[p]
			b.Triangles = append(b.Triangles, float32(c.X), float32(c.Y), float32(c.Z))
			b.Normals = append(b.Normals, nx, ny, nz)
		}
	}
	b.Groups = append(b.Groups, MeshGroup{
		ShapeID:      owner.ID(),
		Kind:         owner.Kind(),
		IndexInShape: index,
		Color:        color,
		Primitive:    PrimitiveTriangles,
		Start:        start,
		Count:        (len(corners) - 2) * 3,
	})
}

// addKernelMesh expands an indexed kernel mesh into the flat triangle
// buffer.
func (b *MeshBuffer) addKernelMesh(owner Shape, index int, color [3]float32, m *kernel.Mesh) {
	start := len(b.Triangles) / 3
	for _, idx := range m.Indices {
		i := int(idx) * 3
		b.Triangles = append(b.Triangles, m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2])
		if i+2 < len(m.Normals) {
			b.Normals = append(b.Normals, m.Normals[i], m.Normals[i+1], m.Normals[i+2])
		}
	}
	b.Groups = append(b.Groups, MeshGroup{
		ShapeID:      owner.ID(),
		Kind:         owner.Kind(),
		IndexInShape: index,
		Color:        color,
		Primitive:    PrimitiveTriangles,
		Start:        start,
		Count:        len(m.Indices),
	})
}

// TriangleCount returns the number of triangles in the buffer.
func (b *MeshBuffer) TriangleCount() int { return len(b.Triangles) / 9 }

// LineCount returns the number of line segments in the buffer.
func (b *MeshBuffer) LineCount() int { return len(b.Lines) / 6 }

// PointCount returns the number of points in the buffer.
func (b *MeshBuffer) PointCount() int { return len(b.Points) / 3 }
