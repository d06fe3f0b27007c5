package topo

import (
	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ---------------------------------------------------------------------------
// Aggregate geometry
// ---------------------------------------------------------------------------

// BBox returns the union bounding box of all members. Members without an
// extent are skipped; a collection with no boxable member reports
// ErrEmptyCollection.
func (c *Collection) BBox() (*BBox, error) {
	var acc *BBox
	for _, s := range c.shapes {
		b, err := s.BBox()
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
		return nil, ErrEmptyCollection
	}
	return acc, nil
}

// Center returns the center of the aggregate bounding box. A single-member
// collection answers with that member's own center.
func (c *Collection) Center() (r3.Vector, error) {
	if len(c.shapes) == 0 {
		return r3.Vector{}, ErrEmptyCollection
	}
	if len(c.shapes) == 1 {
		return c.shapes[0].Center()
	}
	b, err := c.BBox()
	if err != nil {
		return r3.Vector{}, err
	}
	return b.Center(), nil
}

// pivot returns the aggregate center used by rotation, mirroring and
// scaling, and whether one exists.
func (c *Collection) pivot() (r3.Vector, bool) {
	b, err := c.BBox()
	if err != nil {
		return r3.Vector{}, false
	}
	return b.Center(), true
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// Move translates every member in place.
func (c *Collection) Move(d r3.Vector) *Collection {
	for _, s := range c.shapes {
		s.Move(d)
	}
	return c
}

// Moved returns a deep copy translated by d.
func (c *Collection) Moved(d r3.Vector) *Collection { return c.Copy().Move(d) }

// MoveTo translates every member in place so the aggregate center lands on
// target. Empty collections are a no-op.
func (c *Collection) MoveTo(target r3.Vector) *Collection {
	p, ok := c.pivot()
	if !ok {
		return c
	}
	return c.Move(target.Sub(p))
}

// MovedTo returns a deep copy recentered on target.
func (c *Collection) MovedTo(target r3.Vector) *Collection { return c.Copy().MoveTo(target) }

// Rotate rotates every member in place around the aggregate center.
// Empty collections are a no-op.
func (c *Collection) Rotate(axis Axis, degrees float64) *Collection {
	p, ok := c.pivot()
	if !ok {
		return c
	}
	for _, s := range c.shapes {
		s.Rotate(axis, degrees, p)
	}
	return c
}

// Rotated returns a rotated deep copy.
func (c *Collection) Rotated(axis Axis, degrees float64) *Collection {
	return c.Copy().Rotate(axis, degrees)
}

// Mirror reflects every member in place across the plane normal to axis
// through the aggregate center.
func (c *Collection) Mirror(axis Axis) *Collection {
	p, ok := c.pivot()
	if !ok {
		return c
	}
	for _, s := range c.shapes {
		s.Mirror(axis, p)
	}
	return c
}

// Mirrored returns a mirrored deep copy.
func (c *Collection) Mirrored(axis Axis) *Collection {
	return c.Copy().Mirror(axis)
}

// Per-axis mirror shorthands.

func (c *Collection) MirrorX() *Collection { return c.Mirror(AxisX) }
func (c *Collection) MirrorY() *Collection { return c.Mirror(AxisY) }
func (c *Collection) MirrorZ() *Collection { return c.Mirror(AxisZ) }

func (c *Collection) MirroredX() *Collection { return c.Mirrored(AxisX) }
func (c *Collection) MirroredY() *Collection { return c.Mirrored(AxisY) }
func (c *Collection) MirroredZ() *Collection { return c.Mirrored(AxisZ) }

// Scale scales every member in place uniformly about the aggregate center.
func (c *Collection) Scale(factor float64) *Collection {
	p, ok := c.pivot()
	if !ok {
		return c
	}
	for _, s := range c.shapes {
		s.Scale(factor, p)
	}
	return c
}

// Scaled returns a scaled deep copy.
func (c *Collection) Scaled(factor float64) *Collection {
	return c.Copy().Scale(factor)
}

// ---------------------------------------------------------------------------
// Deduplication and comparison
// ---------------------------------------------------------------------------

// Distinct returns a new collection keeping the first occurrence per
// identity hash. Members are shared, not copied.
func (c *Collection) Distinct() *Collection {
	out := NewCollection(c.env)
	seen := make(map[string]bool, len(c.shapes))
	for _, s := range c.shapes {
		if seen[s.ID()] {
			continue
		}
		seen[s.ID()] = true
		out.shapes = append(out.shapes, s)
	}
	return out
}

// Unique returns a new collection keeping the first occurrence per
// geometric equality, a stronger dedup than Distinct.
func (c *Collection) Unique() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		dup := false
		for _, kept := range out.shapes {
			if kept.Equals(s) {
				dup = true
				break
			}
		}
		if !dup {
			out.shapes = append(out.shapes, s)
		}
	}
	return out
}

// GetEquals returns the members that have a geometric equal somewhere in
// the other collection.
func (c *Collection) GetEquals(other *Collection) *Collection {
	out := NewCollection(c.env)
	if other == nil {
		return out
	}
	for _, m := range c.shapes {
		for _, o := range other.shapes {
			if m.Equals(o) {
				out.shapes = append(out.shapes, m)
				break
			}
		}
	}
	return out
}

// SameAs reports whether both collections hold the same geometry,
// ignoring order and identity. Duplicates are collapsed before comparison,
// so two collections with the same distinct geometry compare equal even
// when their duplicate counts differ.
func (c *Collection) SameAs(other *Collection) bool {
	if other == nil {
		return false
	}
	a := c.Unique().shapes
	b := other.Unique().shapes
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, s := range a {
		matched := false
		for j, o := range b {
			if !used[j] && s.Equals(o) {
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

// ---------------------------------------------------------------------------
// Structural operations
// ---------------------------------------------------------------------------

// Combine concatenates the other collection onto this one, then merges the
// linear members (edges and wires) into as few connected wires as possible.
// Edges that share endpoints are chained into a wire; an isolated edge stays
// an edge. Non-linear members pass through unchanged. Passing nil combines
// this collection with itself only. The result is a new collection; linear
// geometry is copied.
func (c *Collection) Combine(other *Collection) *Collection {
	src := c
	if other != nil {
		src = c.Concat(other)
	}
	out := NewCollection(c.env)
	var edges []*Edge
	for _, s := range src.shapes {
		switch v := s.(type) {
		case *Edge:
			edges = append(edges, v.Copy().(*Edge))
		case *Wire:
			for _, e := range v.Edges() {
				edges = append(edges, e.Copy().(*Edge))
			}
		default:
			out.shapes = append(out.shapes, s)
		}
	}
	for _, group := range groupConnectedEdges(edges) {
		if len(group) == 1 {
			out.shapes = append(out.shapes, group[0])
		} else {
			out.shapes = append(out.shapes, NewWire(group...))
		}
	}
	return out
}

// groupConnectedEdges partitions edges into endpoint-connected components
// by breadth-first expansion.
func groupConnectedEdges(edges []*Edge) [][]*Edge {
	var groups [][]*Edge
	assigned := make([]bool, len(edges))
	for i := range edges {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []*Edge{edges[i]}
		for cursor := 0; cursor < len(group); cursor++ {
			for j := range edges {
				if assigned[j] {
					continue
				}
				if group[cursor].touches(edges[j]) {
					assigned[j] = true
					group = append(group, edges[j])
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// boxEntry adapts a member for the spatial index.
type boxEntry struct {
	shape Shape
	box   *BBox
	rect  rtreego.Rect
}

func (e *boxEntry) Bounds() rtreego.Rect { return e.rect }

// rtreeRect converts a bounding box into an index rectangle. The index
// requires strictly positive side lengths, so degenerate spans are padded
// by a hair below ShapeTolerance.
func rtreeRect(b *BBox) (rtreego.Rect, error) {
	const pad = 1e-9
	bounds := b.Bounds()
	point := rtreego.Point{bounds[0], bounds[2], bounds[4]}
	lengths := make([]float64, 3)
	for i := 0; i < 3; i++ {
		span := bounds[2*i+1] - bounds[2*i]
		if span < pad {
			span = pad
		}
		lengths[i] = span
	}
	return rtreego.NewRect(point, lengths)
}

// RemoveContained returns a new collection without the members whose
// bounding box lies inside another member's bounding box. Candidate pairs
// come from a spatial index, so only overlapping boxes are compared.
func (c *Collection) RemoveContained() *Collection {
	entries := make([]*boxEntry, 0, len(c.shapes))
	tree := rtreego.NewTree(3, 8, 16)
	for _, s := range c.shapes {
		b, err := s.BBox()
		if err != nil {
			continue
		}
		rect, err := rtreeRect(b)
		if err != nil {
			c.warnf("spatial index rejected %v: %v", s, err)
			continue
		}
		entry := &boxEntry{shape: s, box: b, rect: rect}
		entries = append(entries, entry)
		tree.Insert(entry)
	}

	contained := make(map[string]bool)
	for _, entry := range entries {
		for _, hit := range tree.SearchIntersect(entry.rect) {
			other := hit.(*boxEntry)
			if other.shape.ID() == entry.shape.ID() {
				continue
			}
			if other.box.ContainsBBox(entry.box) && !contained[other.shape.ID()] {
				contained[entry.shape.ID()] = true
				break
			}
		}
	}

	out := NewCollection(c.env)
	for _, s := range c.shapes {
		if !contained[s.ID()] {
			out.shapes = append(out.shapes, s)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Boolean operations
// ---------------------------------------------------------------------------

// kernelSolids returns the members that carry a usable kernel handle.
func (c *Collection) kernelSolids() []*Solid {
	var out []*Solid
	for _, s := range c.shapes {
		if v, ok := s.(*Solid); ok && v.Handle() != nil {
			out = append(out, v)
		}
	}
	return out
}

// Subtracted returns a new collection where every solid member has the
// solids of the other collection cut away. Members without a kernel handle
// pass through as copies, logged.
func (c *Collection) Subtracted(other *Collection) *Collection {
	out := NewCollection(c.env)
	var tools []*Solid
	if other != nil {
		tools = other.kernelSolids()
	}
	for _, s := range c.shapes {
		v, ok := s.(*Solid)
		if !ok || v.Handle() == nil || c.env == nil || c.env.Kernel == nil || len(tools) == 0 {
			if _, isSolid := s.(*Solid); isSolid && len(tools) > 0 {
				c.warnf("subtraction skipped for solid without kernel handle")
			}
			out.shapes = append(out.shapes, s.Copy())
			continue
		}
		h := v.Handle()
		for _, tool := range tools {
			h = c.env.Kernel.Difference(h, tool.Handle())
		}
		out.shapes = append(out.shapes, newSolidFromHandle(c.env, h))
	}
	return out
}

// Unioned fuses all solid members into a single solid, folding the kernel
// union left to right. Non-solid members are ignored. Errors when the
// collection has no kernel-backed solid.
func (c *Collection) Unioned() (*Solid, error) {
	solids := c.kernelSolids()
	if len(solids) == 0 {
		return nil, ErrEmptyCollection
	}
	if c.env == nil || c.env.Kernel == nil {
		return nil, ErrNoKernel
	}
	h := solids[0].Handle()
	for _, s := range solids[1:] {
		h = c.env.Kernel.Union(h, s.Handle())
	}
	return newSolidFromHandle(c.env, h), nil
}

// UnionedWith fuses the solids of both collections into one.
func (c *Collection) UnionedWith(other *Collection) (*Solid, error) {
	return c.Concat(other).Unioned()
}

// Offset returns a new collection where every kernel-backed solid is grown
// (negative distance shrinks) by a uniform surface offset. Members without
// a kernel handle pass through as copies.
func (c *Collection) Offset(distance float64) *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		v, ok := s.(*Solid)
		if !ok || v.Handle() == nil || c.env == nil || c.env.Kernel == nil {
			out.shapes = append(out.shapes, s.Copy())
			continue
		}
		h := c.env.Kernel.Offset(v.Handle(), distance)
		out.shapes = append(out.shapes, newSolidFromHandle(c.env, h))
	}
	return out
}

// Extruded returns a new collection where every planar axis-aligned face is
// lifted into a box solid spanning distance along its normal axis. Other
// members, and faces that cannot be extruded, pass through as copies.
func (c *Collection) Extruded(distance float64) *Collection {
	return c.liftFaces(0, distance)
}

// Thickened is Extruded centered on the face plane, growing distance/2 to
// either side.
func (c *Collection) Thickened(distance float64) *Collection {
	return c.liftFaces(-distance/2, distance)
}

func (c *Collection) liftFaces(offset, distance float64) *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		f, ok := s.(*Face)
		if !ok {
			out.shapes = append(out.shapes, s.Copy())
			continue
		}
		solid, err := c.extrudedFace(f, offset, distance)
		if err != nil {
			c.warnf("extrusion skipped for %v: %v", f, err)
			out.shapes = append(out.shapes, s.Copy())
			continue
		}
		out.shapes = append(out.shapes, solid)
	}
	return out
}

// extrudedFace lifts a planar axis-aligned face into a box solid. The face
// plane is shifted by offset along its normal axis before sweeping distance.
func (c *Collection) extrudedFace(f *Face, offset, distance float64) (*Solid, error) {
	b, err := f.BBox()
	if err != nil {
		return nil, err
	}
	axis := b.AxisMissingIn2D()
	if axis == AxisNone {
		return nil, errors.New("face is not axis aligned")
	}
	dir := axisVector(axis)
	min := b.Min().Add(dir.Mul(offset))
	max := b.Max().Add(dir.Mul(offset + distance))
	return NewBoxSolid(c.env, min, max)
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// Vertices returns a new collection of the vertices of every member.
func (c *Collection) Vertices() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		for _, v := range s.Vertices() {
			out.shapes = append(out.shapes, v)
		}
	}
	return out
}

// Edges returns a new collection of the edges of every member.
func (c *Collection) Edges() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		for _, e := range s.Edges() {
			out.shapes = append(out.shapes, e)
		}
	}
	return out
}

// Faces returns a new collection of the faces of every member.
func (c *Collection) Faces() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		for _, f := range s.Faces() {
			out.shapes = append(out.shapes, f)
		}
	}
	return out
}

// Wires returns a new collection of the wires of every member: wire
// members themselves plus the boundary wire of every face a member
// exposes.
func (c *Collection) Wires() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		if w, ok := s.(*Wire); ok {
			out.shapes = append(out.shapes, w)
			continue
		}
		for _, f := range s.Faces() {
			out.shapes = append(out.shapes, f.Wire())
		}
	}
	return out
}

// Shells returns a new collection of the shells of every member: shell
// members themselves plus the boundary shell of every solid.
func (c *Collection) Shells() *Collection {
	out := NewCollection(c.env)
	for _, s := range c.shapes {
		switch v := s.(type) {
		case *Shell:
			out.shapes = append(out.shapes, v)
		case *Solid:
			out.shapes = append(out.shapes, v.Shell())
		}
	}
	return out
}

// Solids returns the members that are solids.
func (c *Collection) Solids() *Collection {
	return c.Filter(func(s Shape) bool { return s.Kind() == KindSolid })
}

// DominantKind returns the highest-ranking member kind, solids over shells
// over faces and so on. The boolean is false for an empty collection.
func (c *Collection) DominantKind() (Kind, bool) {
	if len(c.shapes) == 0 {
		return KindVertex, false
	}
	best := c.shapes[0].Kind()
	for _, s := range c.shapes[1:] {
		if s.Kind().Rank() > best.Rank() {
			best = s.Kind()
		}
	}
	return best, true
}
