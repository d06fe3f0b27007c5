package topo

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// boundRoundScale neutralizes kernel floating-point noise when corner
// points are read back: bounds are snapped to the 1e-7 grid.
const boundRoundScale = 1e7

// displayRoundScale rounds derived quantities (areas) for presentation.
const displayRoundScale = 1e3

// BBox is an axis-aligned bounding box. Bounds are stored as the ordered
// 6-tuple [xmin, xmax, ymin, ymax, zmin, zmax] with min <= max per axis;
// the center point is cached and recomputed whenever bounds change.
//
// Degenerate boxes are first-class states, not errors: a point box is
// near-zero on all three axes, a 2D box near-zero on exactly one (with the
// looser Tolerance2D so kernel noise on flat shapes does not flip the
// classification).
type BBox struct {
	bounds   [6]float64
	position r3.Vector
}

// NewBBox creates a bounding box from two arbitrary corner points. The
// corners do not need to be ordered per axis; each axis is normalized to
// min/max independently. Coincident corners are rejected: a box needs
// nonzero extent on at least one axis.
func NewBBox(a, b r3.Vector) (*BBox, error) {
	min := r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	max := r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	if pointsEqual(min, max) {
		return nil, errors.Errorf("bounding box corners are coincident: %v", a)
	}
	return newBBoxFromBounds([6]float64{min.X, max.X, min.Y, max.Y, min.Z, max.Z}), nil
}

// newBBoxFromBounds builds a box from already-ordered bounds. Degenerate
// spans are allowed here; entity bounding boxes may legitimately be points.
func newBBoxFromBounds(bounds [6]float64) *BBox {
	b := &BBox{}
	for i, v := range bounds {
		b.bounds[i] = roundBound(v)
	}
	b.position = r3.Vector{
		X: (b.bounds[0] + b.bounds[1]) / 2,
		Y: (b.bounds[2] + b.bounds[3]) / 2,
		Z: (b.bounds[4] + b.bounds[5]) / 2,
	}
	return b
}

func roundBound(v float64) float64 {
	return math.Round(v*boundRoundScale) / boundRoundScale
}

func roundDisplay(v float64) float64 {
	return math.Round(v*displayRoundScale) / displayRoundScale
}

// Bounds returns the ordered bound tuple [xmin,xmax,ymin,ymax,zmin,zmax].
func (b *BBox) Bounds() [6]float64 { return b.bounds }

// ToData returns the serializable bound tuple.
func (b *BBox) ToData() [6]float64 { return b.bounds }

// Min returns the minimum corner.
func (b *BBox) Min() r3.Vector {
	return r3.Vector{X: b.bounds[0], Y: b.bounds[2], Z: b.bounds[4]}
}

// Max returns the maximum corner.
func (b *BBox) Max() r3.Vector {
	return r3.Vector{X: b.bounds[1], Y: b.bounds[3], Z: b.bounds[5]}
}

// Center returns the cached center point.
func (b *BBox) Center() r3.Vector { return b.position }

// Width is the extent along x.
func (b *BBox) Width() float64 { return b.bounds[1] - b.bounds[0] }

// Depth is the extent along y.
func (b *BBox) Depth() float64 { return b.bounds[3] - b.bounds[2] }

// Height is the extent along z.
func (b *BBox) Height() float64 { return b.bounds[5] - b.bounds[4] }

// IsPoint reports whether all three extents are within ShapeTolerance.
func (b *BBox) IsPoint() bool {
	return b.Width() <= ShapeTolerance &&
		b.Depth() <= ShapeTolerance &&
		b.Height() <= ShapeTolerance
}

// Is2D reports whether at least one extent is flat within the loose 2D
// tolerance.
func (b *BBox) Is2D() bool {
	flat := Tolerance2D + ShapeTolerance
	return b.Width() <= flat || b.Depth() <= flat || b.Height() <= flat
}

// AxisMissingIn2D returns the degenerate axis of a 2D box, checking in
// priority order height, width, depth: when several axes are near zero the
// first match wins. Returns AxisNone for boxes that are not 2D.
func (b *BBox) AxisMissingIn2D() Axis {
	if !b.Is2D() {
		return AxisNone
	}
	flat := Tolerance2D + ShapeTolerance
	switch {
	case b.Height() <= flat:
		return AxisZ
	case b.Width() <= flat:
		return AxisX
	case b.Depth() <= flat:
		return AxisY
	}
	return AxisNone
}

// ---------------------------------------------------------------------------
// Corner and side addressing
// ---------------------------------------------------------------------------

// sideSpec maps a side keyword to its axis and its index into bounds.
type sideSpec struct {
	axis  Axis
	index int // bound index selected by the keyword
}

var sideSpecs = map[string]sideSpec{
	"left":   {AxisX, 0},
	"right":  {AxisX, 1},
	"front":  {AxisY, 2},
	"back":   {AxisY, 3},
	"bottom": {AxisZ, 4},
	"top":    {AxisZ, 5},
}

// parseSides splits a free-form side string ("topleftback") into its side
// keywords in the order they appear. The whole string must be consumed by
// keywords.
func parseSides(where string) ([]string, error) {
	s := strings.ToLower(strings.TrimSpace(where))
	var words []string
	for len(s) > 0 {
		matched := false
		for word := range sideSpecs {
			if strings.HasPrefix(s, word) {
				words = append(words, word)
				s = s[len(word):]
				matched = true
				break
			}
		}
		if !matched {
			return nil, errors.Errorf("invalid side name in %q", where)
		}
	}
	if len(words) == 0 {
		return nil, errors.Errorf("no side name in %q", where)
	}
	return words, nil
}

// Corner returns the corner point addressed by a free-form side string.
// Unspecified axes default to left, front and bottom. A point box always
// answers with its center; a 2D box contributes the constant bound of its
// degenerate axis.
func (b *BBox) Corner(where string) (r3.Vector, error) {
	words, err := parseSides(where)
	if err != nil {
		return r3.Vector{}, err
	}
	if b.IsPoint() {
		return b.position, nil
	}

	// Defaults: left, front, bottom.
	idx := map[Axis]int{AxisX: 0, AxisY: 2, AxisZ: 4}
	for _, w := range words {
		spec := sideSpecs[w]
		idx[spec.axis] = spec.index
	}
	if missing := b.AxisMissingIn2D(); missing != AxisNone {
		// The degenerate axis has a single meaningful value.
		idx[missing] = 2 * (int(missing) - 1)
	}
	return r3.Vector{
		X: b.bounds[idx[AxisX]],
		Y: b.bounds[idx[AxisY]],
		Z: b.bounds[idx[AxisZ]],
	}, nil
}

// planarFace returns the whole rectangle face of a 2D box, flattened onto
// the min bound of its degenerate axis.
func (b *BBox) planarFace(missing Axis) (*Face, error) {
	min := b.Min()
	max := b.Max()
	switch missing {
	case AxisX:
		max.X = min.X
	case AxisY:
		max.Y = min.Y
	case AxisZ:
		max.Z = min.Z
	}
	return NewRectFace(min, max)
}

// Side returns the shape of one named side: the center vertex for a point
// box; for a 2D box either the whole planar face (when the requested side
// lies on the degenerate axis) or the extremal boundary edge; for a 3D box
// the extremal face of the corner box.
func (b *BBox) Side(name string) (Shape, error) {
	spec, ok := sideSpecs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Errorf("invalid side name %q", name)
	}
	if b.IsPoint() {
		return NewVertexFromPoint(b.position), nil
	}

	if missing := b.AxisMissingIn2D(); missing != AxisNone {
		face, err := b.planarFace(missing)
		if err != nil {
			return nil, errors.Wrapf(err, "side %q", name)
		}
		if spec.axis == missing {
			return face, nil
		}
		// Extremal boundary edge along the requested direction.
		want := b.bounds[spec.index]
		for _, e := range face.Edges() {
			if math.Abs(axisValue(e.A, spec.axis)-want) <= ShapeTolerance &&
				math.Abs(axisValue(e.B, spec.axis)-want) <= ShapeTolerance {
				return e, nil
			}
		}
		return nil, errors.Errorf("no boundary edge on side %q", name)
	}

	// 3D: extremal face of the corner box.
	min := b.Min()
	max := b.Max()
	want := b.bounds[spec.index]
	switch spec.axis {
	case AxisX:
		min.X, max.X = want, want
	case AxisY:
		min.Y, max.Y = want, want
	case AxisZ:
		min.Z, max.Z = want, want
	}
	face, err := NewRectFace(min, max)
	if err != nil {
		return nil, errors.Wrapf(err, "side %q", name)
	}
	return face, nil
}

// SidesShape resolves a combination side string ("topleftback") by folding
// the named side shapes through pairwise intersection: two adjacent faces
// meet in an edge, three in a corner vertex. Opposing sides have an empty
// intersection and raise an error.
func (b *BBox) SidesShape(where string) (Shape, error) {
	words, err := parseSides(where)
	if err != nil {
		return nil, err
	}
	acc, err := b.Side(words[0])
	if err != nil {
		return nil, err
	}
	for _, w := range words[1:] {
		next, err := b.Side(w)
		if err != nil {
			return nil, err
		}
		acc = intersectAligned(acc, next)
		if acc == nil {
			return nil, errors.Errorf("contradicting sides %q", where)
		}
	}
	return acc, nil
}

// intersectAligned intersects two axis-aligned shapes by their per-axis
// intervals and classifies the result by how many axes collapse:
// three degenerate axes make a vertex, two an edge, one a face.
// Returns nil for an empty intersection.
func intersectAligned(a, b Shape) Shape {
	ab, err := a.BBox()
	if err != nil {
		return nil
	}
	bb, err := b.BBox()
	if err != nil {
		return nil
	}
	var lo, hi [3]float64
	flat := 0
	var free []Axis
	for i := 0; i < 3; i++ {
		lo[i] = math.Max(ab.bounds[2*i], bb.bounds[2*i])
		hi[i] = math.Min(ab.bounds[2*i+1], bb.bounds[2*i+1])
		if lo[i] > hi[i]+ShapeTolerance {
			return nil
		}
		if hi[i]-lo[i] <= ShapeTolerance {
			flat++
		} else {
			free = append(free, Axis(i+1))
		}
	}
	min := r3.Vector{X: lo[0], Y: lo[1], Z: lo[2]}
	max := r3.Vector{X: hi[0], Y: hi[1], Z: hi[2]}
	switch flat {
	case 3:
		return NewVertexFromPoint(min.Add(max).Mul(0.5))
	case 2:
		return NewEdge(min, max)
	case 1:
		f, err := NewRectFace(min, max)
		if err != nil {
			return nil
		}
		return f
	default:
		// A volume intersection cannot come out of side folding.
		return nil
	}
}

// ---------------------------------------------------------------------------
// Aggregate operations
// ---------------------------------------------------------------------------

// Added returns the per-axis union of two boxes: min of mins, max of
// maxes. It is defined for any pair of boxes regardless of overlap.
func (b *BBox) Added(other *BBox) *BBox {
	if other == nil {
		return newBBoxFromBounds(b.bounds)
	}
	var out [6]float64
	for i := 0; i < 3; i++ {
		out[2*i] = math.Min(b.bounds[2*i], other.bounds[2*i])
		out[2*i+1] = math.Max(b.bounds[2*i+1], other.bounds[2*i+1])
	}
	return newBBoxFromBounds(out)
}

// Enlarged returns a box grown symmetrically by amount on every axis.
// The degenerate axis of a 2D box is left untouched so flatness survives
// enlargement.
func (b *BBox) Enlarged(amount float64) *BBox {
	missing := b.AxisMissingIn2D()
	out := b.bounds
	for i := 0; i < 3; i++ {
		if Axis(i+1) == missing {
			continue
		}
		out[2*i] -= amount
		out[2*i+1] += amount
	}
	return newBBoxFromBounds(out)
}

// Contains reports whether the box contains the given shape: a strict
// per-axis bound check for vertices, an inclusive bounding-box interval
// check for everything else.
func (b *BBox) Contains(s Shape) bool {
	if v, ok := s.(*Vertex); ok {
		return b.bounds[0] < v.P.X && v.P.X < b.bounds[1] &&
			b.bounds[2] < v.P.Y && v.P.Y < b.bounds[3] &&
			b.bounds[4] < v.P.Z && v.P.Z < b.bounds[5]
	}
	sb, err := s.BBox()
	if err != nil {
		return false
	}
	return b.ContainsBBox(sb)
}

// ContainsBBox is the inclusive per-axis interval containment check:
// this.min <= other.min and this.max >= other.max on every axis.
func (b *BBox) ContainsBBox(other *BBox) bool {
	for i := 0; i < 3; i++ {
		if b.bounds[2*i] > other.bounds[2*i] || b.bounds[2*i+1] < other.bounds[2*i+1] {
			return false
		}
	}
	return true
}

// Area returns the rectangle area for a 2D box and the summed area of the
// six box faces for a 3D box, rounded for display.
func (b *BBox) Area() float64 {
	if b.IsPoint() {
		return 0
	}
	w, d, h := b.Width(), b.Depth(), b.Height()
	if missing := b.AxisMissingIn2D(); missing != AxisNone {
		switch missing {
		case AxisX:
			return roundDisplay(d * h)
		case AxisY:
			return roundDisplay(w * h)
		default:
			return roundDisplay(w * d)
		}
	}
	return roundDisplay(2 * (w*d + w*h + d*h))
}

// Diagonal returns the box diagonal: a degenerate vertex for a point box,
// otherwise the edge between two opposite corners.
func (b *BBox) Diagonal() Shape {
	if b.IsPoint() {
		return NewVertexFromPoint(b.position)
	}
	var from, to r3.Vector
	if b.Is2D() {
		from, _ = b.Corner("leftfront")
		to, _ = b.Corner("rightback")
	} else {
		from, _ = b.Corner("leftfrontbottom")
		to, _ = b.Corner("rightbacktop")
	}
	return NewEdge(from, to)
}

// Equals compares bounds within ShapeTolerance.
func (b *BBox) Equals(other *BBox) bool {
	if other == nil {
		return false
	}
	for i := range b.bounds {
		if math.Abs(b.bounds[i]-other.bounds[i]) > ShapeTolerance {
			return false
		}
	}
	return true
}

func (b *BBox) String() string {
	return fmt.Sprintf("BBox(x %.3f..%.3f, y %.3f..%.3f, z %.3f..%.3f)",
		b.bounds[0], b.bounds[1], b.bounds[2], b.bounds[3], b.bounds[4], b.bounds[5])
}
