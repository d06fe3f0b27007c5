package topo_test

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/chazu/kerf/pkg/topo"
)

func TestCollectionFlattensInput(t *testing.T) {
	env := testEnv(t)
	inner := topo.NewCollection(env, topo.NewVertex(1, 1, 1), topo.NewVertex(2, 2, 2))

	c := topo.NewCollection(env,
		topo.NewVertex(0, 0, 0),
		inner,
		r3.Vector{X: 3, Y: 3, Z: 3},
		[3]float64{4, 4, 4},
		[]float64{5, 5, 5},
		[]any{topo.NewVertex(6, 6, 6), r3.Vector{X: 7, Y: 7, Z: 7}},
	)

	if c.Len() != 7 {
		t.Fatalf("expected 7 members after flattening, got %d", c.Len())
	}
	// Nested collections are spliced, never nested.
	for i := 0; i < c.Len(); i++ {
		if _, ok := c.At(i).(*topo.Vertex); !ok {
			t.Errorf("member %d: expected vertex, got %T", i, c.At(i))
		}
	}
}

func TestCollectionSkipsBadInput(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		nil,
		topo.NewVertex(1, 1, 1),
		topo.NewEdge(r3.Vector{X: 1}, r3.Vector{X: 1}), // zero length
		[]float64{1, 2},                                // wrong arity
		"not a shape",
	)

	if c.Len() != 1 {
		t.Errorf("expected only the valid vertex, got %d members", c.Len())
	}
}

func TestCollectionVertexNotRewrapped(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(1, 2, 3)
	c := topo.NewCollection(env, v)

	if c.At(0) != topo.Shape(v) {
		t.Error("an existing vertex must be kept by reference, not rebuilt")
	}
}

func TestCollectionGroups(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env)
	c.AddToGroup("legs", topo.NewVertex(0, 0, 0), topo.NewVertex(1, 0, 0))
	c.AddToGroup("legs", topo.NewVertex(2, 0, 0))
	c.AddToGroup("top", topo.NewVertex(0, 0, 1))

	if c.Len() != 4 {
		t.Fatalf("expected 4 members, got %d", c.Len())
	}
	if got := c.GetGroup("legs").Len(); got != 3 {
		t.Errorf("legs group = %d members, want 3 (merge on re-add)", got)
	}
	if got := c.GetGroup("top").Len(); got != 1 {
		t.Errorf("top group = %d members, want 1", got)
	}
	if c.GetGroup("missing") != nil {
		t.Error("unknown group should be nil")
	}
	if got := len(c.GroupNames()); got != 2 {
		t.Errorf("expected 2 group names, got %d", got)
	}
}

func TestCollectionRemovePrunesGroups(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(0, 0, 0)
	c := topo.NewCollection(env)
	c.AddToGroup("only", v)

	c.Remove(v.ID())
	if c.Len() != 0 {
		t.Errorf("expected empty collection, got %d", c.Len())
	}
	if c.GetGroup("only") != nil {
		t.Error("emptied group should be pruned")
	}
}

func TestCollectionCopyIsDeep(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(0, 0, 0)
	c := topo.NewCollection(env)
	c.AddToGroup("markers", v)

	cp := c.Copy()
	if cp.Len() != 1 {
		t.Fatalf("copy lost members")
	}
	if cp.At(0).ID() == v.ID() {
		t.Error("copied members must have fresh identity hashes")
	}
	if cp.GetGroup("markers").Len() != 1 {
		t.Fatal("copy lost group view")
	}
	if cp.GetGroup("markers").At(0).ID() != cp.At(0).ID() {
		t.Error("group view must point at the copied member")
	}

	// Mutating the copy must not touch the original.
	cp.Move(r3.Vector{X: 5})
	if v.P.X != 0 {
		t.Error("copy mutation leaked into the original")
	}
}

func TestCollectionMoveMutatesMembers(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(0, 0, 0)
	c := topo.NewCollection(env, v)

	c.Move(r3.Vector{X: 3})
	if v.P.X != 3 {
		t.Error("Move must transform members in place")
	}

	moved := c.Moved(r3.Vector{X: 3})
	if v.P.X != 3 {
		t.Error("Moved must not mutate the original members")
	}
	if moved.At(0).(*topo.Vertex).P.X != 6 {
		t.Errorf("moved copy at wrong position")
	}
}

func TestCollectionRotateAboutAggregateCenter(t *testing.T) {
	env := testEnv(t)
	a := topo.NewVertex(0, 0, 0)
	b := topo.NewVertex(10, 0, 0)
	c := topo.NewCollection(env, a, b)

	// Aggregate center is (5, 0, 0); a half turn swaps the endpoints.
	c.Rotate(topo.AxisZ, 180)
	if !near(a.P.X, 10) || !near(b.P.X, 0) {
		t.Errorf("rotation about aggregate center: a=%v b=%v", a.P, b.P)
	}
}

func TestCollectionTransformEmptyNoop(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env)
	// Must not panic or error.
	c.Rotate(topo.AxisZ, 90)
	c.Mirror(topo.AxisX)
	c.Scale(2)
}

func TestCollectionBBox(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(0, 0, 0),
		topo.NewVertex(10, 20, 30),
	)

	b, err := c.BBox()
	if err != nil {
		t.Fatalf("bbox: %v", err)
	}
	if b.Width() != 10 || b.Depth() != 20 || b.Height() != 30 {
		t.Errorf("aggregate bbox = %v", b)
	}

	empty := topo.NewCollection(env)
	if _, err := empty.BBox(); err == nil {
		t.Error("empty collection bbox should error")
	}
}

func TestCollectionCenterSingleMember(t *testing.T) {
	env := testEnv(t)
	e := topo.NewEdge(r3.Vector{}, r3.Vector{X: 10})
	c := topo.NewCollection(env, e)

	center, err := c.Center()
	if err != nil {
		t.Fatalf("center: %v", err)
	}
	if center.X != 5 {
		t.Errorf("single-member center = %v, want the member's own center", center)
	}

	if _, err := topo.NewCollection(env).Center(); err == nil {
		t.Error("empty collection center should error")
	}
}

func TestDistinctAndUnique(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(1, 1, 1)
	twin := topo.NewVertex(1, 1, 1)
	c := topo.NewCollection(env, v, v, twin)

	d := c.Distinct()
	if d.Len() != 2 {
		t.Errorf("Distinct: expected 2 (same instance collapsed), got %d", d.Len())
	}
	u := c.Unique()
	if u.Len() != 1 {
		t.Errorf("Unique: expected 1 (equal geometry collapsed), got %d", u.Len())
	}
	// Both are idempotent.
	if d.Distinct().Len() != d.Len() || u.Unique().Len() != u.Len() {
		t.Error("dedup should be idempotent")
	}
}

func TestGetEquals(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(1, 1, 1),
		topo.NewVertex(1, 1, 1),
		topo.NewVertex(2, 2, 2),
	)

	hits := c.GetEquals(topo.NewCollection(env, topo.NewVertex(1, 1, 1)))
	if hits.Len() != 2 {
		t.Errorf("expected 2 equal members, got %d", hits.Len())
	}
	if c.GetEquals(nil).Len() != 0 {
		t.Error("nil operand should yield no matches")
	}
}

func TestSameAsIgnoresOrderAndDuplicates(t *testing.T) {
	env := testEnv(t)
	a := topo.NewCollection(env,
		topo.NewVertex(1, 1, 1),
		topo.NewVertex(2, 2, 2),
	)
	b := topo.NewCollection(env,
		topo.NewVertex(2, 2, 2),
		topo.NewVertex(1, 1, 1),
		topo.NewVertex(1, 1, 1), // duplicate geometry collapses
	)

	if !a.SameAs(b) {
		t.Error("collections with the same distinct geometry should compare equal")
	}

	c := topo.NewCollection(env, topo.NewVertex(3, 3, 3))
	if a.SameAs(c) {
		t.Error("different geometry must not compare equal")
	}
	if a.SameAs(nil) {
		t.Error("nil comparison should be false")
	}
}

func TestCombineChainsEdges(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewEdge(r3.Vector{}, r3.Vector{X: 10}),
		topo.NewEdge(r3.Vector{X: 10}, r3.Vector{X: 10, Y: 10}),
		topo.NewEdge(r3.Vector{X: 50}, r3.Vector{X: 60}), // isolated
		topo.NewVertex(0, 0, 99),                         // passes through
	)

	combined := c.Combine(nil)
	var wires, edges, verts int
	combined.ForEach(func(s topo.Shape) {
		switch s.Kind() {
		case topo.KindWire:
			wires++
		case topo.KindEdge:
			edges++
		case topo.KindVertex:
			verts++
		}
	})
	if wires != 1 {
		t.Errorf("expected 1 wire from connected edges, got %d", wires)
	}
	if edges != 1 {
		t.Errorf("expected 1 isolated edge, got %d", edges)
	}
	if verts != 1 {
		t.Errorf("expected the vertex to pass through, got %d", verts)
	}
}

func TestCombineMergesWires(t *testing.T) {
	env := testEnv(t)
	w := topo.NewWire(
		topo.NewEdge(r3.Vector{}, r3.Vector{X: 10}),
	)
	c := topo.NewCollection(env, w)
	other := topo.NewCollection(env,
		topo.NewEdge(r3.Vector{X: 10}, r3.Vector{X: 10, Y: 10}),
	)

	combined := c.Combine(other)
	if combined.Len() != 1 {
		t.Fatalf("expected one merged wire, got %d members", combined.Len())
	}
	merged, ok := combined.At(0).(*topo.Wire)
	if !ok {
		t.Fatalf("expected wire, got %T", combined.At(0))
	}
	if merged.Length() != 20 {
		t.Errorf("merged length = %f, want 20", merged.Length())
	}
}

func TestRemoveContained(t *testing.T) {
	env := testEnv(t)
	big, err := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 100, Y: 100, Z: 100})
	if err != nil {
		t.Fatalf("NewBoxSolid: %v", err)
	}
	inner := topo.NewEdge(r3.Vector{X: 10, Y: 10, Z: 10}, r3.Vector{X: 20, Y: 20, Z: 20})
	outside := topo.NewVertex(500, 500, 500)

	c := topo.NewCollection(env, big, inner, outside)
	pruned := c.RemoveContained()

	if pruned.Len() != 2 {
		t.Fatalf("expected 2 members after pruning, got %d", pruned.Len())
	}
	for i := 0; i < pruned.Len(); i++ {
		if pruned.At(i).ID() == inner.ID() {
			t.Error("contained edge should have been removed")
		}
	}
}

func TestRemoveContainedKeepsNonNested(t *testing.T) {
	env := testEnv(t)
	a := topo.NewEdge(r3.Vector{}, r3.Vector{X: 10})
	b := topo.NewEdge(r3.Vector{X: 5}, r3.Vector{X: 15})

	c := topo.NewCollection(env, a, b)
	if c.RemoveContained().Len() != 2 {
		t.Error("overlapping but not nested members must both survive")
	}
}

func TestNavigationCollections(t *testing.T) {
	env := testEnv(t)
	solid, err := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatalf("NewBoxSolid: %v", err)
	}
	c := topo.NewCollection(env, solid, topo.NewVertex(0, 0, 0))

	if got := c.Faces().Len(); got != 6 {
		t.Errorf("Faces: expected the 6 box faces, got %d", got)
	}
	if got := c.Solids().Len(); got != 1 {
		t.Errorf("Solids: expected 1, got %d", got)
	}
	if got := c.Vertices().Len(); got != 9 {
		t.Errorf("Vertices: expected 8 corners + 1 marker, got %d", got)
	}
}

func TestDominantKind(t *testing.T) {
	env := testEnv(t)
	solid, _ := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	c := topo.NewCollection(env,
		topo.NewVertex(0, 0, 0),
		topo.NewEdge(r3.Vector{}, r3.Vector{X: 1}),
		solid,
	)

	kind, ok := c.DominantKind()
	if !ok || kind != topo.KindSolid {
		t.Errorf("dominant kind = %v (%v), want solid", kind, ok)
	}

	if _, ok := topo.NewCollection(env).DominantKind(); ok {
		t.Error("empty collection has no dominant kind")
	}
}

func TestUnionedWithoutKernel(t *testing.T) {
	env := testEnv(t)
	solid, _ := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	c := topo.NewCollection(env, solid)

	// Analytic solids carry no kernel handle, so fusing has nothing to work
	// with and reports the empty-collection condition.
	if _, err := c.Unioned(); err == nil {
		t.Error("expected error fusing without kernel-backed solids")
	}
}

func TestSubtractedPassesThroughNonSolids(t *testing.T) {
	env := testEnv(t)
	v := topo.NewVertex(1, 2, 3)
	c := topo.NewCollection(env, v)

	out := c.Subtracted(topo.NewCollection(env))
	if out.Len() != 1 {
		t.Fatalf("expected 1 member, got %d", out.Len())
	}
	if !out.At(0).Equals(v) {
		t.Error("non-solid member should pass through geometrically unchanged")
	}
	if out.At(0).ID() == v.ID() {
		t.Error("pass-through members are copies with fresh identity")
	}
}

func TestConcat(t *testing.T) {
	env := testEnv(t)
	a := topo.NewCollection(env, topo.NewVertex(0, 0, 0))
	a.AddToGroup("left", topo.NewVertex(1, 0, 0))
	b := topo.NewCollection(env)
	b.AddToGroup("right", topo.NewVertex(2, 0, 0))

	out := a.Concat(b)
	if out.Len() != 3 {
		t.Errorf("expected 3 members, got %d", out.Len())
	}
	if out.GetGroup("left").Len() != 1 || out.GetGroup("right").Len() != 1 {
		t.Error("group views of both operands should be merged")
	}
	// Operands unchanged.
	if a.Len() != 2 || b.Len() != 1 {
		t.Error("Concat must not mutate its operands")
	}
}

func TestFilter(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(0, 0, 0),
		topo.NewEdge(r3.Vector{}, r3.Vector{X: 1}),
	)

	verts := c.Filter(func(s topo.Shape) bool { return s.Kind() == topo.KindVertex })
	if verts.Len() != 1 {
		t.Errorf("expected 1 vertex, got %d", verts.Len())
	}
}

func TestToData(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(1, 2, 3),
		topo.NewEdge(r3.Vector{}, r3.Vector{X: 1}),
	)

	data := c.ToData()
	if len(data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(data))
	}
	if data[0].Kind != "vertex" || data[1].Kind != "edge" {
		t.Errorf("unexpected kinds: %v, %v", data[0].Kind, data[1].Kind)
	}
	if data[0].Coords[0] != [3]float64{1, 2, 3} {
		t.Errorf("vertex coords = %v", data[0].Coords)
	}
}

func TestMovedToRecenters(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env, topo.NewEdge(r3.Vector{}, r3.Vector{X: 10}))

	moved := c.MovedTo(r3.Vector{X: 100, Y: 50})
	ctr, err := moved.Center()
	if err != nil {
		t.Fatalf("Center: %v", err)
	}
	if ctr.X != 100 || ctr.Y != 50 || ctr.Z != 0 {
		t.Errorf("center = %v, want (100, 50, 0)", ctr)
	}
	orig, err := c.Center()
	if err != nil {
		t.Fatalf("Center: %v", err)
	}
	if orig.X != 5 {
		t.Error("MovedTo must not mutate the receiver")
	}
}

func TestMirroredXReflectsAboutCenter(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(0, 0, 0),
		topo.NewVertex(10, 0, 0),
	)

	m := c.MirroredX()
	a := m.At(0).(*topo.Vertex)
	b := m.At(1).(*topo.Vertex)
	if a.P.X != 10 || b.P.X != 0 {
		t.Errorf("mirrored x coords = %f, %f, want 10, 0", a.P.X, b.P.X)
	}
}

func TestExtrudedLiftsFaces(t *testing.T) {
	env := testEnv(t)
	face, err := topo.NewRectFace(r3.Vector{}, r3.Vector{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("NewRectFace: %v", err)
	}
	c := topo.NewCollection(env, face, topo.NewVertex(0, 0, 99))

	out := c.Extruded(5)
	if out.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", out.Len())
	}
	solid, ok := out.At(0).(*topo.Solid)
	if !ok {
		t.Fatalf("expected solid, got %T", out.At(0))
	}
	b, err := solid.BBox()
	if err != nil {
		t.Fatalf("BBox: %v", err)
	}
	bounds := b.Bounds()
	if bounds[4] != 0 || bounds[5] != 5 {
		t.Errorf("z bounds = %f..%f, want 0..5", bounds[4], bounds[5])
	}
	if out.At(1).Kind() != topo.KindVertex {
		t.Error("non-face members should pass through")
	}
}

func TestThickenedCentersOnFacePlane(t *testing.T) {
	env := testEnv(t)
	face, err := topo.NewRectFace(r3.Vector{}, r3.Vector{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("NewRectFace: %v", err)
	}
	c := topo.NewCollection(env, face)

	out := c.Thickened(4)
	solid, ok := out.At(0).(*topo.Solid)
	if !ok {
		t.Fatalf("expected solid, got %T", out.At(0))
	}
	b, err := solid.BBox()
	if err != nil {
		t.Fatalf("BBox: %v", err)
	}
	bounds := b.Bounds()
	if bounds[4] != -2 || bounds[5] != 2 {
		t.Errorf("z bounds = %f..%f, want -2..2", bounds[4], bounds[5])
	}
}

func TestOffsetWithoutKernelPassesThrough(t *testing.T) {
	env := testEnv(t)
	s, err := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatalf("NewBoxSolid: %v", err)
	}
	c := topo.NewCollection(env, s)

	out := c.Offset(2)
	if out.Len() != 1 {
		t.Fatalf("expected 1 member, got %d", out.Len())
	}
	got, ok := out.At(0).(*topo.Solid)
	if !ok {
		t.Fatalf("expected solid, got %T", out.At(0))
	}
	if !got.Equals(s) {
		t.Error("without a kernel the solid should pass through unchanged")
	}
	if got.ID() == s.ID() {
		t.Error("pass-through must still be a copy")
	}
}

func TestAddThenRemoveRestoresEmpty(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env)
	v := topo.NewVertex(1, 2, 3)

	c.Add(v)
	c.Remove(v.ID())
	if !c.IsEmpty() {
		t.Errorf("expected empty collection, got %d members", c.Len())
	}
	if !c.SameAs(topo.NewCollection(env)) {
		t.Error("emptied collection should equal a fresh empty one")
	}
}

func TestCopyToDataRoundTrip(t *testing.T) {
	env := testEnv(t)
	c := topo.NewCollection(env,
		topo.NewVertex(1, 2, 3),
		topo.NewVertex(4, 5, 6),
	)

	a := c.ToData()
	b := c.Copy().ToData()
	if len(a) != len(b) {
		t.Fatalf("data length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Coords[0] != b[i].Coords[0] {
			t.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestWiresFlattenFaceBoundaries(t *testing.T) {
	env := testEnv(t)
	face, err := topo.NewRectFace(r3.Vector{}, r3.Vector{X: 10, Y: 20})
	if err != nil {
		t.Fatalf("NewRectFace: %v", err)
	}
	w := topo.NewWire(topo.NewEdge(r3.Vector{}, r3.Vector{X: 1}))
	c := topo.NewCollection(env, face, w, topo.NewVertex(0, 0, 0))

	wires := c.Wires()
	if wires.Len() != 2 {
		t.Fatalf("wires = %d, want the member wire plus the face boundary", wires.Len())
	}
	for i := 0; i < wires.Len(); i++ {
		if wires.At(i).Kind() != topo.KindWire {
			t.Errorf("member %d: expected wire, got %T", i, wires.At(i))
		}
	}
}

func TestShellsFlattenSolidBoundaries(t *testing.T) {
	env := testEnv(t)
	solid, err := topo.NewBoxSolid(env, r3.Vector{}, r3.Vector{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatalf("NewBoxSolid: %v", err)
	}
	c := topo.NewCollection(env, solid, topo.NewVertex(0, 0, 0))

	shells := c.Shells()
	if shells.Len() != 1 {
		t.Fatalf("shells = %d, want the solid's boundary shell", shells.Len())
	}
	sh, ok := shells.At(0).(*topo.Shell)
	if !ok {
		t.Fatalf("expected shell, got %T", shells.At(0))
	}
	if len(sh.Faces()) != 6 {
		t.Errorf("boundary shell has %d faces, want 6", len(sh.Faces()))
	}
}
