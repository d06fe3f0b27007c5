package sdfx

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestBoxMinCornerOrigin(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)

	min, max := box.BoundingBox()
	for i, want := range [3]float64{0, 0, 0} {
		if !approx(min[i], want, 1e-9) {
			t.Errorf("min[%d] = %f, want %f", i, min[i], want)
		}
	}
	for i, want := range [3]float64{100, 50, 25} {
		if !approx(max[i], want, 1e-9) {
			t.Errorf("max[%d] = %f, want %f", i, max[i], want)
		}
	}
}

func TestBoxFromCorners(t *testing.T) {
	k := New()
	s, err := k.BoxFromCorners([3]float64{5, 10, 15}, [3]float64{25, 30, 35})
	if err != nil {
		t.Fatalf("BoxFromCorners: %v", err)
	}

	min, max := s.BoundingBox()
	for i, want := range [3]float64{5, 10, 15} {
		if !approx(min[i], want, 1e-9) {
			t.Errorf("min[%d] = %f, want %f", i, min[i], want)
		}
	}
	for i, want := range [3]float64{25, 30, 35} {
		if !approx(max[i], want, 1e-9) {
			t.Errorf("max[%d] = %f, want %f", i, max[i], want)
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	moved := k.Translate(box, 5, 6, 7)

	min, _ := moved.BoundingBox()
	if !approx(min[0], 5, 1e-9) || !approx(min[1], 6, 1e-9) || !approx(min[2], 7, 1e-9) {
		t.Errorf("translated min = %v", min)
	}
}

func TestUnionBounds(t *testing.T) {
	k := New()
	a := k.Box(10, 10, 10)
	b := k.Translate(k.Box(10, 10, 10), 20, 0, 0)

	u := k.Union(a, b)
	min, max := u.BoundingBox()
	if min[0] > 1e-9 || max[0] < 30-1e-9 {
		t.Errorf("union x bounds = %f..%f, want 0..30", min[0], max[0])
	}
}

func TestMirror(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)

	m := k.Mirror(box, 0)
	min, max := m.BoundingBox()
	if !approx(min[0], -10, 1e-9) || !approx(max[0], 0, 1e-9) {
		t.Errorf("mirrored x bounds = %f..%f, want -10..0", min[0], max[0])
	}
}

func TestOffset(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)

	grown := k.Offset(box, 2)
	min, max := grown.BoundingBox()
	if !approx(min[0], -2, 1e-9) || !approx(max[0], 12, 1e-9) {
		t.Errorf("offset x bounds = %f..%f, want -2..12", min[0], max[0])
	}
}

func TestToMesh(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)

	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3", len(mesh.Indices))
	}
}
