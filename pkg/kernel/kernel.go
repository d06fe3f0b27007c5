// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid construction, boolean operations and
// triangulation behind this interface, so the orchestration layers in
// pkg/topo never depend on a concrete modeling backend.
package kernel

// Axis indices used by Mirror.
const (
	AxisX = iota
	AxisY
	AxisZ
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	BoxFromCorners(min, max [3]float64) (Solid, error)
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, factor float64) Solid   // uniform scale about the origin
	// Mirror reflects across the plane normal to the given axis
	// (AxisX, AxisY, AxisZ) passing through the origin.
	Mirror(s Solid, axis int) Solid
	// Offset grows (positive distance) or shrinks (negative distance)
	// a solid by a uniform surface offset.
	Offset(s Solid, distance float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
