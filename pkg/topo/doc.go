// Package topo provides the shape orchestration core of kerf: axis-aligned
// bounding boxes (BBox), the six topological entity kinds (Vertex, Edge,
// Wire, Face, Shell, Solid) behind a common Shape interface, and Collection,
// an ordered heterogeneous set of shapes supporting flattening ingestion,
// grouping, bulk transforms, boolean pass-throughs, deduplication and export
// to renderable buffers. Heavy geometric computation (CSG, meshing) is
// delegated to an injected kernel.Kernel.
package topo
