// Package geometry provides the integer plane primitives the editor is built on.
//
// Coordinates are editor pixels. Rectangles are stored as a center plus
// half-extents, which is how devices and pins describe themselves both in
// memory and in the layout file format.
//
// # Hit Testing
//
// [Rect.Contains] is boundary-inclusive. [OnSegment] is an approximate test
// with a fixed vertical tolerance of [SegmentTolerance] pixels; it is used to
// pick a net by clicking one of its rendered segments and intentionally does
// not project onto the segment.
//
// # Hulls
//
// [ConvexHull] returns indices into the input slice so callers can tell hull
// points from interior points without comparing coordinates.
package geometry
