package scene

import (
	"github.com/achilleasa/go-kdtree/types"
)

// Intersection describes the closest primitive hit found along a ray.
type Intersection struct {
	// Parametric hit distance along the ray.
	T float32

	// World-space hit point and surface normal.
	Point  types.Vec3
	Normal types.Vec3

	// The primitive that was hit.
	Primitive Primitive
}

// The Primitive interface is implemented by all geometry that can be
// partitioned by an acceleration structure.
//
// Intersect implementations must clamp ray.MaxT to the hit distance whenever
// they report a hit; acceleration structures rely on this contract to prune
// traversal and to resolve the closest hit when a primitive straddles
// multiple tree cells.
type Primitive interface {
	// Get the world-space bounds of the primitive.
	WorldBound() types.BBox

	// Check whether the primitive supports direct ray intersection tests.
	// Aggregates (e.g. triangle meshes) return false and must be refined.
	CanIntersect() bool

	// Append the full refinement of this primitive to sink. Primitives
	// that can be intersected directly append themselves.
	FullyRefine(sink []Primitive) ([]Primitive, error)

	// Find the closest intersection in (ray.MinT, ray.MaxT).
	Intersect(ray *types.Ray, isect *Intersection) bool

	// Check for any intersection in (ray.MinT, ray.MaxT).
	IntersectP(ray *types.Ray) bool
}
