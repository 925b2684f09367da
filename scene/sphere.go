package scene

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-kdtree/types"
)

// Sphere is an analytic sphere primitive.
type Sphere struct {
	Center types.Vec3
	Radius float32
}

// Create a new sphere primitive.
func NewSphere(center types.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Get the world-space bounds of the sphere.
func (s *Sphere) WorldBound() types.BBox {
	r := types.Vec3{s.Radius, s.Radius, s.Radius}
	return types.BBox{
		PMin: s.Center.Sub(r),
		PMax: s.Center.Add(r),
	}
}

// Spheres can be intersected directly.
func (s *Sphere) CanIntersect() bool {
	return true
}

// Append the sphere to the refined primitive list.
func (s *Sphere) FullyRefine(sink []Primitive) ([]Primitive, error) {
	return append(sink, s), nil
}

// Find the closest ray/sphere intersection in (ray.MinT, ray.MaxT).
func (s *Sphere) Intersect(ray *types.Ray, isect *Intersection) bool {
	t, hit := s.hitDistance(ray)
	if !hit {
		return false
	}

	ray.MaxT = t
	isect.T = t
	isect.Point = ray.At(t)
	isect.Normal = isect.Point.Sub(s.Center).Normalize()
	isect.Primitive = s
	return true
}

// Check for any ray/sphere intersection in (ray.MinT, ray.MaxT).
func (s *Sphere) IntersectP(ray *types.Ray) bool {
	_, hit := s.hitDistance(ray)
	return hit
}

// Solve the ray/sphere quadratic and return the closest root inside the
// parametric ray range.
func (s *Sphere) hitDistance(ray *types.Ray) (float32, bool) {
	oc := ray.O.Sub(s.Center)
	a := ray.D.Dot(ray.D)
	b := 2 * oc.Dot(ray.D)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := math32.Sqrt(disc)
	q := -0.5 * (b + math32.Copysign(sqrtDisc, b))
	t0, t1 := q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	if t0 > ray.MinT && t0 < ray.MaxT {
		return t0, true
	}
	if t1 > ray.MinT && t1 < ray.MaxT {
		return t1, true
	}
	return 0, false
}
