package types

import "github.com/chewxy/math32"

// Ray defines a parametric ray segment. Primitives that report a hit via
// their Intersect method are expected to clamp MaxT to the hit distance so
// that subsequent intersection tests are pruned against the closest hit
// found so far.
type Ray struct {
	O Vec3
	D Vec3

	MinT float32
	MaxT float32
}

// Create a new ray with an unbounded parametric range.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		O:    origin,
		D:    dir,
		MinT: 0,
		MaxT: math32.MaxFloat32,
	}
}

// Get the point at parametric distance t along the ray.
func (r *Ray) At(t float32) Vec3 {
	return r.O.Add(r.D.Mul(t))
}
