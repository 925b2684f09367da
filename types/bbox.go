package types

import "github.com/chewxy/math32"

// BBox defines an axis-aligned bounding box by its two extreme corners.
type BBox struct {
	PMin Vec3
	PMax Vec3
}

// Create a degenerate bbox that unions correctly with any point or bbox.
func NewBBox() BBox {
	return BBox{
		PMin: Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		PMax: Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// Create a bbox that encloses the given points.
func BBoxFromPoints(points ...Vec3) BBox {
	b := NewBBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend the bbox so that it encloses point p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{
		PMin: MinVec3(b.PMin, p),
		PMax: MaxVec3(b.PMax, p),
	}
}

// Calculate the union of two bboxes.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{
		PMin: MinVec3(b.PMin, b2.PMin),
		PMax: MaxVec3(b.PMax, b2.PMax),
	}
}

// Check whether the two bboxes overlap along all three axes.
func (b BBox) Overlaps(b2 BBox) bool {
	return b.PMax[0] >= b2.PMin[0] && b.PMin[0] <= b2.PMax[0] &&
		b.PMax[1] >= b2.PMin[1] && b.PMin[1] <= b2.PMax[1] &&
		b.PMax[2] >= b2.PMin[2] && b.PMin[2] <= b2.PMax[2]
}

// Get the vector connecting the min to the max corner.
func (b BBox) Diagonal() Vec3 {
	return b.PMax.Sub(b.PMin)
}

// Calculate the total surface area of the bbox faces.
func (b BBox) SurfaceArea() float32 {
	d := b.Diagonal()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Get the axis along which the bbox extends the most.
func (b BBox) MaximumExtent() int {
	d := b.Diagonal()
	if d[0] > d[1] && d[0] > d[2] {
		return 0
	} else if d[1] > d[2] {
		return 1
	}
	return 2
}

// Clip the parametric range of a ray against the bbox using the slab method.
// Returns the clipped range and a flag indicating whether any part of the
// range is inside the bbox.
func (b BBox) IntersectP(ray *Ray) (float32, float32, bool) {
	t0, t1 := ray.MinT, ray.MaxT
	for axis := 0; axis < 3; axis++ {
		// A zero direction component yields +/-Inf slab distances which
		// propagate correctly through the min/max below.
		invDir := 1.0 / ray.D[axis]
		tNear := (b.PMin[axis] - ray.O[axis]) * invDir
		tFar := (b.PMax[axis] - ray.O[axis]) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}
