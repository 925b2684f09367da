package scene

import (
	"github.com/chewxy/math32"

	"github.com/achilleasa/go-kdtree/types"
)

const triIntersectEpsilon float32 = 1e-7

// Triangle references a single face of a TriangleMesh.
type Triangle struct {
	Mesh *TriangleMesh
	Face int
}

// Create a standalone triangle primitive backed by an anonymous single-face
// mesh.
func NewTriangle(v0, v1, v2 types.Vec3) *Triangle {
	mesh := &TriangleMesh{
		Vertices: []types.Vec3{v0, v1, v2},
		Faces:    [][3]uint32{{0, 1, 2}},
	}
	return &Triangle{Mesh: mesh, Face: 0}
}

// Get the triangle vertices from the mesh vertex pool.
func (tr *Triangle) vertices() (types.Vec3, types.Vec3, types.Vec3) {
	face := tr.Mesh.Faces[tr.Face]
	return tr.Mesh.Vertices[face[0]], tr.Mesh.Vertices[face[1]], tr.Mesh.Vertices[face[2]]
}

// Get the world-space bounds of the triangle.
func (tr *Triangle) WorldBound() types.BBox {
	v0, v1, v2 := tr.vertices()
	return types.BBoxFromPoints(v0, v1, v2)
}

// Triangles can be intersected directly.
func (tr *Triangle) CanIntersect() bool {
	return true
}

// Append the triangle to the refined primitive list.
func (tr *Triangle) FullyRefine(sink []Primitive) ([]Primitive, error) {
	return append(sink, tr), nil
}

// Find the closest ray/triangle intersection in (ray.MinT, ray.MaxT) using
// the Moeller-Trumbore test.
func (tr *Triangle) Intersect(ray *types.Ray, isect *Intersection) bool {
	t, hit := tr.hitDistance(ray)
	if !hit {
		return false
	}

	v0, v1, v2 := tr.vertices()
	ray.MaxT = t
	isect.T = t
	isect.Point = ray.At(t)
	isect.Normal = v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	isect.Primitive = tr
	return true
}

// Check for any ray/triangle intersection in (ray.MinT, ray.MaxT).
func (tr *Triangle) IntersectP(ray *types.Ray) bool {
	_, hit := tr.hitDistance(ray)
	return hit
}

func (tr *Triangle) hitDistance(ray *types.Ray) (float32, bool) {
	v0, v1, v2 := tr.vertices()
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	pvec := ray.D.Cross(edge2)
	det := edge1.Dot(pvec)
	if math32.Abs(det) < triIntersectEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tvec := ray.O.Sub(v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := ray.D.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(qvec) * invDet
	if t <= ray.MinT || t >= ray.MaxT {
		return 0, false
	}
	return t, true
}
