package scene

import (
	"fmt"

	"github.com/achilleasa/go-kdtree/types"
)

// TriangleMesh aggregates a shared vertex pool and a face index list. The
// mesh itself cannot be intersected; it refines into one Triangle primitive
// per face, with all triangles referencing the shared pool.
type TriangleMesh struct {
	// Optional mesh name (e.g. the wavefront object name).
	Name string

	// The shared vertex and (optional) normal pools.
	Vertices []types.Vec3
	Normals  []types.Vec3

	// Vertex indices, three per face.
	Faces [][3]uint32
}

// Create a new triangle mesh primitive.
func NewTriangleMesh(name string, vertices []types.Vec3, faces [][3]uint32) *TriangleMesh {
	return &TriangleMesh{
		Name:     name,
		Vertices: vertices,
		Faces:    faces,
	}
}

// Get the world-space bounds of all mesh vertices referenced by a face.
func (m *TriangleMesh) WorldBound() types.BBox {
	bbox := types.NewBBox()
	for _, face := range m.Faces {
		for _, vertIndex := range face {
			bbox = bbox.Extend(m.Vertices[vertIndex])
		}
	}
	return bbox
}

// Meshes must be refined into triangles before intersection.
func (m *TriangleMesh) CanIntersect() bool {
	return false
}

// Append one Triangle per mesh face to the refined primitive list.
func (m *TriangleMesh) FullyRefine(sink []Primitive) ([]Primitive, error) {
	for faceIndex, face := range m.Faces {
		for _, vertIndex := range face {
			if int(vertIndex) >= len(m.Vertices) {
				return nil, fmt.Errorf("scene: mesh %q face %d references vertex %d; mesh defines %d vertices", m.Name, faceIndex, vertIndex, len(m.Vertices))
			}
		}
		sink = append(sink, &Triangle{Mesh: m, Face: faceIndex})
	}
	return sink, nil
}

// Intersect always fails for unrefined meshes.
func (m *TriangleMesh) Intersect(ray *types.Ray, isect *Intersection) bool {
	return false
}

// IntersectP always fails for unrefined meshes.
func (m *TriangleMesh) IntersectP(ray *types.Ray) bool {
	return false
}
