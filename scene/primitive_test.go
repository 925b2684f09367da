package scene

import (
	"testing"

	"github.com/achilleasa/go-kdtree/types"
)

func TestSphereIntersect(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, 0}, 1)

	bound := sphere.WorldBound()
	if bound.PMin != (types.Vec3{-1, -1, -1}) || bound.PMax != (types.Vec3{1, 1, 1}) {
		t.Fatalf("unexpected sphere bounds %v", bound)
	}

	ray := types.NewRay(types.Vec3{-5, 0, 0}, types.Vec3{1, 0, 0})
	var isect Intersection
	if !sphere.Intersect(&ray, &isect) {
		t.Fatal("expected the ray to hit the sphere")
	}
	if isect.T != 4 {
		t.Fatalf("expected hit at t=4; got t=%f", isect.T)
	}
	if ray.MaxT != 4 {
		t.Fatalf("expected the hit to clamp ray.MaxT to 4; got %f", ray.MaxT)
	}
	if isect.Normal != (types.Vec3{-1, 0, 0}) {
		t.Fatalf("unexpected hit normal %v", isect.Normal)
	}

	// A second intersection test against a farther sphere must fail now
	// that MaxT is clamped.
	farther := NewSphere(types.Vec3{5, 0, 0}, 1)
	if farther.Intersect(&ray, &isect) {
		t.Fatal("expected the clamped ray to miss the farther sphere")
	}

	miss := types.NewRay(types.Vec3{-5, 3, 0}, types.Vec3{1, 0, 0})
	if sphere.Intersect(&miss, &isect) {
		t.Fatal("expected the offset ray to miss the sphere")
	}
	if sphere.IntersectP(&miss) {
		t.Fatal("expected the offset ray to miss the sphere")
	}
}

func TestSphereIntersectFromInside(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, 0}, 2)
	ray := types.NewRay(types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0})
	var isect Intersection
	if !sphere.Intersect(&ray, &isect) {
		t.Fatal("expected a ray starting inside the sphere to hit its shell")
	}
	if isect.T != 2 {
		t.Fatalf("expected hit at t=2; got t=%f", isect.T)
	}
}

func TestTriangleIntersect(t *testing.T) {
	tri := NewTriangle(
		types.Vec3{0, 0, 0},
		types.Vec3{2, 0, 0},
		types.Vec3{0, 2, 0},
	)

	ray := types.NewRay(types.Vec3{0.5, 0.5, -3}, types.Vec3{0, 0, 1})
	var isect Intersection
	if !tri.Intersect(&ray, &isect) {
		t.Fatal("expected the ray to hit the triangle")
	}
	if isect.T != 3 {
		t.Fatalf("expected hit at t=3; got t=%f", isect.T)
	}
	if ray.MaxT != 3 {
		t.Fatalf("expected the hit to clamp ray.MaxT to 3; got %f", ray.MaxT)
	}

	outside := types.NewRay(types.Vec3{3, 3, -3}, types.Vec3{0, 0, 1})
	if tri.IntersectP(&outside) {
		t.Fatal("expected the ray to miss outside the triangle")
	}

	parallel := types.NewRay(types.Vec3{0.5, 0.5, -3}, types.Vec3{1, 0, 0})
	if tri.IntersectP(&parallel) {
		t.Fatal("expected the coplanar-direction ray to miss")
	}
}

func TestMeshRefine(t *testing.T) {
	mesh := NewTriangleMesh("quad",
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[][3]uint32{{0, 1, 2}, {0, 2, 3}},
	)

	if mesh.CanIntersect() {
		t.Fatal("expected meshes to require refinement")
	}

	refined, err := mesh.FullyRefine(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refined) != 2 {
		t.Fatalf("expected 2 refined triangles; got %d", len(refined))
	}
	for idx, prim := range refined {
		if !prim.CanIntersect() {
			t.Fatalf("expected refined primitive %d to be intersectable", idx)
		}
	}

	bound := mesh.WorldBound()
	if bound.PMin != (types.Vec3{0, 0, 0}) || bound.PMax != (types.Vec3{1, 1, 0}) {
		t.Fatalf("unexpected mesh bounds %v", bound)
	}
}

func TestMeshRefineReportsBadIndices(t *testing.T) {
	mesh := NewTriangleMesh("broken",
		[]types.Vec3{{0, 0, 0}, {1, 0, 0}},
		[][3]uint32{{0, 1, 5}},
	)
	if _, err := mesh.FullyRefine(nil); err == nil {
		t.Fatal("expected refinement to fail for out-of-bounds vertex indices")
	}
}
