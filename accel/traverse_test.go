package accel

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

// countingSphere wraps a sphere and counts intersection calls.
type countingSphere struct {
	*scene.Sphere
	calls int
}

func (c *countingSphere) Intersect(ray *types.Ray, isect *scene.Intersection) bool {
	c.calls++
	return c.Sphere.Intersect(ray, isect)
}

func (c *countingSphere) FullyRefine(sink []scene.Primitive) ([]scene.Primitive, error) {
	return append(sink, c), nil
}

func TestRayOutsideBounds(t *testing.T) {
	kd, err := New(randomTriangles(64, 9), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// The soup lives in the unit cube; aim a ray away from it.
	ray := types.NewRay(types.Vec3{10, 10, 10}, types.Vec3{1, 0, 0})
	var isect scene.Intersection
	if kd.Intersect(&ray, &isect) {
		t.Fatal("expected a ray outside the tree bounds to miss")
	}
	if kd.IntersectP(&ray) {
		t.Fatal("expected a ray outside the tree bounds to miss")
	}
}

func TestLeafPrimitivesTestedOnce(t *testing.T) {
	prims := make([]scene.Primitive, 4)
	counters := make([]*countingSphere, 4)
	for i := range prims {
		counters[i] = &countingSphere{
			Sphere: scene.NewSphere(types.Vec3{float32(i), 0, 0}, 0.4),
		}
		prims[i] = counters[i]
	}

	// Force every primitive into the root leaf.
	opts := DefaultOptions()
	opts.MaxPrims = len(prims)
	kd, err := New(prims, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(kd.nodes) != 1 || !kd.nodes[0].isLeaf() {
		t.Fatal("expected a single root leaf")
	}

	// A ray starting inside the leaf must test each primitive exactly once.
	ray := types.NewRay(types.Vec3{1.5, 0, 0}, types.Vec3{1, 0, 0})
	var isect scene.Intersection
	kd.Intersect(&ray, &isect)

	for i, counter := range counters {
		if counter.calls != 1 {
			t.Fatalf("expected primitive %d to receive exactly one intersect call; got %d", i, counter.calls)
		}
	}
}

func TestAnyHitQuery(t *testing.T) {
	near := scene.NewSphere(types.Vec3{-5, 0, 0}, 1)
	far := scene.NewSphere(types.Vec3{5, 0, 0}, 1)
	kd, err := New([]scene.Primitive{near, far}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	ray := types.NewRay(types.Vec3{-10, 0, 0}, types.Vec3{1, 0, 0})
	if !kd.IntersectP(&ray) {
		t.Fatal("expected the shadow ray to report an occluder")
	}

	miss := types.NewRay(types.Vec3{-10, 3, 0}, types.Vec3{1, 0, 0})
	if kd.IntersectP(&miss) {
		t.Fatal("expected the shadow ray to miss both spheres")
	}
}

func TestMaxTPruning(t *testing.T) {
	near := scene.NewSphere(types.Vec3{-5, 0, 0}, 1)
	far := scene.NewSphere(types.Vec3{5, 0, 0}, 1)
	kd, err := New([]scene.Primitive{near, far}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Clamp the ray so that it ends before reaching the nearer sphere.
	ray := types.NewRay(types.Vec3{-10, 0, 0}, types.Vec3{1, 0, 0})
	ray.MaxT = 3
	var isect scene.Intersection
	if kd.Intersect(&ray, &isect) {
		t.Fatal("expected no hit inside the clamped parametric range")
	}
}

func TestConcurrentTraversal(t *testing.T) {
	kd, err := New(randomTriangles(1000, 31), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	// Post-build the tree is immutable; hammer it from multiple goroutines
	// and verify any-hit agreement with a brute-force scan.
	var wg sync.WaitGroup
	mismatches := make(chan string, 8)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			center := kd.bounds.PMin.Add(kd.bounds.PMax).Mul(0.5)
			radius := kd.bounds.Diagonal().Len()
			for i := 0; i < 50; i++ {
				dir := types.Vec3{
					rng.Float32()*2 - 1,
					rng.Float32()*2 - 1,
					rng.Float32()*2 - 1,
				}.Normalize()
				origin := center.Add(dir.Mul(radius))
				target := center

				accelRay := types.NewRay(origin, target.Sub(origin).Normalize())
				accelHit := kd.IntersectP(&accelRay)

				bruteRay := types.NewRay(origin, target.Sub(origin).Normalize())
				bruteHit := false
				for _, prim := range kd.primitives {
					if prim.IntersectP(&bruteRay) {
						bruteHit = true
						break
					}
				}

				if accelHit != bruteHit {
					mismatches <- fmt.Sprintf("seed %d ray %d: expected any-hit %t; got %t", seed, i, bruteHit, accelHit)
					return
				}
			}
		}(int64(worker + 1))
	}
	wg.Wait()
	close(mismatches)
	for msg := range mismatches {
		t.Fatal(msg)
	}
}
