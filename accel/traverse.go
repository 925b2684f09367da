package accel

import (
	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

// Capacity of the traversal to-do stack. The builder rejects depth budgets
// beyond this, so a traversal can never push more deferred children than the
// stack holds.
const maxTodo = 64

type kdToDo struct {
	node int
	tmin float32
	tmax float32
}

// Find the closest primitive intersection along the ray. Nodes are visited
// front to back; leaf primitives clamp ray.MaxT on every hit, which both
// resolves the closest hit and prunes the remaining traversal.
func (kd *KdTree) Intersect(ray *types.Ray, isect *scene.Intersection) bool {
	tmin, tmax, ok := kd.bounds.IntersectP(ray)
	if !ok {
		return false
	}

	invDir := types.Vec3{1 / ray.D[0], 1 / ray.D[1], 1 / ray.D[2]}
	var todo [maxTodo]kdToDo
	todoPos := 0

	hit := false
	nodeIdx := 0
	for {
		// Bail out if we already found a hit closer than the current node.
		if ray.MaxT < tmin {
			break
		}

		node := &kd.nodes[nodeIdx]
		if !node.isLeaf() {
			axis := node.splitAxis()
			tPlane := (node.splitPos() - ray.O[axis]) * invDir[axis]

			// Pick the child the ray enters first. Rays starting on
			// the split plane tie-break on the direction sign.
			belowFirst := ray.O[axis] < node.splitPos() ||
				(ray.O[axis] == node.splitPos() && ray.D[axis] <= 0)
			var first, second int
			if belowFirst {
				first, second = nodeIdx+1, int(node.aboveChild())
			} else {
				first, second = int(node.aboveChild()), nodeIdx+1
			}

			if tPlane > tmax || tPlane <= 0 {
				nodeIdx = first
			} else if tPlane < tmin {
				nodeIdx = second
			} else {
				todo[todoPos] = kdToDo{node: second, tmin: tPlane, tmax: tmax}
				todoPos++
				nodeIdx = first
				tmax = tPlane
			}
			continue
		}

		switch n := node.nPrimitives(); n {
		case 0:
		case 1:
			if kd.primitives[node.onePrimitive()].Intersect(ray, isect) {
				hit = true
			}
		default:
			for _, id := range kd.leafPrims[node.primOffset() : node.primOffset()+n] {
				if kd.primitives[id].Intersect(ray, isect) {
					hit = true
				}
			}
		}

		if todoPos == 0 {
			break
		}
		todoPos--
		nodeIdx = todo[todoPos].node
		tmin = todo[todoPos].tmin
		tmax = todo[todoPos].tmax
	}
	return hit
}

// Check whether the ray intersects any primitive, returning on the first
// hit. Used for shadow/visibility queries where the closest hit is not
// needed.
func (kd *KdTree) IntersectP(ray *types.Ray) bool {
	tmin, tmax, ok := kd.bounds.IntersectP(ray)
	if !ok {
		return false
	}

	invDir := types.Vec3{1 / ray.D[0], 1 / ray.D[1], 1 / ray.D[2]}
	var todo [maxTodo]kdToDo
	todoPos := 0

	nodeIdx := 0
	for {
		node := &kd.nodes[nodeIdx]
		if node.isLeaf() {
			switch n := node.nPrimitives(); n {
			case 0:
			case 1:
				if kd.primitives[node.onePrimitive()].IntersectP(ray) {
					return true
				}
			default:
				for _, id := range kd.leafPrims[node.primOffset() : node.primOffset()+n] {
					if kd.primitives[id].IntersectP(ray) {
						return true
					}
				}
			}

			if todoPos == 0 {
				break
			}
			todoPos--
			nodeIdx = todo[todoPos].node
			tmin = todo[todoPos].tmin
			tmax = todo[todoPos].tmax
			continue
		}

		axis := node.splitAxis()
		tPlane := (node.splitPos() - ray.O[axis]) * invDir[axis]

		belowFirst := ray.O[axis] < node.splitPos() ||
			(ray.O[axis] == node.splitPos() && ray.D[axis] <= 0)
		var first, second int
		if belowFirst {
			first, second = nodeIdx+1, int(node.aboveChild())
		} else {
			first, second = int(node.aboveChild()), nodeIdx+1
		}

		if tPlane > tmax || tPlane <= 0 {
			nodeIdx = first
		} else if tPlane < tmin {
			nodeIdx = second
		} else {
			todo[todoPos] = kdToDo{node: second, tmin: tPlane, tmax: tmax}
			todoPos++
			nodeIdx = first
			tmax = tPlane
		}
	}
	return false
}
