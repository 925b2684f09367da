package accel

import (
	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

// subTreeTask independently builds a self-contained kd-tree over a bounded
// sub-problem. The task owns a by-value copy of its primitive subset and a
// local-to-global id map; its node store references primitives by local id
// until the splice pass translates them.
type subTreeTask struct {
	prims   []scene.Primitive
	primMap []uint32

	bounds     types.BBox
	depth      int
	badRefines int

	// Index of the placeholder slot reserved in the spawning builder's
	// node array, and the number of tree levels above the task root.
	originNodeIdx int
	depthOffset   int

	opts Options

	// Build products, valid once Run returns with a nil err.
	nodes       []kdNode
	leafPrims   []uint32
	nLeafs      int
	deepestLeaf int
	err         error
}

// Extract a sub-problem into a task and reserve its placeholder node slot.
func (b *treeBuilder) spawnSubTree(primNums []uint32, bounds types.BBox, depth, badRefines, originNodeIdx int) {
	prims := make([]scene.Primitive, len(primNums))
	primMap := make([]uint32, len(primNums))
	for i, id := range primNums {
		prims[i] = b.primitives[id]
		primMap[i] = id
	}
	if b.opts.ResetBadRefines {
		badRefines = 0
	}

	b.tasks = append(b.tasks, &subTreeTask{
		prims:         prims,
		primMap:       primMap,
		bounds:        bounds,
		depth:         depth,
		badRefines:    badRefines,
		originNodeIdx: originNodeIdx,
		depthOffset:   b.depthBudget - depth,
		opts:          b.opts,
	})

	// The placeholder slot is consumed by the splice pass.
	b.reserveNode()
	b.nextFreeNode++
}

// Run the task on a pool worker. Sub-tree builds are strictly sequential;
// the primitives are already refined so only the bounds pass and the
// recursive build are repeated for the subset.
func (t *subTreeTask) Run() {
	primBounds := make([]types.BBox, len(t.prims))
	primNums := make([]uint32, len(t.prims))
	for i, prim := range t.prims {
		primBounds[i] = prim.WorldBound()
		primNums[i] = uint32(i)
	}

	b := newTreeBuilder(t.opts, t.prims, primBounds, t.depth, false, 0)
	if err := b.buildTree(0, t.bounds, primNums, t.depth, t.badRefines, b.prims1); err != nil {
		t.err = err
		return
	}

	t.nodes = b.nodes[:b.nextFreeNode]
	t.leafPrims = b.leafPrims
	t.nLeafs = b.nLeafs
	t.deepestLeaf = b.deepestLeaf
}
