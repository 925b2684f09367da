package accel

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

const (
	// Initial node store capacity; the store doubles when full.
	initialNodeAlloc = 512

	// Floor for the adaptive sub-tree task size limit.
	minWorkloadSize = 1024
)

type edgeKind uint8

const (
	edgeStart edgeKind = iota
	edgeEnd
)

// boundEdge marks the entry or exit of a primitive's bounding interval along
// a candidate split axis.
type boundEdge struct {
	t       float32
	primNum uint32
	kind    edgeKind
}

// splitChoice is the outcome of the SAH sweep: the winning axis/edge offset
// pair, or axis == -1 when no candidate position was found.
type splitChoice struct {
	axis   int
	offset int
	cost   float32
}

// treeBuilder owns the scratch state for one build invocation. The root
// build and every sub-tree task use their own instance.
type treeBuilder struct {
	opts Options

	primitives []scene.Primitive
	primBounds []types.BBox

	// Reusable edge records, one array per axis, each sized 2N.
	edges [3][]boundEdge

	// Primitive id scratch. prims0 is shared by all recursion levels;
	// prims1 is sized (depthBudget+1)*N and sliced so that each level owns
	// a disjoint window.
	prims0 []uint32
	prims1 []uint32

	nodes        []kdNode
	leafPrims    []uint32
	nextFreeNode int

	parallel     bool
	workloadSize int
	depthBudget  int

	tasks []*subTreeTask

	nLeafs      int
	deepestLeaf int
}

func newTreeBuilder(opts Options, prims []scene.Primitive, primBounds []types.BBox, depthBudget int, parallel bool, workloadSize int) *treeBuilder {
	nPrims := len(prims)
	b := &treeBuilder{
		opts:         opts,
		primitives:   prims,
		primBounds:   primBounds,
		prims0:       make([]uint32, nPrims),
		prims1:       make([]uint32, (depthBudget+1)*nPrims),
		parallel:     parallel,
		workloadSize: workloadSize,
		depthBudget:  depthBudget,
	}
	for axis := 0; axis < 3; axis++ {
		b.edges[axis] = make([]boundEdge, 2*nPrims)
	}
	return b
}

// Ensure the node store has room for one more node, doubling by copy when
// full.
func (b *treeBuilder) reserveNode() {
	if b.nextFreeNode < len(b.nodes) {
		return
	}
	nAlloc := 2 * len(b.nodes)
	if nAlloc < initialNodeAlloc {
		nAlloc = initialNodeAlloc
	}
	grown := make([]kdNode, nAlloc)
	copy(grown, b.nodes)
	b.nodes = grown
}

func (b *treeBuilder) createLeaf(nodeNum int, primNums []uint32, depth int) {
	b.nodes[nodeNum].initLeaf(primNums, &b.leafPrims)
	b.nLeafs++
	if used := b.depthBudget - depth; used > b.deepestLeaf {
		b.deepestLeaf = used
	}
}

// Check whether a child sub-problem should be offloaded as a sub-tree task.
func (b *treeBuilder) shouldSpawn(nChild int) bool {
	return b.parallel && nChild > b.opts.MaxPrims && nChild < b.workloadSize
}

// Recursively build the tree for the sub-problem described by nodeBounds and
// primNums, emitting nodes in DFS pre-order. prims1 is the scratch window
// owned by this recursion level.
func (b *treeBuilder) buildTree(nodeNum int, nodeBounds types.BBox, primNums []uint32, depth, badRefines int, prims1 []uint32) error {
	if nodeNum != b.nextFreeNode {
		return fmt.Errorf("%w: expected to emit node %d; next free node is %d", ErrBuildInvariant, nodeNum, b.nextFreeNode)
	}
	b.reserveNode()
	b.nextFreeNode++

	nPrims := len(primNums)
	if nPrims <= b.opts.MaxPrims || depth == 0 {
		b.createLeaf(nodeNum, primNums, depth)
		return nil
	}

	choice, err := b.chooseSplit(nodeBounds, primNums)
	if err != nil {
		return err
	}

	noSplitCost := float32(b.opts.IntersectCost) * float32(nPrims)
	if choice.cost > noSplitCost {
		badRefines++
	}
	if (choice.cost > 4*noSplitCost && nPrims < 16) || choice.axis == -1 || badRefines == 3 {
		b.createLeaf(nodeNum, primNums, depth)
		return nil
	}

	// Classify primitives with respect to the split; straddling primitives
	// land on both sides.
	edges := b.edges[choice.axis]
	n0, n1 := 0, 0
	for i := 0; i < choice.offset; i++ {
		if edges[i].kind == edgeStart {
			b.prims0[n0] = edges[i].primNum
			n0++
		}
	}
	for i := choice.offset + 1; i < 2*nPrims; i++ {
		if edges[i].kind == edgeEnd {
			prims1[n1] = edges[i].primNum
			n1++
		}
	}

	tSplit := edges[choice.offset].t
	bounds0, bounds1 := nodeBounds, nodeBounds
	bounds0.PMax[choice.axis] = tSplit
	bounds1.PMin[choice.axis] = tSplit

	if b.shouldSpawn(n0) {
		b.spawnSubTree(b.prims0[:n0], bounds0, depth-1, badRefines, nodeNum+1)
	} else {
		if err := b.buildTree(nodeNum+1, bounds0, b.prims0[:n0], depth-1, badRefines, prims1[nPrims:]); err != nil {
			return err
		}
	}

	aboveChild := uint32(b.nextFreeNode)
	b.nodes[nodeNum].initInterior(choice.axis, aboveChild, tSplit)

	if b.shouldSpawn(n1) {
		b.spawnSubTree(prims1[:n1], bounds1, depth-1, badRefines, int(aboveChild))
	} else {
		if err := b.buildTree(int(aboveChild), bounds1, prims1[:n1], depth-1, badRefines, prims1[nPrims:]); err != nil {
			return err
		}
	}
	return nil
}

// Pick the SAH-optimal split position for the sub-problem, sweeping the
// bounding interval edges of its primitives along up to three axes.
func (b *treeBuilder) chooseSplit(nodeBounds types.BBox, primNums []uint32) (splitChoice, error) {
	nPrims := len(primNums)
	best := splitChoice{axis: -1, offset: -1, cost: math32.Inf(1)}

	invTotalSA := 1.0 / nodeBounds.SurfaceArea()
	d := nodeBounds.Diagonal()

	axis := nodeBounds.MaximumExtent()
	for retries := 0; ; retries++ {
		edges := b.edges[axis][:2*nPrims]
		for i, pn := range primNums {
			bbox := b.primBounds[pn]
			edges[2*i] = boundEdge{t: bbox.PMin[axis], primNum: pn, kind: edgeStart}
			edges[2*i+1] = boundEdge{t: bbox.PMax[axis], primNum: pn, kind: edgeEnd}
		}
		// Ties sort START before END so a primitive whose interval
		// degenerates to a point at the split counts as inside, not
		// straddling.
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].t == edges[j].t {
				return edges[i].kind < edges[j].kind
			}
			return edges[i].t < edges[j].t
		})

		// Sweep the edges left to right, evaluating the SAH cost at
		// every candidate position strictly inside the node bounds.
		nBelow, nAbove := 0, nPrims
		for i := 0; i < 2*nPrims; i++ {
			if edges[i].kind == edgeEnd {
				nAbove--
			}
			edgeT := edges[i].t
			if edgeT > nodeBounds.PMin[axis] && edgeT < nodeBounds.PMax[axis] {
				otherAxis0, otherAxis1 := (axis+1)%3, (axis+2)%3
				belowSA := 2 * (d[otherAxis0]*d[otherAxis1] +
					(edgeT-nodeBounds.PMin[axis])*(d[otherAxis0]+d[otherAxis1]))
				aboveSA := 2 * (d[otherAxis0]*d[otherAxis1] +
					(nodeBounds.PMax[axis]-edgeT)*(d[otherAxis0]+d[otherAxis1]))
				pBelow := belowSA * invTotalSA
				pAbove := aboveSA * invTotalSA
				var emptyBonus float32
				if nAbove == 0 || nBelow == 0 {
					emptyBonus = b.opts.EmptyBonus
				}
				cost := float32(b.opts.TraversalCost) +
					float32(b.opts.IntersectCost)*(1-emptyBonus)*(pBelow*float32(nBelow)+pAbove*float32(nAbove))
				if cost < best.cost {
					best.cost = cost
					best.axis = axis
					best.offset = i
				}
			}
			if edges[i].kind == edgeStart {
				nBelow++
			}
		}
		if nBelow != nPrims || nAbove != 0 {
			return best, fmt.Errorf("%w: edge sweep ended with nBelow=%d nAbove=%d for %d primitives", ErrBuildInvariant, nBelow, nAbove, nPrims)
		}

		if best.axis != -1 || retries == 2 {
			return best, nil
		}
		axis = (axis + 1) % 3
	}
}
