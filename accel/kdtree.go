package accel

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/achilleasa/go-kdtree/log"
	"github.com/achilleasa/go-kdtree/pool"
	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

// KdTree is an immutable kd-tree accelerator over a flat list of refined
// primitives. Once built it may be traversed concurrently by any number of
// goroutines.
type KdTree struct {
	opts Options

	// The flat refined primitive list; leaf nodes reference primitives by
	// index into this list.
	primitives []scene.Primitive

	// World bounds of the whole tree.
	bounds types.BBox

	// The contiguous node array and the id pool backing multi-primitive
	// leaves.
	nodes     []kdNode
	leafPrims []uint32

	stats BuildStats
}

// Build a kd-tree accelerator over the given primitives. When
// opts.ParallelEntry is set a worker pool with one worker per system core is
// created for the duration of the build.
func New(prims []scene.Primitive, opts Options) (*KdTree, error) {
	var workers *pool.Pool
	if opts.ParallelEntry {
		workers = pool.New(0)
		defer workers.Close()
	}
	return build(prims, opts, workers)
}

// Build a kd-tree accelerator using a caller-supplied worker pool. The pool
// is only used while NewWithPool runs; ownership stays with the caller.
func NewWithPool(prims []scene.Primitive, opts Options, workers *pool.Pool) (*KdTree, error) {
	return build(prims, opts, workers)
}

func build(prims []scene.Primitive, opts Options, workers *pool.Pool) (*KdTree, error) {
	logger := log.New("kdtree")
	parallel := opts.ParallelEntry && workers != nil
	kd := &KdTree{opts: opts}
	buildStart := time.Now()

	// Phase 1: flatten the input into fully refined primitives.
	stageStart := time.Now()
	var err error
	if parallel {
		kd.primitives, err = refineParallel(prims, workers)
	} else {
		kd.primitives, err = refineSequential(prims)
	}
	if err != nil {
		return nil, err
	}
	if len(kd.primitives) == 0 {
		return nil, ErrNoPrimitives
	}
	kd.stats.RefineTime = time.Since(stageStart)

	nPrims := len(kd.primitives)
	maxDepth := opts.MaxDepth
	if maxDepth < 0 {
		maxDepth = int(math32.Floor(8 + 1.3*math32.Log2(float32(nPrims)) + 0.5))
	}
	// Traversal uses a fixed-capacity to-do stack; reject any depth budget
	// it could not accommodate.
	if maxDepth > maxTodo {
		return nil, fmt.Errorf("%w: depth %d exceeds %d", ErrDepthBudget, maxDepth, maxTodo)
	}

	// Phase 2: per-primitive world bounds and the scene bound.
	stageStart = time.Now()
	var primBounds []types.BBox
	var primNums []uint32
	if parallel {
		primBounds, primNums, kd.bounds = computeBoundsParallel(kd.primitives, workers)
	} else {
		primBounds, primNums, kd.bounds = computeBoundsSequential(kd.primitives)
	}
	kd.stats.BoundsTime = time.Since(stageStart)

	workloadSize := opts.WorkloadSize
	if workloadSize <= 0 && parallel {
		workloadSize = nPrims / workers.Workers() / 64
		if workloadSize < minWorkloadSize {
			workloadSize = minWorkloadSize
		}
	}

	// Phase 3: serial root build, emitting sub-tree tasks.
	stageStart = time.Now()
	b := newTreeBuilder(opts, kd.primitives, primBounds, maxDepth, parallel, workloadSize)
	if err := b.buildTree(0, kd.bounds, primNums, maxDepth, 0, b.prims1); err != nil {
		return nil, err
	}

	if parallel && len(b.tasks) > 0 {
		// Phase 4: build sub-trees on the pool.
		poolTasks := make([]pool.Task, len(b.tasks))
		for i, task := range b.tasks {
			poolTasks[i] = task
		}
		workers.Enqueue(poolTasks...)
		workers.WaitAll()
		for _, task := range b.tasks {
			if task.err != nil {
				return nil, task.err
			}
		}
		kd.stats.BuildTime = time.Since(stageStart)

		// Phase 5: splice sub-trees into the final node array.
		stageStart = time.Now()
		kd.nodes, kd.leafPrims, err = spliceSubTrees(b.nodes[:b.nextFreeNode], b.leafPrims, b.tasks)
		if err != nil {
			return nil, err
		}
		kd.stats.SpliceTime = time.Since(stageStart)
	} else {
		kd.nodes = b.nodes[:b.nextFreeNode]
		kd.leafPrims = b.leafPrims
		kd.stats.BuildTime = time.Since(stageStart)
	}

	kd.stats.Primitives = nPrims
	kd.stats.Nodes = len(kd.nodes)
	kd.stats.Leafs = b.nLeafs
	kd.stats.MaxDepth = b.deepestLeaf
	kd.stats.SubTreeTasks = len(b.tasks)
	for _, task := range b.tasks {
		kd.stats.Leafs += task.nLeafs
		if d := task.depthOffset + task.deepestLeaf; d > kd.stats.MaxDepth {
			kd.stats.MaxDepth = d
		}
	}
	kd.stats.TotalTime = time.Since(buildStart)

	logger.Debugf(
		"kd-tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, subTreeTasks: %d\n",
		kd.stats.TotalTime.Nanoseconds()/1e6,
		kd.stats.MaxDepth, kd.stats.Nodes, kd.stats.Leafs, kd.stats.SubTreeTasks,
	)
	return kd, nil
}

// Get the world bounds of the tree.
func (kd *KdTree) WorldBound() types.BBox {
	return kd.bounds
}

// The tree can be intersected directly.
func (kd *KdTree) CanIntersect() bool {
	return true
}

// Append the tree itself to the refined primitive list; an accelerator is
// already fully refined.
func (kd *KdTree) FullyRefine(sink []scene.Primitive) ([]scene.Primitive, error) {
	return append(sink, kd), nil
}

// Get the flat refined primitive list owned by the tree.
func (kd *KdTree) Primitives() []scene.Primitive {
	return kd.primitives
}

// Get the build statistics for the tree.
func (kd *KdTree) Stats() BuildStats {
	return kd.stats
}

// Refine each input primitive in order, appending to a single flat list.
func refineSequential(prims []scene.Primitive) ([]scene.Primitive, error) {
	var flat []scene.Primitive
	var err error
	for _, prim := range prims {
		flat, err = prim.FullyRefine(flat)
		if err != nil {
			return nil, err
		}
	}
	return flat, nil
}

// Refine the input in parallel. The input is split into one contiguous range
// per worker; each worker refines into a private list and the lists are
// concatenated in range order so the flat list is deterministic.
func refineParallel(prims []scene.Primitive, workers *pool.Pool) ([]scene.Primitive, error) {
	numWorkers := workers.Workers()
	workerPrims := make([][]scene.Primitive, numWorkers)
	workerErrs := make([]error, numWorkers)

	tasks := make([]pool.Task, numWorkers)
	for i := 0; i < numWorkers; i++ {
		workerIdx := i
		startIdx := len(prims) * i / numWorkers
		endIdx := len(prims) * (i + 1) / numWorkers
		tasks[i] = pool.TaskFunc(func() {
			var local []scene.Primitive
			var err error
			for _, prim := range prims[startIdx:endIdx] {
				local, err = prim.FullyRefine(local)
				if err != nil {
					workerErrs[workerIdx] = err
					return
				}
			}
			workerPrims[workerIdx] = local
		})
	}
	workers.Enqueue(tasks...)
	workers.WaitAll()

	var flat []scene.Primitive
	for i := 0; i < numWorkers; i++ {
		if workerErrs[i] != nil {
			return nil, workerErrs[i]
		}
		flat = append(flat, workerPrims[i]...)
	}
	return flat, nil
}

// Compute per-primitive world bounds, the scene bound and the initial
// primitive id set.
func computeBoundsSequential(prims []scene.Primitive) ([]types.BBox, []uint32, types.BBox) {
	primBounds := make([]types.BBox, len(prims))
	primNums := make([]uint32, len(prims))
	bounds := types.NewBBox()
	for i, prim := range prims {
		primBounds[i] = prim.WorldBound()
		bounds = bounds.Union(primBounds[i])
		primNums[i] = uint32(i)
	}
	return primBounds, primNums, bounds
}

// Parallel variant of the bounds pass. Each worker fills a disjoint slice of
// the pre-sized arrays and accumulates a partial scene bound; the partial
// bounds are unioned serially.
func computeBoundsParallel(prims []scene.Primitive, workers *pool.Pool) ([]types.BBox, []uint32, types.BBox) {
	numWorkers := workers.Workers()
	primBounds := make([]types.BBox, len(prims))
	primNums := make([]uint32, len(prims))
	workerBounds := make([]types.BBox, numWorkers)

	tasks := make([]pool.Task, numWorkers)
	for i := 0; i < numWorkers; i++ {
		workerIdx := i
		startIdx := len(prims) * i / numWorkers
		endIdx := len(prims) * (i + 1) / numWorkers
		tasks[i] = pool.TaskFunc(func() {
			partial := types.NewBBox()
			for j := startIdx; j < endIdx; j++ {
				primBounds[j] = prims[j].WorldBound()
				partial = partial.Union(primBounds[j])
				primNums[j] = uint32(j)
			}
			workerBounds[workerIdx] = partial
		})
	}
	workers.Enqueue(tasks...)
	workers.WaitAll()

	bounds := types.NewBBox()
	for _, partial := range workerBounds {
		bounds = bounds.Union(partial)
	}
	return primBounds, primNums, bounds
}
