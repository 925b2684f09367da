package accel

import (
	"fmt"
	"sort"
)

// Merge the partial root node array with the node arrays produced by the
// sub-tree tasks into one contiguous array, rewriting interior child indices
// and translating task-local leaf primitive ids to global ids. The inputs
// are treated as immutable; the pass produces a fresh node array and a fresh
// leaf id pool.
//
// Each task consumes the placeholder slot reserved for it during the root
// build, so the final array holds
// len(rootNodes) + sum(len(task.nodes)) - len(tasks) entries.
func spliceSubTrees(rootNodes []kdNode, rootLeafPrims []uint32, tasks []*subTreeTask) ([]kdNode, []uint32, error) {
	finalSize := len(rootNodes) - len(tasks)
	origins := make([]int, len(tasks))
	for i, task := range tasks {
		if task.originNodeIdx < 0 || task.originNodeIdx >= len(rootNodes) {
			return nil, nil, fmt.Errorf("%w: placeholder index %d outside partial array of %d nodes", ErrSpliceMismatch, task.originNodeIdx, len(rootNodes))
		}
		if i > 0 && task.originNodeIdx <= tasks[i-1].originNodeIdx {
			return nil, nil, fmt.Errorf("%w: placeholder indices not strictly increasing (%d after %d)", ErrSpliceMismatch, task.originNodeIdx, tasks[i-1].originNodeIdx)
		}
		origins[i] = task.originNodeIdx
		finalSize += len(task.nodes)
	}

	// extraBefore[i] is the number of final-array slots injected by tasks
	// 0..i-1 beyond their consumed placeholders. The final position of a
	// partial-array index x is then x + extraBefore[sort.SearchInts(origins, x)].
	extraBefore := make([]int, len(tasks)+1)
	for i, task := range tasks {
		extraBefore[i+1] = extraBefore[i] + len(task.nodes) - 1
	}
	shiftAt := func(idx int) int {
		return extraBefore[sort.SearchInts(origins, idx)]
	}

	finalNodes := make([]kdNode, finalSize)
	finalLeafPrims := make([]uint32, 0, len(rootLeafPrims))

	taskCursor := 0
	for i := range rootNodes {
		if taskCursor < len(tasks) && origins[taskCursor] == i {
			task := tasks[taskCursor]
			blockStart := i + extraBefore[taskCursor]
			for j := range task.nodes {
				src := &task.nodes[j]
				dst := &finalNodes[blockStart+j]
				if src.isLeaf() {
					spliceTaskLeaf(src, dst, task, &finalLeafPrims)
				} else {
					dst.initInterior(src.splitAxis(), src.aboveChild()+uint32(blockStart), src.splitPos())
				}
			}
			taskCursor++
			continue
		}

		src := &rootNodes[i]
		dst := &finalNodes[i+extraBefore[taskCursor]]
		if src.isLeaf() {
			// Root leaf ids are already global; only multi-primitive
			// leaves need their id span moved to the final pool.
			if n := src.nPrimitives(); n > 1 {
				dst.initLeaf(rootLeafPrims[src.primOffset():src.primOffset()+n], &finalLeafPrims)
			} else {
				*dst = *src
			}
		} else {
			above := int(src.aboveChild())
			dst.initInterior(src.splitAxis(), uint32(above+shiftAt(above)), src.splitPos())
		}
	}
	if taskCursor != len(tasks) {
		return nil, nil, fmt.Errorf("%w: %d of %d placeholders consumed", ErrSpliceMismatch, taskCursor, len(tasks))
	}

	return finalNodes, finalLeafPrims, nil
}

// Copy a task leaf into the final array, translating its local primitive ids
// through the task's local-to-global map.
func spliceTaskLeaf(src, dst *kdNode, task *subTreeTask, finalLeafPrims *[]uint32) {
	switch n := src.nPrimitives(); n {
	case 0:
		dst.initLeaf(nil, finalLeafPrims)
	case 1:
		dst.initLeaf([]uint32{task.primMap[src.onePrimitive()]}, finalLeafPrims)
	default:
		globalIDs := make([]uint32, n)
		for k, localID := range task.leafPrims[src.primOffset() : src.primOffset()+n] {
			globalIDs[k] = task.primMap[localID]
		}
		dst.initLeaf(globalIDs, finalLeafPrims)
	}
}
