package accel

// Options control kd-tree construction. The zero value is not usable; start
// from DefaultOptions and override individual fields.
type Options struct {
	// SAH weights for primitive intersection and node traversal.
	IntersectCost int
	TraversalCost int

	// Cost discount applied when one side of a candidate split is empty.
	EmptyBonus float32

	// Maximum number of primitives in a leaf before the builder attempts
	// to split.
	MaxPrims int

	// Maximum recursion depth. A negative value selects
	// round(8 + 1.3*log2(N)) once the refined primitive count N is known.
	MaxDepth int

	// Enable parallel refinement, parallel bounds computation and
	// sub-tree task spawning.
	ParallelEntry bool

	// Upper bound on the primitive count of a sub-problem that may be
	// offloaded as a sub-tree task. A value <= 0 selects
	// max(1024, N/workers/64) once the refined primitive count N is
	// known.
	WorkloadSize int

	// Start sub-tree tasks with a zeroed bad-refine counter instead of
	// inheriting the spawning node's counter.
	ResetBadRefines bool
}

// Get the default construction options.
func DefaultOptions() Options {
	return Options{
		IntersectCost: 80,
		TraversalCost: 1,
		EmptyBonus:    0.5,
		MaxPrims:      1,
		MaxDepth:      -1,
	}
}
