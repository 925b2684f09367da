package accel

import "errors"

var (
	ErrNoPrimitives   = errors.New("accel: no primitives to partition")
	ErrDepthBudget    = errors.New("accel: tree depth budget exceeds traversal stack capacity")
	ErrBuildInvariant = errors.New("accel: builder invariant violation")
	ErrSpliceMismatch = errors.New("accel: sub-tree placeholder mismatch")
)
