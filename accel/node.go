package accel

import (
	"math"
	"unsafe"
)

// kdNode packs an interior or a leaf record into 8 bytes for cache density.
//
// The two low bits of flags hold the split axis (0, 1, 2) for interior nodes
// or 3 for leaves; the upper 30 bits hold the above-child node index
// (interior) or the primitive count (leaf). For interior nodes data holds the
// raw bits of the float32 split position. For leaves data holds the single
// primitive id when the count is 1, or an offset into the tree's leaf id
// pool when the count is larger.
//
// The child covering the region below the split plane is always stored
// immediately after its parent, so only the above-child index is recorded.
type kdNode struct {
	data  uint32
	flags uint32
}

const (
	leafFlag         = 3
	nodeTagMask      = 3
	nodePayloadShift = 2
)

// Compile-time guard on the packed node size.
var _ [8]byte = [unsafe.Sizeof(kdNode{})]byte{}

// Initialize the node as a leaf over the given primitive ids. Single-id
// leaves store the id inline; larger leaves append their ids to the pool and
// store the offset.
func (n *kdNode) initLeaf(primIDs []uint32, pool *[]uint32) {
	n.flags = leafFlag | uint32(len(primIDs))<<nodePayloadShift
	switch len(primIDs) {
	case 0:
		n.data = 0
	case 1:
		n.data = primIDs[0]
	default:
		n.data = uint32(len(*pool))
		*pool = append(*pool, primIDs...)
	}
}

// Initialize the node as an interior node. The low tag bits carry the split
// axis and must survive any later above-child rewrite.
func (n *kdNode) initInterior(axis int, aboveChild uint32, splitPos float32) {
	n.data = math.Float32bits(splitPos)
	n.flags = uint32(axis) | aboveChild<<nodePayloadShift
}

func (n *kdNode) isLeaf() bool {
	return n.flags&nodeTagMask == leafFlag
}

func (n *kdNode) splitAxis() int {
	return int(n.flags & nodeTagMask)
}

func (n *kdNode) splitPos() float32 {
	return math.Float32frombits(n.data)
}

func (n *kdNode) aboveChild() uint32 {
	return n.flags >> nodePayloadShift
}

func (n *kdNode) nPrimitives() uint32 {
	return n.flags >> nodePayloadShift
}

// Get the inline primitive id of a single-primitive leaf.
func (n *kdNode) onePrimitive() uint32 {
	return n.data
}

// Get the leaf id pool offset of a multi-primitive leaf.
func (n *kdNode) primOffset() uint32 {
	return n.data
}
