package accel

import (
	"testing"
	"unsafe"
)

func TestNodeSize(t *testing.T) {
	if size := unsafe.Sizeof(kdNode{}); size != 8 {
		t.Fatalf("expected packed node size to be 8 bytes; got %d", size)
	}
}

func TestInteriorNodePacking(t *testing.T) {
	var node kdNode
	node.initInterior(2, 1234, 3.5)

	if node.isLeaf() {
		t.Fatal("expected an interior node")
	}
	if node.splitAxis() != 2 {
		t.Fatalf("expected split axis 2; got %d", node.splitAxis())
	}
	if node.splitPos() != 3.5 {
		t.Fatalf("expected split position 3.5; got %f", node.splitPos())
	}
	if node.aboveChild() != 1234 {
		t.Fatalf("expected above child 1234; got %d", node.aboveChild())
	}
}

func TestLeafNodePacking(t *testing.T) {
	var pool []uint32

	var empty kdNode
	empty.initLeaf(nil, &pool)
	if !empty.isLeaf() {
		t.Fatal("expected a leaf node")
	}
	if empty.nPrimitives() != 0 {
		t.Fatalf("expected an empty leaf; got %d primitives", empty.nPrimitives())
	}

	var single kdNode
	single.initLeaf([]uint32{42}, &pool)
	if single.nPrimitives() != 1 {
		t.Fatalf("expected 1 primitive; got %d", single.nPrimitives())
	}
	if single.onePrimitive() != 42 {
		t.Fatalf("expected inline primitive id 42; got %d", single.onePrimitive())
	}
	if len(pool) != 0 {
		t.Fatalf("expected single-id leaves to stay out of the id pool; pool has %d entries", len(pool))
	}

	var multi kdNode
	multi.initLeaf([]uint32{7, 8, 9}, &pool)
	if multi.nPrimitives() != 3 {
		t.Fatalf("expected 3 primitives; got %d", multi.nPrimitives())
	}
	if multi.primOffset() != 0 {
		t.Fatalf("expected pool offset 0; got %d", multi.primOffset())
	}
	if len(pool) != 3 || pool[0] != 7 || pool[1] != 8 || pool[2] != 9 {
		t.Fatalf("expected pool to contain the leaf ids; got %v", pool)
	}
}
