package types

import "testing"

func TestVec3Ops(t *testing.T) {
	v1 := Vec3{1, 2, 3}
	v2 := Vec3{4, 5, 6}

	if got := v1.Add(v2); got != (Vec3{5, 7, 9}) {
		t.Fatalf("unexpected sum %v", got)
	}
	if got := v2.Sub(v1); got != (Vec3{3, 3, 3}) {
		t.Fatalf("unexpected difference %v", got)
	}
	if got := v1.Mul(2); got != (Vec3{2, 4, 6}) {
		t.Fatalf("unexpected scale %v", got)
	}
	if got := v1.Dot(v2); got != 32 {
		t.Fatalf("expected dot product 32; got %f", got)
	}
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Fatalf("unexpected cross product %v", got)
	}
	if got := (Vec3{3, 4, 0}).Len(); got != 5 {
		t.Fatalf("expected length 5; got %f", got)
	}
	if got := (Vec3{0, 0, 9}).Normalize(); got != (Vec3{0, 0, 1}) {
		t.Fatalf("unexpected normalized vector %v", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Fatalf("expected zero vector to normalize to zero; got %v", got)
	}
}

func TestMinMaxVec3(t *testing.T) {
	v1 := Vec3{1, 5, 3}
	v2 := Vec3{2, 4, 3}
	if got := MinVec3(v1, v2); got != (Vec3{1, 4, 3}) {
		t.Fatalf("unexpected min %v", got)
	}
	if got := MaxVec3(v1, v2); got != (Vec3{2, 5, 3}) {
		t.Fatalf("unexpected max %v", got)
	}
}

func TestRayAt(t *testing.T) {
	ray := NewRay(Vec3{1, 0, 0}, Vec3{0, 2, 0})
	if got := ray.At(2); got != (Vec3{1, 4, 0}) {
		t.Fatalf("unexpected ray point %v", got)
	}
}
