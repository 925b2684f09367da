package reader

import (
	"strings"
	"testing"

	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

func TestReadTriangles(t *testing.T) {
	payload := `
# simple scene
o tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	prims, err := Read(strings.NewReader(payload), "test.obj")
	if err != nil {
		t.Fatal(err)
	}
	if len(prims) != 1 {
		t.Fatalf("expected 1 mesh primitive; got %d", len(prims))
	}

	mesh, isMesh := prims[0].(*scene.TriangleMesh)
	if !isMesh {
		t.Fatalf("expected a triangle mesh; got %T", prims[0])
	}
	if mesh.Name != "tri" {
		t.Fatalf("expected mesh name %q; got %q", "tri", mesh.Name)
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("expected 1 face; got %d", len(mesh.Faces))
	}
	if mesh.Faces[0] != [3]uint32{0, 1, 2} {
		t.Fatalf("unexpected face indices %v", mesh.Faces[0])
	}
}

func TestReadFanTriangulatesQuads(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	prims, err := Read(strings.NewReader(payload), "quad.obj")
	if err != nil {
		t.Fatal(err)
	}

	mesh := prims[0].(*scene.TriangleMesh)
	if len(mesh.Faces) != 2 {
		t.Fatalf("expected the quad to fan into 2 faces; got %d", len(mesh.Faces))
	}
	if mesh.Faces[0] != [3]uint32{0, 1, 2} || mesh.Faces[1] != [3]uint32{0, 2, 3} {
		t.Fatalf("unexpected fan faces %v", mesh.Faces)
	}
}

func TestReadNegativeAndSlashedIndices(t *testing.T) {
	payload := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3/1/1 -2/2/1 -1/3/1
`
	prims, err := Read(strings.NewReader(payload), "neg.obj")
	if err != nil {
		t.Fatal(err)
	}

	mesh := prims[0].(*scene.TriangleMesh)
	if mesh.Faces[0] != [3]uint32{0, 1, 2} {
		t.Fatalf("unexpected face indices %v", mesh.Faces[0])
	}
	if len(mesh.Normals) != 1 || mesh.Normals[0] != (types.Vec3{0, 0, 1}) {
		t.Fatalf("unexpected normal list %v", mesh.Normals)
	}
}

func TestReadSkipsUnsupportedStatements(t *testing.T) {
	payload := `
mtllib scene.mtl
usemtl red
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
s off
f 1 2 3
`
	prims, err := Read(strings.NewReader(payload), "skip.obj")
	if err != nil {
		t.Fatal(err)
	}
	if len(prims) != 1 {
		t.Fatalf("expected 1 mesh primitive; got %d", len(prims))
	}
}

func TestReadErrors(t *testing.T) {
	specs := []struct {
		name    string
		payload string
	}{
		{"bad vertex", "v 1 2"},
		{"bad vertex value", "v a b c"},
		{"face with too few indices", "v 0 0 0\nf 1 1"},
		{"face index out of bounds", "v 0 0 0\nf 1 2 3"},
		{"no geometry", "v 0 0 0"},
	}

	for _, spec := range specs {
		if _, err := Read(strings.NewReader(spec.payload), "bad.obj"); err == nil {
			t.Fatalf("[%s] expected a parse error", spec.name)
		}
	}
}
