package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/go-kdtree/log"
	"github.com/achilleasa/go-kdtree/scene"
	"github.com/achilleasa/go-kdtree/types"
)

// wavefrontReader parses the geometric subset of the wavefront obj format
// (vertices, normals and faces) into triangle mesh primitives. Material,
// texture and grouping statements that do not affect geometry are skipped.
type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	normalList []types.Vec3

	meshes  []*scene.TriangleMesh
	curMesh *scene.TriangleMesh
}

// Parse a wavefront obj file into a list of primitives.
func ReadFile(path string) ([]scene.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, path)
}

// Parse a wavefront obj stream into a list of primitives. The name argument
// is only used for generating error messages.
func Read(r io.Reader, name string) ([]scene.Primitive, error) {
	wf := &wavefrontReader{
		logger: log.New("wavefrontReader"),
	}
	if err := wf.parse(r, name); err != nil {
		return nil, err
	}

	prims := make([]scene.Primitive, 0, len(wf.meshes))
	for _, mesh := range wf.meshes {
		mesh.Vertices = wf.vertexList
		mesh.Normals = wf.normalList
		if len(mesh.Faces) == 0 {
			wf.logger.Infof("skipping mesh %q as it contains no faces", mesh.Name)
			continue
		}
		prims = append(prims, mesh)
	}
	if len(prims) == 0 {
		return nil, fmt.Errorf("%s: no geometry found in scene", name)
	}
	return prims, nil
}

func (wf *wavefrontReader) parse(r io.Reader, name string) error {
	var lineNum int = 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(name, lineNum, err)
			}
			wf.vertexList = append(wf.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(name, lineNum, err)
			}
			wf.normalList = append(wf.normalList, v)
		case "o", "g":
			meshName := ""
			if len(lineTokens) > 1 {
				meshName = lineTokens[1]
			}
			wf.selectMesh(meshName)
		case "f":
			if err := wf.parseFace(lineTokens); err != nil {
				return emitError(name, lineNum, err)
			}
		default:
			wf.logger.Debugf("skipping unsupported statement %q", lineTokens[0])
		}
	}
	return scanner.Err()
}

// Select the mesh that receives subsequent faces, creating it on first use.
func (wf *wavefrontReader) selectMesh(name string) {
	for _, mesh := range wf.meshes {
		if mesh.Name == name {
			wf.curMesh = mesh
			return
		}
	}
	wf.curMesh = &scene.TriangleMesh{Name: name}
	wf.meshes = append(wf.meshes, wf.curMesh)
}

// Parse a face statement, fan-triangulating faces with more than three
// vertices. All meshes share the global vertex pool.
func (wf *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	indices := make([]uint32, 0, len(lineTokens)-1)
	for _, token := range lineTokens[1:] {
		// Vertex references look like v, v/vt, v//vn or v/vt/vn; only
		// the vertex coordinate index affects partitioning.
		vertexToken := strings.Split(token, "/")[0]
		index, err := selectCoordIndex(vertexToken, len(wf.vertexList))
		if err != nil {
			return err
		}
		indices = append(indices, uint32(index))
	}

	if wf.curMesh == nil {
		wf.selectMesh("")
	}
	mesh := wf.curMesh
	for i := 1; i < len(indices)-1; i++ {
		mesh.Faces = append(mesh.Faces, [3]uint32{indices[0], indices[i], indices[i+1]})
	}
	return nil
}

// Resolve a 1-based or negative-relative wavefront coordinate index into a
// 0-based index into the coordinate list.
func selectCoordIndex(token string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("could not parse coordinate index %q", token)
	}

	switch {
	case index > 0 && index <= coordListLen:
		return index - 1, nil
	case index < 0 && coordListLen+index >= 0:
		return coordListLen + index, nil
	}
	return 0, fmt.Errorf("coordinate index %d out of bounds; %d coordinates defined", index, coordListLen)
}

// Parse a 3 component vector from a statement's arguments.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var v types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = float32(val)
	}
	return v, nil
}

// Generate an error message that includes the offending file and line.
func emitError(file string, line int, err error) error {
	return fmt.Errorf("[%s: %d] error: %s", file, line, err)
}
