package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Poolside/internal/logger"
	"Poolside/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// objData is the raw content of an OBJ file before index unification.
type objData struct {
	vertices      []float32
	textureCoords []float32
	normals       []float32
	faces         []FaceVertex
	faceMaterials []string // material name per entry in faces
	mtllib        string
}

func LoadModel(filename string, recalculateNormals bool) (*renderer.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := parseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var materials map[string]*renderer.Material
	if data.mtllib != "" {
		materials = LoadMaterials(filepath.Join(filepath.Dir(filename), data.mtllib))
	}

	model := buildModel(data, materials, recalculateNormals)
	model.SourcePath = filename
	model.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	logger.Log.Debug("OBJ loaded",
		zap.String("file", filename),
		zap.Int("vertices", len(model.InterleavedData)/8),
		zap.Int("indices", len(model.Faces)),
		zap.Int("materialGroups", len(model.MaterialGroups)))
	return model, nil
}

func parseOBJ(r io.Reader) (*objData, error) {
	data := &objData{}
	currentMaterial := "default"

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			vertex, err := parseVertex(parts[1:])
			if err != nil || len(vertex) < 3 {
				return nil, fmt.Errorf("line %d: bad vertex: %v", line, err)
			}
			data.vertices = append(data.vertices, vertex[:3]...)
		case "vn":
			normal, err := parseVertex(parts[1:])
			if err != nil || len(normal) < 3 {
				return nil, fmt.Errorf("line %d: bad normal: %v", line, err)
			}
			data.normals = append(data.normals, normal[:3]...)
		case "vt":
			texCoord, err := parseTextureCoordinate(parts[1:])
			if err != nil || len(texCoord) < 2 {
				return nil, fmt.Errorf("line %d: bad texture coordinate: %v", line, err)
			}
			data.textureCoords = append(data.textureCoords, texCoord[0], texCoord[1])
		case "f":
			faceVertices, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data.faces = append(data.faces, faceVertices...)
			for range faceVertices {
				data.faceMaterials = append(data.faceMaterials, currentMaterial)
			}
		case "mtllib":
			if len(parts) >= 2 {
				data.mtllib = parts[1]
			}
		case "usemtl":
			if len(parts) >= 2 {
				currentMaterial = parts[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// buildModel unifies the separate v/vt/vn indices into one interleaved
// vertex buffer ([x y z u v nx ny nz]) and groups the index ranges by
// material.
func buildModel(data *objData, materials map[string]*renderer.Material, recalculateNormals bool) *renderer.Model {
	type vertexKey struct{ v, vt, vn int32 }

	vertexMap := make(map[vertexKey]int32)
	interleaved := make([]float32, 0, len(data.faces)*8)
	positions := make([]float32, 0, len(data.faces)*3)
	indices := make([]int32, 0, len(data.faces))

	for _, fv := range data.faces {
		key := vertexKey{fv.VertexIdx, fv.TexCoordIdx, fv.NormalIdx}
		if idx, ok := vertexMap[key]; ok {
			indices = append(indices, idx)
			continue
		}
		idx := int32(len(interleaved) / 8)
		vertexMap[key] = idx

		pos := [3]float32{}
		if fv.VertexIdx >= 0 && int(fv.VertexIdx)*3+2 < len(data.vertices) {
			copy(pos[:], data.vertices[fv.VertexIdx*3:fv.VertexIdx*3+3])
		} else {
			logger.Log.Warn("Vertex index out of bounds", zap.Int32("vertexIdx", fv.VertexIdx))
		}
		uv := [2]float32{}
		if fv.TexCoordIdx >= 0 && int(fv.TexCoordIdx)*2+1 < len(data.textureCoords) {
			copy(uv[:], data.textureCoords[fv.TexCoordIdx*2:fv.TexCoordIdx*2+2])
		}
		normal := [3]float32{0, 1, 0}
		if fv.NormalIdx >= 0 && int(fv.NormalIdx)*3+2 < len(data.normals) {
			copy(normal[:], data.normals[fv.NormalIdx*3:fv.NormalIdx*3+3])
		}

		interleaved = append(interleaved, pos[0], pos[1], pos[2], uv[0], uv[1], normal[0], normal[1], normal[2])
		positions = append(positions, pos[0], pos[1], pos[2])
		indices = append(indices, idx)
	}

	// Some exports ship broken normals.
	if recalculateNormals && len(indices) > 0 {
		normals := RecalculateNormals(positions, indices)
		for i := 0; i*3+2 < len(normals); i++ {
			copy(interleaved[i*8+5:i*8+8], normals[i*3:i*3+3])
		}
	}

	model := &renderer.Model{
		Position:        mgl32.Vec3{0, 0, 0},
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1, 1, 1},
		Vertices:        positions,
		Faces:           indices,
		InterleavedData: interleaved,
		IsDirty:         true,
	}
	mat := *renderer.DefaultMaterial
	model.Material = &mat

	model.MaterialGroups = materialGroups(data.faceMaterials, materials, model.Material)
	if len(model.MaterialGroups) > 0 && model.MaterialGroups[0].Material != nil {
		model.Material = model.MaterialGroups[0].Material
	}
	model.CalculateBoundingSphere()
	return model
}

func materialGroups(faceMaterials []string, materials map[string]*renderer.Material, fallback *renderer.Material) []renderer.MaterialGroup {
	var groups []renderer.MaterialGroup
	current := ""
	for i, name := range faceMaterials {
		if i == 0 || name != current {
			mat, ok := materials[name]
			if !ok {
				mat = fallback
			}
			groups = append(groups, renderer.MaterialGroup{Material: mat, IndexStart: int32(i)})
			current = name
		}
		groups[len(groups)-1].IndexCount++
	}
	return groups
}

// LoadMaterials loads material properties from a .mtl file. A missing or
// unreadable file yields only the default material.
func LoadMaterials(filename string) map[string]*renderer.Material {
	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Warn("Error opening material file", zap.String("file", filename), zap.Error(err))
		return map[string]*renderer.Material{"default": renderer.DefaultMaterial}
	}
	defer file.Close()

	materials := parseMTL(file, filepath.Dir(filename))
	if len(materials) == 0 {
		materials["default"] = renderer.DefaultMaterial
	}
	return materials
}

func parseMTL(r io.Reader, dir string) map[string]*renderer.Material {
	var currentMaterial *renderer.Material
	materials := make(map[string]*renderer.Material)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "newmtl" && currentMaterial == nil {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Log.Warn("Malformed material line", zap.String("line", line))
				continue
			}
			currentMaterial = &renderer.Material{
				Name:          fields[1],
				DiffuseColor:  [3]float32{1, 1, 1},
				SpecularColor: [3]float32{0.5, 0.5, 0.5},
				Shininess:     32.0,
				Alpha:         1.0,
			}
			materials[fields[1]] = currentMaterial
		case "Kd":
			if len(fields) == 4 {
				currentMaterial.DiffuseColor = parseColor(fields[1:])
			}
		case "Ks":
			if len(fields) == 4 {
				currentMaterial.SpecularColor = parseColor(fields[1:])
			}
		case "Ns":
			if len(fields) == 2 {
				currentMaterial.Shininess = parseFloat(fields[1])
			}
		case "d":
			if len(fields) == 2 {
				currentMaterial.Alpha = parseFloat(fields[1])
			}
		case "map_Kd":
			if len(fields) >= 2 {
				// Options may precede the path.
				texturePath := fields[len(fields)-1]
				if !filepath.IsAbs(texturePath) {
					texturePath = filepath.Join(dir, texturePath)
				}
				currentMaterial.TexturePath = texturePath
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Log.Error("Error reading material file", zap.Error(err))
	}
	return materials
}

func parseColor(fields []string) [3]float32 {
	var color [3]float32
	for i, field := range fields[:3] {
		color[i] = parseFloat(field)
	}
	return color
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		logger.Log.Warn("Error parsing float", zap.String("value", s), zap.Error(err))
		return 0
	}
	return float32(f)
}

func parseVertex(parts []string) ([]float32, error) {
	var vertex []float32
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex value %v: %v", part, err)
		}
		vertex = append(vertex, float32(val))
	}
	return vertex, nil
}

// parseFace reads one face and triangulates quads and larger polygons as a
// fan from the first vertex. Negative OBJ indices are not supported.
func parseFace(parts []string) ([]FaceVertex, error) {
	var face []FaceVertex
	startIndex := 0
	if len(parts) > 0 && parts[0] == "f" {
		startIndex = 1
	}

	for _, part := range parts[startIndex:] {
		vals := strings.Split(part, "/")

		vertexIdx, err := strconv.ParseInt(vals[0], 10, 32)
		if err != nil || vertexIdx < 1 {
			return nil, fmt.Errorf("invalid vertex index %q", vals[0])
		}

		var texCoordIdx int32 = -1
		if len(vals) > 1 && vals[1] != "" {
			texIdx, err := strconv.ParseInt(vals[1], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid texture coordinate index %q", vals[1])
			}
			texCoordIdx = int32(texIdx - 1)
		}

		var normalIdx int32 = -1
		if len(vals) > 2 && vals[2] != "" {
			normIdx, err := strconv.ParseInt(vals[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid normal index %q", vals[2])
			}
			normalIdx = int32(normIdx - 1)
		}

		// .obj indices start at 1
		face = append(face, FaceVertex{
			VertexIdx:   int32(vertexIdx - 1),
			TexCoordIdx: texCoordIdx,
			NormalIdx:   normalIdx,
		})
	}

	if len(face) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(face))
	}
	if len(face) == 3 {
		return face, nil
	}
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

func parseTextureCoordinate(parts []string) ([]float32, error) {
	var texCoord []float32
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid texture coordinate value %v: %v", part, err)
		}
		texCoord = append(texCoord, float32(val))
	}
	return texCoord, nil
}

// RecalculateNormals averages the face normals touching each vertex.
func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil
	}

	normals := make([]float32, len(vertices))
	n := int32(len(vertices))
	for i := 0; i+2 < len(faces); i += 3 {
		idx0, idx1, idx2 := faces[i]*3, faces[i+1]*3, faces[i+2]*3
		if idx0+2 >= n || idx1+2 >= n || idx2+2 >= n {
			logger.Log.Warn("Face index out of bounds", zap.Int32("idx0", idx0), zap.Int32("idx1", idx1), zap.Int32("idx2", idx2))
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()

		for j := int32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		normal := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if normal.Len() == 0 {
			normal = mgl32.Vec3{0, 1, 0}
		}
		normal = normal.Normalize()
		normals[i], normals[i+1], normals[i+2] = normal[0], normal[1], normal[2]
	}
	return normals
}
