package loader

import (
	"context"
	"errors"
	"fmt"

	"Poolside/internal/logger"
	"Poolside/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrEmptyModel = errors.New("loader: model has no geometry")

// Request describes one model to load at startup and where to place it.
type Request struct {
	Name               string
	Path               string
	Position           mgl32.Vec3
	Scale              float32
	RecalculateNormals bool
}

// Load reads an OBJ model. Placement is left to the caller.
func Load(ctx context.Context, path string) (*renderer.Model, error) {
	return load(ctx, path, false)
}

func load(ctx context.Context, path string, recalculateNormals bool) (*renderer.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := LoadModel(path, recalculateNormals)
	if err != nil {
		return nil, err
	}
	if len(model.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyModel)
	}
	return model, nil
}

// LoadAll loads the requests one after another, stopping on the first error
// or when ctx is cancelled. Models come back in request order.
func LoadAll(ctx context.Context, reqs []Request) ([]*renderer.Model, error) {
	models := make([]*renderer.Model, 0, len(reqs))
	for _, req := range reqs {
		model, err := load(ctx, req.Path, req.RecalculateNormals)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", req.label(), err)
		}
		if req.Name != "" {
			model.Name = req.Name
		}
		model.SetPositionVec(req.Position)
		if req.Scale != 0 {
			model.SetUniformScale(req.Scale)
		}
		models = append(models, model)
		logger.Log.Info("Model loaded", zap.String("name", model.Name), zap.String("path", req.Path))
	}
	return models, nil
}

func (r Request) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Path
}

// LoadPlane builds a flat grid of gridSize x gridSize vertices in the XZ plane
// starting at the origin.
func LoadPlane(gridSize int, gridSpacing float32) (*renderer.Model, error) {
	if gridSize < 2 {
		return nil, errors.New("gridSize must be at least 2")
	}
	size := gridSpacing * float32(gridSize-1)
	model := buildGrid(size, size, gridSize-1, gridSize-1)
	model.SetPosition(size/2, 0, size/2)
	return model, nil
}

// LoadWaterPlane builds a horizontal width x depth surface centred on the
// origin with segments quads along each side. UVs span 0..1 across the
// surface and normals point up.
func LoadWaterPlane(width, depth float32, segments int) (*renderer.Model, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("water plane size %vx%v must be positive", width, depth)
	}
	if segments < 1 {
		segments = 1
	}
	if segments > 1024 {
		segments = 1024
	}
	model := buildGrid(width, depth, segments, segments)
	model.Name = "water"

	logger.Log.Debug("Water surface created",
		zap.Int("vertices", len(model.InterleavedData)/8),
		zap.Int("triangles", len(model.Faces)/3),
		zap.Float32("width", width),
		zap.Float32("depth", depth))
	return model, nil
}

func buildGrid(width, depth float32, segX, segZ int) *renderer.Model {
	cols, rows := segX+1, segZ+1
	interleaved := make([]float32, 0, cols*rows*8)
	positions := make([]float32, 0, cols*rows*3)
	indices := make([]int32, 0, segX*segZ*6)

	for z := 0; z < rows; z++ {
		v := float32(z) / float32(segZ)
		for x := 0; x < cols; x++ {
			u := float32(x) / float32(segX)
			px := (u - 0.5) * width
			pz := (v - 0.5) * depth
			interleaved = append(interleaved, px, 0, pz, u, 1-v, 0, 1, 0)
			positions = append(positions, px, 0, pz)
		}
	}

	for z := 0; z < segZ; z++ {
		for x := 0; x < segX; x++ {
			topLeft := int32(z*cols + x)
			topRight := topLeft + 1
			bottomLeft := int32((z+1)*cols + x)
			bottomRight := bottomLeft + 1
			// Counter-clockwise seen from +Y.
			indices = append(indices, topLeft, bottomLeft, topRight, topRight, bottomLeft, bottomRight)
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
	model.CalculateBoundingSphere()
	return model
}
