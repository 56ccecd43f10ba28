package renderer

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"Poolside/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

type TextureStats struct {
	Loaded int // textures uploaded since creation
	Active int
	Hits   int
	Misses int
}

type textureEntry struct {
	id   uint32
	path string
	refs int
}

// TextureManager shares one GL texture per file path and frees it when the
// last reference is released.
type TextureManager struct {
	mu     sync.Mutex
	byPath map[string]*textureEntry
	byID   map[uint32]*textureEntry
	stats  TextureStats

	upload func(*image.RGBA) uint32
	free   func(uint32)
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		byPath: make(map[string]*textureEntry),
		byID:   make(map[uint32]*textureEntry),
		upload: uploadTexture,
		free:   deleteTexture,
	}
}

// LoadTexture returns the cached handle for path, decoding and uploading
// the file on first use. Every call takes a reference.
func (tm *TextureManager) LoadTexture(path string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if e, ok := tm.byPath[path]; ok {
		e.refs++
		tm.stats.Hits++
		return e.id, nil
	}
	tm.stats.Misses++

	rgba, err := decodeImageFile(path)
	if err != nil {
		return 0, err
	}
	e := &textureEntry{id: tm.upload(rgba), path: path, refs: 1}
	tm.byPath[path] = e
	tm.byID[e.id] = e
	tm.stats.Loaded++

	logger.Log.Info("Texture loaded",
		zap.String("path", path),
		zap.Uint32("id", e.id),
		zap.Int("width", rgba.Rect.Dx()),
		zap.Int("height", rgba.Rect.Dy()))
	return e.id, nil
}

// Retain takes another reference on a cached texture.
func (tm *TextureManager) Retain(id uint32) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if e, ok := tm.byID[id]; ok {
		e.refs++
	}
}

// Release drops a reference and deletes the texture with the last one.
// Unknown handles are ignored.
func (tm *TextureManager) Release(id uint32) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	e, ok := tm.byID[id]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	tm.free(e.id)
	delete(tm.byID, e.id)
	delete(tm.byPath, e.path)
	logger.Log.Debug("Texture freed", zap.String("path", e.path), zap.Uint32("id", e.id))
}

func (tm *TextureManager) Stats() TextureStats {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	s := tm.stats
	s.Active = len(tm.byID)
	return s
}

// Clear deletes every cached texture regardless of references.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for id := range tm.byID {
		tm.free(id)
	}
	tm.byPath = make(map[string]*textureEntry)
	tm.byID = make(map[uint32]*textureEntry)
}

// uploadTexture creates a repeating, linearly filtered RGBA texture.
func uploadTexture(rgba *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	boundTexture.invalidate()
	return id
}

func deleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
	boundTexture.forget(id)
}

// toRGBA returns img as a tightly packed RGBA image with a zero origin.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func decodeImageFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return toRGBA(img), nil
}
