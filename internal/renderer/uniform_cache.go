package renderer

import (
	"Poolside/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// UniformCache remembers uniform locations per program. A name the
// program does not declare (or the driver optimised out) resolves to -1
// once, is logged at debug level, and every later set is a no-op.
type UniformCache struct {
	program   uint32
	locations map[string]int32
	lookup    func(program uint32, name string) int32
}

func NewUniformCache(program uint32) *UniformCache {
	return &UniformCache{
		program:   program,
		locations: make(map[string]int32),
		lookup:    glUniformLocation,
	}
}

func glUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (uc *UniformCache) location(name string) (int32, bool) {
	loc, ok := uc.locations[name]
	if !ok {
		loc = uc.lookup(uc.program, name)
		uc.locations[name] = loc
		if loc < 0 {
			logger.Log.Debug("Uniform not active", zap.Uint32("program", uc.program), zap.String("name", name))
		}
	}
	return loc, loc >= 0
}

func (uc *UniformCache) SetFloat(name string, v float32) {
	if loc, ok := uc.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (uc *UniformCache) SetVec2(name string, x, y float32) {
	if loc, ok := uc.location(name); ok {
		gl.Uniform2f(loc, x, y)
	}
}

func (uc *UniformCache) SetVec3(name string, x, y, z float32) {
	if loc, ok := uc.location(name); ok {
		gl.Uniform3f(loc, x, y, z)
	}
}

func (uc *UniformCache) SetInt(name string, v int32) {
	if loc, ok := uc.location(name); ok {
		gl.Uniform1i(loc, v)
	}
}

func (uc *UniformCache) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := uc.location(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

// Clear forgets every location, for use after relinking.
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}
