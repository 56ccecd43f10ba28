package renderer

import (
	"Poolside/internal/uniforms"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ApplyUniforms uploads every slot of set to the shader's program. Texture
// slots bind their handle to the slot's unit and point the sampler at it.
// The program must already be in use.
func ApplyUniforms(shader *Shader, set *uniforms.Set) {
	if set == nil || shader.uniforms == nil {
		return
	}
	cache := shader.uniforms
	set.Each(func(slot uniforms.Slot, v *uniforms.Value) {
		switch slot.Type {
		case uniforms.Float:
			cache.SetFloat(slot.Name, v.Float())
		case uniforms.Vec2:
			r := v.Vec2()
			cache.SetVec2(slot.Name, r[0], r[1])
		case uniforms.Color3:
			c := v.Color()
			cache.SetVec3(slot.Name, c[0], c[1], c[2])
		case uniforms.Texture:
			unit, handle := v.Texture()
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_2D, handle)
			cache.SetInt(slot.Name, unit)
		}
	})
	gl.ActiveTexture(gl.TEXTURE0)
}
