package renderer

import "github.com/go-gl/gl/v4.1-core/gl"

const noTexture = ^uint32(0)

// textureBinding remembers what the renderer last bound to TEXTURE_2D on
// unit 0 so consecutive models sharing a texture skip the rebind.
type textureBinding struct {
	current uint32
	bind    func(id uint32)
}

var boundTexture = newTextureBinding(func(id uint32) { gl.BindTexture(gl.TEXTURE_2D, id) })

func newTextureBinding(bind func(id uint32)) *textureBinding {
	return &textureBinding{current: noTexture, bind: bind}
}

func (b *textureBinding) use(id uint32) {
	if id == b.current {
		return
	}
	b.bind(id)
	b.current = id
}

func (b *textureBinding) invalidate() {
	b.current = noTexture
}

// forget drops id if it is the cached binding, so a recycled handle is
// bound again.
func (b *textureBinding) forget(id uint32) {
	if b.current == id {
		b.invalidate()
	}
}

// InvalidateTextureCache must be called by code outside the renderer after
// it binds textures on unit 0.
func InvalidateTextureCache() {
	boundTexture.invalidate()
}
