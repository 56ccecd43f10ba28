package renderer

import "testing"

func recordingBinding() (*textureBinding, *[]uint32) {
	var binds []uint32
	return newTextureBinding(func(id uint32) { binds = append(binds, id) }), &binds
}

func TestTextureBindingSkipsRepeats(t *testing.T) {
	b, binds := recordingBinding()

	b.use(3)
	b.use(3)
	b.use(4)

	if len(*binds) != 2 || (*binds)[0] != 3 || (*binds)[1] != 4 {
		t.Errorf("binds = %v, want [3 4]", *binds)
	}
}

func TestTextureBindingRebindsAfterInvalidate(t *testing.T) {
	b, binds := recordingBinding()

	// Frame 1 binds the tiles, then the overlay binds its font atlas on
	// the same unit without going through the cache.
	b.use(7)
	b.invalidate()

	// Frame 2 must not trust the stale entry.
	b.use(7)

	if len(*binds) != 2 {
		t.Errorf("binds = %v, want the tiles bound on both frames", *binds)
	}
}

func TestTextureBindingForget(t *testing.T) {
	b, binds := recordingBinding()
	b.use(5)

	b.forget(6)
	b.use(5)
	if len(*binds) != 1 {
		t.Fatalf("forgetting another handle rebound: %v", *binds)
	}

	b.forget(5)
	b.use(5)
	if len(*binds) != 2 {
		t.Errorf("deleted handle reused without rebinding: %v", *binds)
	}
}

func TestResetBindingsClearsCaches(t *testing.T) {
	saved := boundTexture
	defer func() { boundTexture = saved }()
	b, binds := recordingBinding()
	boundTexture = b

	rend := &OpenGLRenderer{currentShaderProgram: 9}
	boundTexture.use(2)
	InvalidateTextureCache()
	boundTexture.use(2)
	rend.resetBindings()
	boundTexture.use(2)

	if rend.currentShaderProgram != 0 {
		t.Errorf("program cache = %d after reset", rend.currentShaderProgram)
	}
	if len(*binds) != 3 {
		t.Errorf("binds = %v, want a rebind after each invalidation", *binds)
	}
}
