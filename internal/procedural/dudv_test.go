package procedural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDudvDeterministic(t *testing.T) {
	a, err := GenerateDudv(DudvOptions{Size: 32, Seed: 7})
	require.NoError(t, err)
	b, err := GenerateDudv(DudvOptions{Size: 32, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, 32, a.Bounds().Dx())
	assert.Equal(t, 32, a.Bounds().Dy())
}

func TestGenerateDudvSeedChangesOutput(t *testing.T) {
	a, err := GenerateDudv(DudvOptions{Size: 32, Seed: 1})
	require.NoError(t, err)
	b, err := GenerateDudv(DudvOptions{Size: 32, Seed: 2})
	require.NoError(t, err)

	assert.NotEqual(t, a.Pix, b.Pix)
}

func TestGenerateDudvChannels(t *testing.T) {
	img, err := GenerateDudv(DudvOptions{Size: 16, Seed: 3})
	require.NoError(t, err)

	varied := false
	for i := 0; i < len(img.Pix); i += 4 {
		assert.Equal(t, uint8(0), img.Pix[i+2], "blue stays empty")
		assert.Equal(t, uint8(255), img.Pix[i+3], "alpha is opaque")
		if img.Pix[i] != 128 || img.Pix[i+1] != 128 {
			varied = true
		}
	}
	assert.True(t, varied, "gradients should not all be zero")
}

func TestGenerateDudvDefaultsAndErrors(t *testing.T) {
	img, err := GenerateDudv(DudvOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDudvSize, img.Bounds().Dx())

	_, err = GenerateDudv(DudvOptions{Size: 1})
	assert.Error(t, err)
}

func TestToByte(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(-2))
	assert.Equal(t, uint8(255), toByte(1))
	assert.Equal(t, uint8(128), toByte(0))
}
