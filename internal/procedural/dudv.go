// Package procedural generates textures from noise when no asset is given.
package procedural

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	DefaultDudvSize  = 256
	DefaultDudvScale = 8.0
)

// DudvOptions controls GenerateDudv. Zero fields take the defaults.
type DudvOptions struct {
	Size     int
	Seed     int64
	Scale    float64 // noise periods across the texture
	Strength float64 // gradient gain before clamping to the byte range
}

// GenerateDudv builds a distortion map from 2D Perlin noise. The red and
// green channels hold the x and y gradients of the noise field, biased so
// 128 means no offset. The same options always give the same pixels.
func GenerateDudv(opts DudvOptions) (*image.RGBA, error) {
	if opts.Size == 0 {
		opts.Size = DefaultDudvSize
	}
	if opts.Size < 2 {
		return nil, fmt.Errorf("dudv size %d too small", opts.Size)
	}
	if opts.Scale == 0 {
		opts.Scale = DefaultDudvScale
	}
	if opts.Strength == 0 {
		opts.Strength = 1
	}

	p := perlin.NewPerlin(2, 2, 3, opts.Seed)
	size := opts.Size
	step := opts.Scale / float64(size)

	field := make([]float64, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			field[y*size+x] = p.Noise2D(float64(x)*step, float64(y)*step)
		}
	}

	// Gradients are taken with wrap-around so the map tiles under REPEAT.
	at := func(x, y int) float64 {
		return field[((y+size)%size)*size+(x+size)%size]
	}
	gain := opts.Strength / (2 * step)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (at(x+1, y) - at(x-1, y)) * gain
			dy := (at(x, y+1) - at(x, y-1)) * gain
			img.SetRGBA(x, y, color.RGBA{R: toByte(dx), G: toByte(dy), B: 0, A: 255})
		}
	}
	return img, nil
}

// toByte maps [-1, 1] onto [0, 255] around 128.
func toByte(v float64) uint8 {
	v = math.Max(-1, math.Min(1, v))
	return uint8(math.Round(127.5 + v*127.5))
}
