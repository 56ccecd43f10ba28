package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}

func toColor(v any) (mgl32.Vec3, error) {
	switch c := v.(type) {
	case mgl32.Vec3:
		return c, nil
	case [3]float32:
		return mgl32.Vec3(c), nil
	case string:
		return ParseHexColor(c)
	case []any:
		if len(c) != 3 {
			return mgl32.Vec3{}, fmt.Errorf("color needs 3 components, got %d", len(c))
		}
		var out mgl32.Vec3
		for i, e := range c {
			f, ok := toFloat(e)
			if !ok {
				return mgl32.Vec3{}, fmt.Errorf("color component %d is %T", i, e)
			}
			out[i] = f
		}
		return out, nil
	case []float64:
		if len(c) != 3 {
			return mgl32.Vec3{}, fmt.Errorf("color needs 3 components, got %d", len(c))
		}
		return mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("unsupported color value %T", v)
}

// ParseHexColor accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseHexColor(s string) (mgl32.Vec3, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(h) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("bad hex color %q", s)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("bad hex color %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((n>>16)&0xff) / 255,
		float32((n>>8)&0xff) / 255,
		float32(n&0xff) / 255,
	}, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c mgl32.Vec3) string {
	b := func(f float32) uint8 { return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5) }
	return fmt.Sprintf("#%02x%02x%02x", b(c[0]), b(c[1]), b(c[2]))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
