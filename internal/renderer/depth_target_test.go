package renderer

import "testing"

func TestDeviceSize(t *testing.T) {
	cases := []struct {
		w, h   int
		ratio  float64
		ww, wh int32
	}{
		{800, 600, 1, 800, 600},
		{800, 600, 2, 1600, 1200},
		{1280, 720, 1.5, 1920, 1080},
		{801, 601, 1.25, 1001, 751},
		{640, 480, 0, 640, 480},
	}
	for _, c := range cases {
		gw, gh := DeviceSize(c.w, c.h, c.ratio)
		if gw != c.ww || gh != c.wh {
			t.Errorf("DeviceSize(%d, %d, %v) = %dx%d, want %dx%d", c.w, c.h, c.ratio, gw, gh, c.ww, c.wh)
		}
	}
}

func TestNewDepthTargetRejectsEmptySize(t *testing.T) {
	if _, err := NewDepthTarget(0, 600); err == nil {
		t.Error("expected an error for a zero width")
	}
}
