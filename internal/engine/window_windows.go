//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var dwmSetWindowAttribute = syscall.NewLazyDLL("dwmapi.dll").NewProc("DwmSetWindowAttribute")

// DWM attribute ids and the values Poolside applies. Colors are COLORREF
// (0x00BBGGRR); the caption matches the default scene background.
var titleBarAttributes = []struct {
	id    uintptr
	value uint32
}{
	{20, 1},          // DWMWA_USE_IMMERSIVE_DARK_MODE
	{34, 0x00000000}, // DWMWA_BORDER_COLOR
	{35, 0x00261a1a}, // DWMWA_CAPTION_COLOR
}

// setTitleBarStyle darkens the native title bar. Failures are ignored:
// older Windows builds do not know the colour attributes.
func setTitleBarStyle(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	for _, a := range titleBarAttributes {
		v := a.value
		dwmSetWindowAttribute.Call(uintptr(unsafe.Pointer(hwnd)), a.id, uintptr(unsafe.Pointer(&v)), unsafe.Sizeof(v))
	}
}
