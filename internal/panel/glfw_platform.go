package panel

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// glfwPlatform feeds window input into imgui. It installs its own input
// callbacks on an existing window.
type glfwPlatform struct {
	imguiIO imgui.IO
	window  *glfw.Window
	time    float64

	mouseJustPressed [3]bool
}

func newGLFWPlatform(window *glfw.Window, io imgui.IO) *glfwPlatform {
	p := &glfwPlatform{imguiIO: io, window: window}
	p.setKeyMapping()
	p.installCallbacks()
	return p
}

func (p *glfwPlatform) dispose() {
	p.window.SetMouseButtonCallback(nil)
	p.window.SetScrollCallback(nil)
	p.window.SetKeyCallback(nil)
	p.window.SetCharCallback(nil)
}

func (p *glfwPlatform) displaySize() [2]float32 {
	w, h := p.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

func (p *glfwPlatform) framebufferSize() [2]float32 {
	w, h := p.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

// newFrame updates display size, timing and mouse state for the next
// imgui frame.
func (p *glfwPlatform) newFrame() {
	displaySize := p.displaySize()
	p.imguiIO.SetDisplaySize(imgui.Vec2{X: displaySize[0], Y: displaySize[1]})

	currentTime := glfw.GetTime()
	if p.time > 0 {
		p.imguiIO.SetDeltaTime(float32(currentTime - p.time))
	}
	p.time = currentTime

	if p.window.GetAttrib(glfw.Focused) != 0 {
		x, y := p.window.GetCursorPos()
		p.imguiIO.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	} else {
		p.imguiIO.SetMousePosition(imgui.Vec2{X: -math.MaxFloat32, Y: -math.MaxFloat32})
	}

	for i := 0; i < len(p.mouseJustPressed); i++ {
		down := p.mouseJustPressed[i] || (p.window.GetMouseButton(glfwButtonIDByIndex[i]) == glfw.Press)
		p.imguiIO.SetMouseButtonDown(i, down)
		p.mouseJustPressed[i] = false
	}
}

func (p *glfwPlatform) setKeyMapping() {
	p.imguiIO.KeyMap(imgui.KeyTab, int(glfw.KeyTab))
	p.imguiIO.KeyMap(imgui.KeyLeftArrow, int(glfw.KeyLeft))
	p.imguiIO.KeyMap(imgui.KeyRightArrow, int(glfw.KeyRight))
	p.imguiIO.KeyMap(imgui.KeyUpArrow, int(glfw.KeyUp))
	p.imguiIO.KeyMap(imgui.KeyDownArrow, int(glfw.KeyDown))
	p.imguiIO.KeyMap(imgui.KeyPageUp, int(glfw.KeyPageUp))
	p.imguiIO.KeyMap(imgui.KeyPageDown, int(glfw.KeyPageDown))
	p.imguiIO.KeyMap(imgui.KeyHome, int(glfw.KeyHome))
	p.imguiIO.KeyMap(imgui.KeyEnd, int(glfw.KeyEnd))
	p.imguiIO.KeyMap(imgui.KeyInsert, int(glfw.KeyInsert))
	p.imguiIO.KeyMap(imgui.KeyDelete, int(glfw.KeyDelete))
	p.imguiIO.KeyMap(imgui.KeyBackspace, int(glfw.KeyBackspace))
	p.imguiIO.KeyMap(imgui.KeySpace, int(glfw.KeySpace))
	p.imguiIO.KeyMap(imgui.KeyEnter, int(glfw.KeyEnter))
	p.imguiIO.KeyMap(imgui.KeyEscape, int(glfw.KeyEscape))
	p.imguiIO.KeyMap(imgui.KeyA, int(glfw.KeyA))
	p.imguiIO.KeyMap(imgui.KeyC, int(glfw.KeyC))
	p.imguiIO.KeyMap(imgui.KeyV, int(glfw.KeyV))
	p.imguiIO.KeyMap(imgui.KeyX, int(glfw.KeyX))
	p.imguiIO.KeyMap(imgui.KeyY, int(glfw.KeyY))
	p.imguiIO.KeyMap(imgui.KeyZ, int(glfw.KeyZ))
}

func (p *glfwPlatform) installCallbacks() {
	p.window.SetMouseButtonCallback(p.mouseButtonChange)
	p.window.SetScrollCallback(p.mouseScrollChange)
	p.window.SetKeyCallback(p.keyChange)
	p.window.SetCharCallback(p.charChange)
}

var glfwButtonIndexByID = map[glfw.MouseButton]int{
	glfw.MouseButton1: 0,
	glfw.MouseButton2: 1,
	glfw.MouseButton3: 2,
}

var glfwButtonIDByIndex = map[int]glfw.MouseButton{
	0: glfw.MouseButton1,
	1: glfw.MouseButton2,
	2: glfw.MouseButton3,
}

func (p *glfwPlatform) mouseButtonChange(window *glfw.Window, rawButton glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	buttonIndex, known := glfwButtonIndexByID[rawButton]
	if known && (action == glfw.Press) {
		p.mouseJustPressed[buttonIndex] = true
	}
}

func (p *glfwPlatform) mouseScrollChange(window *glfw.Window, x, y float64) {
	p.imguiIO.AddMouseWheelDelta(float32(x), float32(y))
}

func (p *glfwPlatform) keyChange(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Press {
		p.imguiIO.KeyPress(int(key))
	}
	if action == glfw.Release {
		p.imguiIO.KeyRelease(int(key))
	}

	p.imguiIO.KeyCtrl(int(glfw.KeyLeftControl), int(glfw.KeyRightControl))
	p.imguiIO.KeyShift(int(glfw.KeyLeftShift), int(glfw.KeyRightShift))
	p.imguiIO.KeyAlt(int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt))
	p.imguiIO.KeySuper(int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper))
}

func (p *glfwPlatform) charChange(window *glfw.Window, char rune) {
	p.imguiIO.AddInputCharacters(string(char))
}
