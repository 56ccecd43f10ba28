package renderer

import (
	_ "embed"
	"fmt"
	"strings"

	"Poolside/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

//go:embed shaders/default.vert
var vertexShaderSource string

//go:embed shaders/default.frag
var fragmentShaderSource string

//go:embed shaders/depth.vert
var depthVertexShaderSource string

//go:embed shaders/depth.frag
var depthFragmentShaderSource string

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	isCompiled     bool
	uniforms       *UniformCache
}

// NewShader wraps GLSL sources. Compilation is deferred until a GL context
// exists.
func NewShader(name, vertexSource, fragmentSource string) Shader {
	return Shader{
		Name:           name,
		vertexSource:   terminate(vertexSource),
		fragmentSource: terminate(fragmentSource),
	}
}

func terminate(src string) string {
	if src == "" || strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

func InitShader() Shader {
	return NewShader("default", vertexShaderSource, fragmentShaderSource)
}

// InitDepthShader is the scene-wide override used by depth pre-passes.
func InitDepthShader() Shader {
	return NewShader("depth", depthVertexShaderSource, depthFragmentShaderSource)
}

func (shader *Shader) Compile() error {
	vs, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("shader %s: %w", shader.Name, err)
	}
	fs, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return fmt.Errorf("shader %s: %w", shader.Name, err)
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("shader %s: %w", shader.Name, err)
	}
	shader.program = program
	shader.uniforms = NewUniformCache(program)
	shader.isCompiled = true
	logger.Log.Debug("Shader compiled", zap.String("name", shader.Name), zap.Uint32("program", program))
	return nil
}

func (shader *Shader) IsValid() bool {
	return shader.vertexSource != "" && shader.fragmentSource != ""
}

func (shader *Shader) IsCompiled() bool { return shader.isCompiled }

func (shader *Shader) Program() uint32 { return shader.program }

func (shader *Shader) Uniforms() *UniformCache { return shader.uniforms }

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.isCompiled {
		gl.DeleteProgram(shader.program)
		shader.isCompiled = false
		shader.uniforms = nil
	}
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	shader.uniforms.SetVec3(name, value.X(), value.Y(), value.Z())
}

func (shader *Shader) SetVec2(name string, value mgl32.Vec2) {
	shader.uniforms.SetVec2(name, value.X(), value.Y())
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.uniforms.SetFloat(name, value)
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.uniforms.SetInt(name, value)
}

func (shader *Shader) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	shader.uniforms.SetInt(name, v)
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.uniforms.SetMat4(name, value)
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile %s shader: %s", shaderTypeName(shaderType), strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func shaderTypeName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", shaderType)
}
