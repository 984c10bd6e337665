package graphics

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Stage identifies a shader stage
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "unknown"
}

// Device is the GPU command surface used by programs, renderables and the scene.
// Handles are opaque and 0 means "no object". All calls must come from the
// goroutine that owns the GL context.
type Device interface {
	// Shaders and programs
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string) (ok bool, infoLog string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32) (ok bool, infoLog string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32

	// Uniform upload into the active program
	UniformMatrix4(location int32, m mgl32.Mat4)
	UniformVec2(location int32, v mgl32.Vec2)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformInt(location int32, v int32)

	// Geometry
	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	CreateBuffer() uint32
	DeleteBuffer(buffer uint32)
	// StaticVertexData uploads floats into an array buffer and points the
	// attribute at location to it with size components per vertex.
	StaticVertexData(buffer uint32, location int32, size int32, data []float32)
	// StaticIndexData uploads 16-bit indices into an element buffer bound to
	// the current vertex array.
	StaticIndexData(buffer uint32, data []uint16)
	DrawTriangles(count int32)
	DrawTriangleStrip(count int32)

	// Textures
	CreateTexture() uint32
	TextureImage(texture uint32, img *image.RGBA)
	BindTexture(unit uint32, texture uint32)
	DeleteTexture(texture uint32)

	// Frame state
	SetClear(color mgl32.Vec4, depth float64)
	Clear()
	SetDepthTest(enabled bool)
	SetCulling(enabled bool)
	SetBlending(enabled bool)
	Viewport(width, height int32)
}
