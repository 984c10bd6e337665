// Package recorder provides a graphics.Device that records commands instead
// of talking to a GPU, for tests that assert on the command stream.
package recorder

import (
	"image"

	"gridview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device command
type Call struct {
	Op    string
	Stage graphics.Stage
	IDs   []uint32
	Loc   int32
	Count int32
	Name  string
}

// Recorder implements graphics.Device. Zero value is ready to use.
type Recorder struct {
	// CompileErrors maps a stage to the info log its compilation fails with
	CompileErrors map[graphics.Stage]string
	// LinkError makes LinkProgram fail with this info log when non-empty
	LinkError string
	// Missing lists uniform and attribute names that do not resolve
	Missing map[string]bool

	Calls []Call

	nextID    uint32
	locations map[string]int32
	// Matrices and Vectors hold the last value uploaded per location
	Matrices map[int32]mgl32.Mat4
	Vectors2 map[int32]mgl32.Vec2
	Vectors  map[int32]mgl32.Vec3
	Ints     map[int32]int32
	// Live tracks objects created and not yet deleted
	Live map[uint32]string
}

// New returns an empty Recorder
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) create(kind string) uint32 {
	if r.Live == nil {
		r.Live = make(map[uint32]string)
	}
	r.nextID++
	r.Live[r.nextID] = kind
	return r.nextID
}

func (r *Recorder) release(id uint32) {
	delete(r.Live, id)
}

func (r *Recorder) location(name string) int32 {
	if r.locations == nil {
		r.locations = make(map[string]int32)
	}
	if loc, ok := r.locations[name]; ok {
		return loc
	}
	loc := int32(len(r.locations))
	r.locations[name] = loc
	return loc
}

// UniformAt returns the location handed out for a uniform name, or -1
func (r *Recorder) UniformAt(name string) int32 {
	if loc, ok := r.locations["u:"+name]; ok {
		return loc
	}
	return -1
}

// Count returns how many calls of op were recorded
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// LiveKinds counts live objects of a kind ("shader", "program", "buffer", ...)
func (r *Recorder) LiveKinds(kind string) int {
	n := 0
	for _, k := range r.Live {
		if k == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded calls and uploaded values but keeps live objects
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Matrices = nil
	r.Vectors2 = nil
	r.Vectors = nil
	r.Ints = nil
}

func (r *Recorder) CreateShader(stage graphics.Stage) uint32 {
	id := r.create("shader")
	r.record(Call{Op: "CreateShader", Stage: stage, IDs: []uint32{id}})
	return id
}

func (r *Recorder) CompileShader(shader uint32, source string) (bool, string) {
	r.record(Call{Op: "CompileShader", IDs: []uint32{shader}, Name: source})
	for _, c := range r.Calls {
		if c.Op == "CreateShader" && c.IDs[0] == shader {
			if log, ok := r.CompileErrors[c.Stage]; ok {
				return false, log
			}
		}
	}
	return true, ""
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record(Call{Op: "DeleteShader", IDs: []uint32{shader}})
	r.release(shader)
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.create("program")
	r.record(Call{Op: "CreateProgram", IDs: []uint32{id}})
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record(Call{Op: "AttachShader", IDs: []uint32{program, shader}})
}

func (r *Recorder) DetachShader(program, shader uint32) {
	r.record(Call{Op: "DetachShader", IDs: []uint32{program, shader}})
}

func (r *Recorder) LinkProgram(program uint32) (bool, string) {
	r.record(Call{Op: "LinkProgram", IDs: []uint32{program}})
	if r.LinkError != "" {
		return false, r.LinkError
	}
	return true, ""
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record(Call{Op: "DeleteProgram", IDs: []uint32{program}})
	r.release(program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.record(Call{Op: "UseProgram", IDs: []uint32{program}})
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	loc := int32(-1)
	if !r.Missing[name] {
		loc = r.location("u:" + name)
	}
	r.record(Call{Op: "UniformLocation", IDs: []uint32{program}, Name: name, Loc: loc})
	return loc
}

func (r *Recorder) AttribLocation(program uint32, name string) int32 {
	loc := int32(-1)
	if !r.Missing[name] {
		loc = r.location("a:" + name)
	}
	r.record(Call{Op: "AttribLocation", IDs: []uint32{program}, Name: name, Loc: loc})
	return loc
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	if r.Matrices == nil {
		r.Matrices = make(map[int32]mgl32.Mat4)
	}
	r.Matrices[location] = m
	r.record(Call{Op: "UniformMatrix4", Loc: location})
}

func (r *Recorder) UniformVec2(location int32, v mgl32.Vec2) {
	if r.Vectors2 == nil {
		r.Vectors2 = make(map[int32]mgl32.Vec2)
	}
	r.Vectors2[location] = v
	r.record(Call{Op: "UniformVec2", Loc: location})
}

func (r *Recorder) UniformVec3(location int32, v mgl32.Vec3) {
	if r.Vectors == nil {
		r.Vectors = make(map[int32]mgl32.Vec3)
	}
	r.Vectors[location] = v
	r.record(Call{Op: "UniformVec3", Loc: location})
}

func (r *Recorder) UniformInt(location int32, v int32) {
	if r.Ints == nil {
		r.Ints = make(map[int32]int32)
	}
	r.Ints[location] = v
	r.record(Call{Op: "UniformInt", Loc: location})
}

func (r *Recorder) CreateVertexArray() uint32 {
	id := r.create("vertexArray")
	r.record(Call{Op: "CreateVertexArray", IDs: []uint32{id}})
	return id
}

func (r *Recorder) BindVertexArray(vao uint32) {
	r.record(Call{Op: "BindVertexArray", IDs: []uint32{vao}})
}

func (r *Recorder) DeleteVertexArray(vao uint32) {
	r.record(Call{Op: "DeleteVertexArray", IDs: []uint32{vao}})
	r.release(vao)
}

func (r *Recorder) CreateBuffer() uint32 {
	id := r.create("buffer")
	r.record(Call{Op: "CreateBuffer", IDs: []uint32{id}})
	return id
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record(Call{Op: "DeleteBuffer", IDs: []uint32{buffer}})
	r.release(buffer)
}

func (r *Recorder) StaticVertexData(buffer uint32, location int32, size int32, data []float32) {
	r.record(Call{Op: "StaticVertexData", IDs: []uint32{buffer}, Loc: location, Count: int32(len(data)) / max(size, 1)})
}

func (r *Recorder) StaticIndexData(buffer uint32, data []uint16) {
	r.record(Call{Op: "StaticIndexData", IDs: []uint32{buffer}, Count: int32(len(data))})
}

func (r *Recorder) DrawTriangles(count int32) {
	r.record(Call{Op: "DrawTriangles", Count: count})
}

func (r *Recorder) DrawTriangleStrip(count int32) {
	r.record(Call{Op: "DrawTriangleStrip", Count: count})
}

func (r *Recorder) CreateTexture() uint32 {
	id := r.create("texture")
	r.record(Call{Op: "CreateTexture", IDs: []uint32{id}})
	return id
}

func (r *Recorder) TextureImage(texture uint32, img *image.RGBA) {
	r.record(Call{Op: "TextureImage", IDs: []uint32{texture}, Count: int32(img.Rect.Dx() * img.Rect.Dy())})
}

func (r *Recorder) BindTexture(unit uint32, texture uint32) {
	r.record(Call{Op: "BindTexture", IDs: []uint32{unit, texture}})
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record(Call{Op: "DeleteTexture", IDs: []uint32{texture}})
	r.release(texture)
}

func (r *Recorder) SetClear(color mgl32.Vec4, depth float64) {
	r.record(Call{Op: "SetClear"})
}

func (r *Recorder) Clear() {
	r.record(Call{Op: "Clear"})
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.record(Call{Op: "SetDepthTest", Count: boolCount(enabled)})
}

func (r *Recorder) SetCulling(enabled bool) {
	r.record(Call{Op: "SetCulling", Count: boolCount(enabled)})
}

func (r *Recorder) SetBlending(enabled bool) {
	r.record(Call{Op: "SetBlending", Count: boolCount(enabled)})
}

func (r *Recorder) Viewport(width, height int32) {
	r.record(Call{Op: "Viewport", IDs: []uint32{uint32(width), uint32(height)}})
}

func boolCount(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

var _ graphics.Device = (*Recorder)(nil)
