package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Location identifies a named uniform or attribute within a linked program
type Location int32

// NoLocation is reported for names the program does not expose.
// Uploads through it are dropped.
const NoLocation Location = -1

// Valid reports whether the name resolved to a real location
func (l Location) Valid() bool {
	return l >= 0
}

// ShaderCompileError reports a stage that failed to compile
type ShaderCompileError struct {
	Stage Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// ProgramLinkError reports a program that failed to link
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// Program is a linked shader program with its uniform and attribute
// locations resolved once after linking.
type Program struct {
	dev        Device
	ID         uint32
	uniforms   map[string]Location
	attributes map[string]Location
}

// CompileProgram compiles both stages, links them and resolves the requested
// names. On failure every object created so far is released and no program
// is returned.
func CompileProgram(dev Device, vertexSource, fragmentSource string, uniforms, attributes []string) (*Program, error) {
	vertexShader, err := compileShader(dev, StageVertex, vertexSource)
	if err != nil {
		return nil, err
	}
	fragmentShader, err := compileShader(dev, StageFragment, fragmentSource)
	if err != nil {
		dev.DeleteShader(vertexShader)
		return nil, err
	}

	id := dev.CreateProgram()
	dev.AttachShader(id, vertexShader)
	dev.AttachShader(id, fragmentShader)
	ok, log := dev.LinkProgram(id)

	dev.DetachShader(id, vertexShader)
	dev.DetachShader(id, fragmentShader)
	dev.DeleteShader(vertexShader)
	dev.DeleteShader(fragmentShader)

	if !ok {
		dev.DeleteProgram(id)
		return nil, &ProgramLinkError{Log: log}
	}

	p := &Program{
		dev:        dev,
		ID:         id,
		uniforms:   make(map[string]Location, len(uniforms)),
		attributes: make(map[string]Location, len(attributes)),
	}
	for _, name := range uniforms {
		p.uniforms[name] = Location(dev.UniformLocation(id, name))
	}
	for _, name := range attributes {
		p.attributes[name] = Location(dev.AttribLocation(id, name))
	}
	return p, nil
}

func compileShader(dev Device, stage Stage, source string) (uint32, error) {
	shader := dev.CreateShader(stage)
	if ok, log := dev.CompileShader(shader, source); !ok {
		dev.DeleteShader(shader)
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return shader, nil
}

// Uniform returns the location resolved for name, or NoLocation
func (p *Program) Uniform(name string) Location {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return NoLocation
}

// Attribute returns the location resolved for name, or NoLocation
func (p *Program) Attribute(name string) Location {
	if loc, ok := p.attributes[name]; ok {
		return loc
	}
	return NoLocation
}

// Use activates the program
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// SetMatrix4 sets a 4x4 matrix uniform on the active program
func (p *Program) SetMatrix4(name string, m mgl32.Mat4) {
	if loc := p.Uniform(name); loc.Valid() {
		p.dev.UniformMatrix4(int32(loc), m)
	}
}

// SetVec2 sets a vector2 uniform on the active program
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.Uniform(name); loc.Valid() {
		p.dev.UniformVec2(int32(loc), v)
	}
}

// SetVec3 sets a vector3 uniform on the active program
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.Uniform(name); loc.Valid() {
		p.dev.UniformVec3(int32(loc), v)
	}
}

// SetInt sets an integer uniform on the active program
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Uniform(name); loc.Valid() {
		p.dev.UniformInt(int32(loc), v)
	}
}

// Delete releases the program
func (p *Program) Delete() {
	if p.ID != 0 {
		p.dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}
