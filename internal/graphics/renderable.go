package graphics

// Attribute names a mesh program must expose
const (
	AttributePosition = "position"
	AttributeNormal   = "normal"
	AttributeColor    = "color"
)

// Attributes lists every vertex attribute a Renderable feeds
var Attributes = []string{AttributePosition, AttributeNormal, AttributeColor}

// Renderable owns the GPU buffers of one mesh. Geometry is uploaded once at
// creation and never changes afterwards.
type Renderable struct {
	dev     Device
	vao     uint32
	buffers []uint32
	count   int32
}

// NewRenderable uploads mesh into static buffers wired to program's
// attribute locations. Attributes the program does not expose are skipped.
func NewRenderable(dev Device, program *Program, mesh Mesh) (*Renderable, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	r := &Renderable{
		dev:   dev,
		count: int32(len(mesh.Indices)),
	}
	r.vao = dev.CreateVertexArray()
	dev.BindVertexArray(r.vao)

	r.vertexData(program.Attribute(AttributePosition), 3, mesh.Positions)
	if len(mesh.Normals) > 0 {
		r.vertexData(program.Attribute(AttributeNormal), 3, mesh.Normals)
	}
	if len(mesh.Colors) > 0 {
		r.vertexData(program.Attribute(AttributeColor), 4, mesh.Colors)
	}

	indices := dev.CreateBuffer()
	r.buffers = append(r.buffers, indices)
	dev.StaticIndexData(indices, mesh.Indices)

	dev.BindVertexArray(0)
	return r, nil
}

func (r *Renderable) vertexData(loc Location, size int32, data []float32) {
	buffer := r.dev.CreateBuffer()
	r.buffers = append(r.buffers, buffer)
	r.dev.StaticVertexData(buffer, int32(loc), size, data)
}

// Count returns the number of indices drawn per Render
func (r *Renderable) Count() int32 {
	return r.count
}

// Buffers returns the number of GPU buffers owned
func (r *Renderable) Buffers() int {
	return len(r.buffers)
}

// Render issues one indexed triangle draw. A compatible program must already
// be active.
func (r *Renderable) Render() {
	r.dev.BindVertexArray(r.vao)
	r.dev.DrawTriangles(r.count)
}

// Delete releases the vertex array and every buffer
func (r *Renderable) Delete() {
	for _, b := range r.buffers {
		if b != 0 {
			r.dev.DeleteBuffer(b)
		}
	}
	r.buffers = nil
	if r.vao != 0 {
		r.dev.DeleteVertexArray(r.vao)
		r.vao = 0
	}
}
