package graphics

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const overlayVertexShader = `#version 410 core
uniform vec2 origin;
uniform vec2 size;
out vec2 uv;
void main() {
	vec2 corner = vec2(gl_VertexID & 1, gl_VertexID >> 1);
	uv = corner;
	gl_Position = vec4(origin.x + corner.x * size.x, origin.y - corner.y * size.y, 0.0, 1.0);
}
`

const overlayFragmentShader = `#version 410 core
uniform sampler2D glyphs;
in vec2 uv;
out vec4 fragColor;
void main() {
	fragColor = texture(glyphs, uv);
}
`

const (
	overlayPadding = 4
	overlayMargin  = 8
)

var overlayBackground = color.RGBA{A: 160}

// Overlay draws a block of text in the top-left corner of the viewport
type Overlay struct {
	dev     Device
	program *Program
	vao     uint32
	texture uint32

	face   font.Face
	stale  bool
	text   string
	size   image.Point
	width  int
	height int
}

// NewOverlay compiles the overlay program and allocates its texture
func NewOverlay(dev Device) (*Overlay, error) {
	program, err := CompileProgram(dev, overlayVertexShader, overlayFragmentShader,
		[]string{"origin", "size", "glyphs"}, nil)
	if err != nil {
		return nil, err
	}
	return &Overlay{
		dev:     dev,
		program: program,
		vao:     dev.CreateVertexArray(),
		texture: dev.CreateTexture(),
		stale:   true,
	}, nil
}

// SetViewport records the framebuffer size used to place the text
func (o *Overlay) SetViewport(width, height int) {
	o.width = width
	o.height = height
}

// SetFace switches the face text is drawn with; nil selects DefaultFace
func (o *Overlay) SetFace(face font.Face) {
	o.face = face
	o.stale = true
}

// Draw rasterizes text when it changed and blends it over the frame
func (o *Overlay) Draw(text string) {
	if o.width <= 0 || o.height <= 0 {
		return
	}
	if o.stale || text != o.text {
		img := RasterizeText(o.face, strings.Split(text, "\n"))
		o.dev.TextureImage(o.texture, img)
		o.size = img.Rect.Size()
		o.text = text
		o.stale = false
	}

	o.dev.SetDepthTest(false)
	o.dev.SetCulling(false)
	o.dev.SetBlending(true)

	o.program.Use()
	w, h := float32(o.width), float32(o.height)
	o.program.SetVec2("origin", mgl32.Vec2{-1 + 2*overlayMargin/w, 1 - 2*overlayMargin/h})
	o.program.SetVec2("size", mgl32.Vec2{2 * float32(o.size.X) / w, 2 * float32(o.size.Y) / h})
	o.program.SetInt("glyphs", 0)
	o.dev.BindTexture(0, o.texture)
	o.dev.BindVertexArray(o.vao)
	o.dev.DrawTriangleStrip(4)

	o.dev.SetBlending(false)
	o.dev.SetCulling(true)
	o.dev.SetDepthTest(true)
}

// Delete releases the program, vertex array and texture
func (o *Overlay) Delete() {
	o.program.Delete()
	o.dev.DeleteVertexArray(o.vao)
	o.dev.DeleteTexture(o.texture)
}

// RasterizeText renders lines with face, or DefaultFace when nil, onto a
// translucent panel sized to fit them.
func RasterizeText(face font.Face, lines []string) *image.RGBA {
	if face == nil {
		face = DefaultFace
	}
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	img := image.NewRGBA(image.Rect(0, 0, width+2*overlayPadding, len(lines)*lineHeight+2*overlayPadding))
	draw.Draw(img, img.Bounds(), image.NewUniform(overlayBackground), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.White, Face: face}
	for i, line := range lines {
		d.Dot = fixed.P(overlayPadding, overlayPadding+ascent+i*lineHeight)
		d.DrawString(line)
	}
	return img
}
