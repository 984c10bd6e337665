package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Face colors used by the cube, in face order
var cubeFaceColors = [6][4]float32{
	{1, 1, 1, 1}, // top: white
	{1, 0, 0, 1}, // bottom: red
	{0, 1, 0, 1}, // left: green
	{0, 0, 1, 1}, // right: blue
	{1, 1, 0, 1}, // front: yellow
	{1, 0, 1, 1}, // back: purple
}

// Cube returns an axis-aligned cube of edge length size centered on the origin,
// with flat normals and one color per face.
func Cube(size float32) Mesh {
	h := size / 2
	faces := [6]struct {
		corners [4]mgl32.Vec3
		normal  mgl32.Vec3
	}{
		{[4]mgl32.Vec3{{-h, h, h}, {h, h, h}, {-h, h, -h}, {h, h, -h}}, mgl32.Vec3{0, 1, 0}},
		{[4]mgl32.Vec3{{-h, -h, -h}, {h, -h, -h}, {-h, -h, h}, {h, -h, h}}, mgl32.Vec3{0, -1, 0}},
		{[4]mgl32.Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, -h}, {-h, h, h}}, mgl32.Vec3{-1, 0, 0}},
		{[4]mgl32.Vec3{{h, -h, h}, {h, -h, -h}, {h, h, h}, {h, h, -h}}, mgl32.Vec3{1, 0, 0}},
		{[4]mgl32.Vec3{{-h, -h, h}, {h, -h, h}, {-h, h, h}, {h, h, h}}, mgl32.Vec3{0, 0, 1}},
		{[4]mgl32.Vec3{{h, -h, -h}, {-h, -h, -h}, {h, h, -h}, {-h, h, -h}}, mgl32.Vec3{0, 0, -1}},
	}

	var m Mesh
	for f, face := range faces {
		base := uint16(f * 4)
		for _, c := range face.corners {
			m.Positions = append(m.Positions, c[0], c[1], c[2])
			m.Normals = append(m.Normals, face.normal[0], face.normal[1], face.normal[2])
			col := cubeFaceColors[f]
			m.Colors = append(m.Colors, col[0], col[1], col[2], col[3])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+1, base+3)
	}
	return m
}

// Tetrahedron returns a regular tetrahedron inscribed in a cube of edge
// length size, with flat normals.
func Tetrahedron(size float32) Mesh {
	h := size / 2
	a := mgl32.Vec3{h, h, h}
	b := mgl32.Vec3{h, -h, -h}
	c := mgl32.Vec3{-h, h, -h}
	d := mgl32.Vec3{-h, -h, h}
	triangles := [4][3]mgl32.Vec3{{a, b, c}, {a, d, b}, {a, c, d}, {b, d, c}}
	colors := [4][4]float32{{1, 0.5, 0, 1}, {0, 0.75, 1, 1}, {0.5, 1, 0.5, 1}, {0.9, 0.9, 0.9, 1}}

	var m Mesh
	for t, tri := range triangles {
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Normalize()
		for _, v := range tri {
			m.Positions = append(m.Positions, v[0], v[1], v[2])
			m.Normals = append(m.Normals, n[0], n[1], n[2])
			m.Colors = append(m.Colors, colors[t][0], colors[t][1], colors[t][2], colors[t][3])
		}
		base := uint16(t * 3)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	return m
}

// UVSphere returns a unit sphere tessellated into slices around the vertical
// axis and stacks from pole to pole, with smooth normals. Values below 3
// slices or 2 stacks are raised to those minimums.
func UVSphere(slices, stacks int) Mesh {
	slices, stacks = sphereSteps(slices, stacks)

	var m Mesh
	for s := 0; s <= stacks; s++ {
		phi := math.Pi * float64(s) / float64(stacks)
		y := float32(math.Cos(phi))
		r := math.Sin(phi)
		for t := 0; t <= slices; t++ {
			theta := 2 * math.Pi * float64(t) / float64(slices)
			x := float32(r * math.Cos(theta))
			z := float32(r * math.Sin(theta))
			m.Positions = append(m.Positions, x, y, z)
			m.Normals = append(m.Normals, x, y, z)
			// latitude gradient
			v := float32(s) / float32(stacks)
			m.Colors = append(m.Colors, 0.2+0.8*(1-v), 0.4, 0.2+0.8*v, 1)
		}
	}

	row := uint16(slices + 1)
	for s := 0; s < stacks; s++ {
		for t := 0; t < slices; t++ {
			a := uint16(s)*row + uint16(t)
			b := a + row
			m.Indices = append(m.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return m
}

// UVSphereVertices returns how many vertices UVSphere(slices, stacks) emits
func UVSphereVertices(slices, stacks int) int {
	slices, stacks = sphereSteps(slices, stacks)
	return (slices + 1) * (stacks + 1)
}

func sphereSteps(slices, stacks int) (int, int) {
	return max(slices, 3), max(stacks, 2)
}
