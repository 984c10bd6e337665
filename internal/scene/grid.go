package scene

import "github.com/go-gl/mathgl/mgl32"

// Grid is the n x m x l instance index space
type Grid struct {
	N, M, L int
	Spacing float32
}

// Cells returns the number of instances, which is also the draw call count
func (g Grid) Cells() int {
	return g.N * g.M * g.L
}

// Empty reports whether any dimension is not positive
func (g Grid) Empty() bool {
	return g.N <= 0 || g.M <= 0 || g.L <= 0
}

// Index picks the renderable for cell (i, j, k) out of count, round-robin
// over the flattened cell order.
func (g Grid) Index(i, j, k, count int) int {
	return (i*g.M*g.L + j*g.L + k) % count
}

// Model places cell (i, j, k) at spacing*(i, j, k), rotated by rotation*i
// about X, rotation*j about Y and rotation*k about Z.
func (g Grid) Model(i, j, k int, rotation float32) mgl32.Mat4 {
	fi, fj, fk := float32(i), float32(j), float32(k)
	return mgl32.Translate3D(g.Spacing*fi, g.Spacing*fj, g.Spacing*fk).
		Mul4(mgl32.HomogRotate3DX(rotation * fi)).
		Mul4(mgl32.HomogRotate3DY(rotation * fj)).
		Mul4(mgl32.HomogRotate3DZ(rotation * fk))
}
