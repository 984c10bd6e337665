package graphics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMesh is wrapped by every mesh validation failure
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is a triangle list in flat arrays: 3 floats per position and normal,
// 4 per color, 3 indices per triangle. Normals and colors are optional.
type Mesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals,omitempty"`
	Colors    []float32 `json:"colors,omitempty"`
	Indices   []uint16  `json:"indices"`
}

// VertexCount returns the number of vertices described by Positions
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Validate checks array shapes and index bounds
func (m *Mesh) Validate() error {
	if len(m.Positions) == 0 || len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a positive multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a positive multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	vertices := m.VertexCount()
	if vertices > math.MaxUint16+1 {
		return fmt.Errorf("%w: %d vertices exceed 16-bit indices", ErrInvalidMesh, vertices)
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalidMesh, len(m.Normals), vertices)
	}
	if len(m.Colors) != 0 && len(m.Colors) != vertices*4 {
		return fmt.Errorf("%w: %d color floats for %d vertices", ErrInvalidMesh, len(m.Colors), vertices)
	}
	for i, idx := range m.Indices {
		if int(idx) >= vertices {
			return fmt.Errorf("%w: index %d at %d out of range for %d vertices", ErrInvalidMesh, idx, i, vertices)
		}
	}
	return nil
}

// FillColor sets every vertex color to c when the mesh carries none
func (m *Mesh) FillColor(c [4]float32) {
	if len(m.Colors) != 0 {
		return
	}
	m.Colors = make([]float32, 0, m.VertexCount()*4)
	for range m.VertexCount() {
		m.Colors = append(m.Colors, c[0], c[1], c[2], c[3])
	}
}
