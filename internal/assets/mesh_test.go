package assets

import (
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Primitives: []*gltf.Primitive{
			{Indices: gltf.Index(idx), Attributes: map[string]int{"POSITION": pos}, Material: gltf.Index(0)},
			{Attributes: map[string]int{"POSITION": pos}},
		},
	}}
	return doc
}

func TestMeshFromGLTF(t *testing.T) {
	m, err := MeshFromGLTF(triangleDocument())
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 6, m.VertexCount(), "primitives are merged")
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5}, m.Indices)
	assert.Equal(t, []float32{1, 0, 0, 1}, m.Colors[:4], "material base color")
	assert.Equal(t, []float32{1, 1, 1, 1}, m.Colors[12:16], "default color without material")
	assert.Len(t, m.Normals, len(m.Positions))
}

func TestMeshFromGLTFWithoutTriangles(t *testing.T) {
	_, err := MeshFromGLTF(gltf.NewDocument())
	assert.Error(t, err)
}
