package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"path"
	"strconv"
	"strings"

	"gridview/internal/graphics"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BuiltinPrefix marks mesh references synthesized without I/O, for example
// "builtin:cube", "builtin:tetrahedron:1.5" or "builtin:uvsphere:16:16".
const BuiltinPrefix = "builtin:"

// defaultColor is applied to meshes that carry no vertex colors
var defaultColor = [4]float32{1, 1, 1, 1}

// LoadMesh fetches and decodes a mesh descriptor. JSON descriptors and glTF
// (.gltf, .glb) files are accepted.
func (l *Loader) LoadMesh(ctx context.Context, ref string) (graphics.Mesh, error) {
	var (
		mesh graphics.Mesh
		err  error
	)
	switch {
	case strings.HasPrefix(ref, BuiltinPrefix):
		mesh, err = Builtin(strings.TrimPrefix(ref, BuiltinPrefix))
	case strings.EqualFold(path.Ext(ref), ".gltf"), strings.EqualFold(path.Ext(ref), ".glb"):
		mesh, err = l.loadGLTF(ctx, ref)
	default:
		mesh, err = l.loadJSON(ctx, ref)
	}
	if err != nil {
		return graphics.Mesh{}, err
	}
	if err := mesh.Validate(); err != nil {
		return graphics.Mesh{}, fmt.Errorf("mesh %s: %w", ref, err)
	}
	log.Printf("assets: loaded mesh %s (%d vertices, %d triangles)", ref, mesh.VertexCount(), len(mesh.Indices)/3)
	return mesh, nil
}

func (l *Loader) loadJSON(ctx context.Context, ref string) (graphics.Mesh, error) {
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return graphics.Mesh{}, err
	}
	var mesh graphics.Mesh
	if err := json.Unmarshal(data, &mesh); err != nil {
		return graphics.Mesh{}, fmt.Errorf("could not unmarshal mesh json %s: %w", ref, err)
	}
	return mesh, nil
}

func (l *Loader) loadGLTF(ctx context.Context, ref string) (graphics.Mesh, error) {
	location := l.Resolve(ref)

	var doc *gltf.Document
	if isURL(location) {
		data, err := l.Fetch(ctx, ref)
		if err != nil {
			return graphics.Mesh{}, err
		}
		doc = new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
			return graphics.Mesh{}, fmt.Errorf("gltf decode %q: %w", ref, err)
		}
	} else {
		// local files may reference sibling buffers, so let gltf resolve them
		if _, err := fetchFile(ctx, location); err != nil {
			return graphics.Mesh{}, err
		}
		var err error
		doc, err = gltf.Open(location)
		if err != nil {
			return graphics.Mesh{}, fmt.Errorf("gltf open %q: %w", ref, err)
		}
	}
	return MeshFromGLTF(doc)
}

// MeshFromGLTF merges every triangle primitive of every mesh in doc into one
// indexed mesh. Node transforms are not applied. Primitives without vertex
// colors take their material's base color.
func MeshFromGLTF(doc *gltf.Document) (graphics.Mesh, error) {
	var out graphics.Mesh
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(&out, doc, prim); err != nil {
				return graphics.Mesh{}, fmt.Errorf("gltf mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	if len(out.Indices) == 0 {
		return graphics.Mesh{}, fmt.Errorf("%w: gltf document has no triangle primitives", graphics.ErrInvalidMesh)
	}
	return out, nil
}

func appendPrimitive(out *graphics.Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := out.VertexCount()
	if base+len(positions) > math.MaxUint16+1 {
		return fmt.Errorf("%w: more than %d vertices", graphics.ErrInvalidMesh, math.MaxUint16+1)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}
	// normals must stay aligned with positions across merged primitives
	if len(normals) != len(positions) {
		normals = make([][3]float32, len(positions))
		for i := range normals {
			normals[i] = [3]float32{0, 1, 0}
		}
	}

	color := defaultColor
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			color = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		}
	}

	for i, p := range positions {
		out.Positions = append(out.Positions, p[0], p[1], p[2])
		out.Normals = append(out.Normals, normals[i][0], normals[i][1], normals[i][2])
		out.Colors = append(out.Colors, color[0], color[1], color[2], color[3])
	}

	if prim.Indices == nil {
		for i := range positions {
			out.Indices = append(out.Indices, uint16(base+i))
		}
		return nil
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return fmt.Errorf("read indices: %w", err)
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("%w: index %d out of range", graphics.ErrInvalidMesh, idx)
		}
		out.Indices = append(out.Indices, uint16(base+int(idx)))
	}
	return nil
}

// Builtin synthesizes a primitive from "name[:arg[:arg]]"
func Builtin(spec string) (graphics.Mesh, error) {
	parts := strings.Split(spec, ":")
	args := make([]float64, 0, len(parts)-1)
	for _, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return graphics.Mesh{}, fmt.Errorf("builtin mesh %q: bad argument %q", spec, p)
		}
		args = append(args, v)
	}
	arg := func(i int, def float64) float64 {
		if i < len(args) {
			return args[i]
		}
		return def
	}

	switch parts[0] {
	case "cube":
		return graphics.Cube(float32(arg(0, 1))), nil
	case "tetrahedron":
		return graphics.Tetrahedron(float32(arg(0, 1))), nil
	case "uvsphere":
		a, b := arg(0, 16), arg(1, 16)
		if a > math.MaxUint16 || b > math.MaxUint16 {
			return graphics.Mesh{}, fmt.Errorf("builtin mesh %q: too many vertices", spec)
		}
		slices, stacks := int(a), int(b)
		if graphics.UVSphereVertices(slices, stacks) > math.MaxUint16+1 {
			return graphics.Mesh{}, fmt.Errorf("builtin mesh %q: too many vertices", spec)
		}
		return graphics.UVSphere(slices, stacks), nil
	}
	return graphics.Mesh{}, fmt.Errorf("unknown builtin mesh %q", spec)
}
