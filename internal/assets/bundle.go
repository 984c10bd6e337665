package assets

import (
	"context"
	"fmt"
	"log"

	"gridview/internal/config"
	"gridview/internal/graphics"
)

// Manifest names every resource fetched before the viewer starts
type Manifest struct {
	VertexShader   string
	FragmentShader string
	Meshes         []string
	// Config is optional; empty means built-in defaults
	Config string
}

// DefaultManifest references the shipped shaders and models
func DefaultManifest() Manifest {
	return Manifest{
		VertexShader:   "glsl/shader.vert",
		FragmentShader: "glsl/shader.frag",
		Meshes: []string{
			"models/cube.json",
			"models/tetrahedron.json",
			BuiltinPrefix + "uvsphere:16:16",
		},
	}
}

// Bundle is everything the viewer needs from storage
type Bundle struct {
	VertexSource   string
	FragmentSource string
	Meshes         []graphics.Mesh
	Config         config.Config
	// Font holds the overlay font file named by Config, if any
	Font []byte
}

// LoadBundle fetches the manifest in a fixed order: vertex shader, fragment
// shader, each mesh, the optional configuration, then the overlay font the
// configuration names. The first failure aborts the chain and is returned
// as is.
func (l *Loader) LoadBundle(ctx context.Context, m Manifest) (*Bundle, error) {
	if len(m.Meshes) == 0 {
		return nil, fmt.Errorf("manifest lists no meshes")
	}

	b := &Bundle{Config: config.Default()}
	var err error

	if b.VertexSource, err = l.LoadText(ctx, m.VertexShader); err != nil {
		return nil, err
	}
	if b.FragmentSource, err = l.LoadText(ctx, m.FragmentShader); err != nil {
		return nil, err
	}
	for _, ref := range m.Meshes {
		mesh, err := l.LoadMesh(ctx, ref)
		if err != nil {
			return nil, err
		}
		mesh.FillColor(defaultColor)
		b.Meshes = append(b.Meshes, mesh)
	}
	if m.Config != "" {
		if b.Config, err = l.LoadConfig(ctx, m.Config); err != nil {
			return nil, err
		}
	}

	if ref := b.Config.OverlayFont; ref != "" {
		if b.Font, err = l.Fetch(ctx, ref); err != nil {
			return nil, err
		}
	}

	log.Printf("assets: bundle ready (%d meshes)", len(b.Meshes))
	return b, nil
}

// LoadConfig fetches and parses a configuration file
func (l *Loader) LoadConfig(ctx context.Context, ref string) (config.Config, error) {
	format, err := config.FormatOf(ref)
	if err != nil {
		return config.Config{}, err
	}
	data, err := l.Fetch(ctx, ref)
	if err != nil {
		return config.Config{}, err
	}
	c, err := config.Parse(data, format)
	if err != nil {
		return config.Config{}, fmt.Errorf("config %s: %w", ref, err)
	}
	return c, nil
}
