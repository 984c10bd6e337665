package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gridview/internal/graphics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleJSON = `{"positions": [0, 0, 0, 1, 0, 0, 0, 1, 0], "indices": [0, 1, 2]}`

func serve(t *testing.T, files map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestResolve(t *testing.T) {
	l := NewLoader("http://example.com/viewer")
	assert.Equal(t, "http://example.com/viewer/glsl/shader.vert", l.Resolve("glsl/shader.vert"))
	assert.Equal(t, "https://cdn.test/a.json", l.Resolve("https://cdn.test/a.json"))

	l = NewLoader("/srv/assets")
	assert.Equal(t, filepath.Join("/srv/assets", "models", "cube.json"), l.Resolve("models/cube.json"))
}

func TestFetchHTTPNotFound(t *testing.T) {
	srv, _ := serve(t, nil)
	l := NewLoader(srv.URL)

	_, err := l.Fetch(context.Background(), "missing.vert")
	var rle *ResourceLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, http.StatusNotFound, rle.Status)
	assert.Equal(t, srv.URL+"/missing.vert", rle.URL)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestFetchMissingFileIs404(t *testing.T) {
	l := NewLoader(t.TempDir())
	_, err := l.Fetch(context.Background(), "nope.json")
	var rle *ResourceLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, http.StatusNotFound, rle.Status)
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(t.TempDir()).Fetch(ctx, "x.json")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadMeshJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.json"), []byte(triangleJSON), 0o644))

	m, err := NewLoader(dir).LoadMesh(context.Background(), "tri.json")
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, []uint16{0, 1, 2}, m.Indices)
}

func TestLoadMeshRejectsInvalid(t *testing.T) {
	srv, _ := serve(t, map[string]string{
		"/bad.json":    `{"positions": [0, 0, 0], "indices": [0, 1, 2]}`,
		"/broken.json": `{"positions": [`,
	})
	l := NewLoader(srv.URL)
	_, err := l.LoadMesh(context.Background(), "bad.json")
	assert.Error(t, err)
	_, err = l.LoadMesh(context.Background(), "broken.json")
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	m, err := NewLoader("").LoadMesh(context.Background(), "builtin:uvsphere:8:4")
	require.NoError(t, err)
	assert.Equal(t, 9*5, m.VertexCount())

	m, err = Builtin("cube:2")
	require.NoError(t, err)
	assert.Equal(t, float32(1), m.Positions[0]*m.Positions[0])

	for _, bad := range []string{
		"torus", "cube:x", "cube:NaN", "uvsphere:1000:1000",
		"uvsphere:70000:-5", "uvsphere:-5:70000", "uvsphere:1e300:1", "uvsphere:Inf:4",
	} {
		_, err := Builtin(bad)
		assert.Error(t, err, bad)
	}

	// raised to the minimum step counts
	m, err = Builtin("uvsphere:-5:-5")
	require.NoError(t, err)
	assert.Equal(t, graphics.UVSphereVertices(3, 2), m.VertexCount())
	assert.NoError(t, m.Validate())
}
